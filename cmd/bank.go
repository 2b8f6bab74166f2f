package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/numeracy/internal/bank"
	"github.com/abhisek/numeracy/internal/metrics"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and check the question bank",
}

var bankLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Sample every template and report broken ones",
	Long: `Generate many questions from every template in the bank and report
templates that fail to produce a question, always answer 0, produce a
broken option set, or declare a parameter nothing uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, _ := cmd.Flags().GetInt("samples")
		workers, _ := cmd.Flags().GetInt("workers")
		seed, _ := cmd.Flags().GetUint64("seed")
		asJSON, _ := cmd.Flags().GetBool("json")
		showMetrics, _ := cmd.Flags().GetBool("metrics")

		catalog, err := openCatalog()
		if err != nil {
			return err
		}

		opts := bank.DefaultLintOptions()
		opts.Samples = cfg.Lint.Samples
		opts.Workers = cfg.Lint.Workers
		if samples > 0 {
			opts.Samples = samples
		}
		if workers > 0 {
			opts.Workers = workers
		}
		opts.Seed = seed
		opts.Logger = log
		m := metrics.New()
		opts.Recorder = m

		findings, err := bank.Lint(cmd.Context(), catalog, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if findings == nil {
				findings = []bank.Finding{}
			}
			if err := enc.Encode(findings); err != nil {
				return err
			}
		} else {
			for _, f := range findings {
				fmt.Fprintln(out, f)
			}
			fmt.Fprintf(out, "%d templates, %d samples each, %d findings\n", catalog.Len(), opts.Samples, len(findings))
		}

		if showMetrics {
			summary, err := m.Summary()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), summary)
		}
		if len(findings) > 0 {
			return fmt.Errorf("question bank has %d findings", len(findings))
		}
		return nil
	},
}

var bankTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics of a year level",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		years := catalog.Years()
		if year != 0 {
			if _, err := catalog.Year(year); err != nil {
				return err
			}
			years = []int{year}
		}
		for _, y := range years {
			ts, _ := catalog.Year(y)
			fmt.Fprintf(cmd.OutOrStdout(), "Year %d (%d templates)\n", y, len(ts))
			for _, t := range catalog.Topics(y) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", t)
			}
		}
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a bank file against the schema without using it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := bank.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s, years %v, %d templates\n", args[0], c.Version, c.Years(), c.Len())
		return nil
	},
}

func init() {
	f := bankLintCmd.Flags()
	f.Int("samples", 0, "Questions generated per template (default lint.samples)")
	f.Int("workers", 0, "Templates checked in parallel (default lint.workers or GOMAXPROCS)")
	f.Uint64("seed", 0, "Seed for reproducible sampling")
	f.Bool("json", false, "Print findings as JSON")
	f.Bool("metrics", false, "Print generation counters afterwards")
	bankTopicsCmd.Flags().Int("year", 0, "Only this year level")

	bankCmd.AddCommand(bankLintCmd, bankTopicsCmd, bankValidateCmd)
}
