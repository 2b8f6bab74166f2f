package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show results across all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		a, err := st.Analytics(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		}

		fmt.Fprintf(out, "Students: %d   Tests taken: %d\n\n", a.TotalStudents, a.TotalTests)
		for _, y := range a.Years {
			fmt.Fprintf(out, "Year %d: %d students, %d tests, average %.1f%%\n", y.Year, y.Students, y.TestsTaken, y.AveragePercent)
		}
		if len(a.WeakTopics) == 0 {
			fmt.Fprintln(out, "\nNo topics below 70%.")
			return nil
		}
		fmt.Fprintln(out, "\nTopics needing practice:")
		for _, t := range a.WeakTopics {
			fmt.Fprintf(out, "  %-28s %4d/%-4d %5.1f%%\n", t.Topic, t.Correct, t.Total, t.Percentage)
		}
		return nil
	},
}

func init() {
	analyticsCmd.Flags().Bool("json", false, "Print analytics as JSON")
	addPasswordFlag(analyticsCmd)
}
