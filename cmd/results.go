package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/numeracy/internal/scoring"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Look up stored test results",
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a student's test results, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("student")
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		s, err := st.GetStudent(cmd.Context(), studentID(id))
		if err != nil {
			return err
		}
		results, err := st.StudentResults(cmd.Context(), s.ID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no results.\n", s.Name)
			return nil
		}
		printResultTable(cmd.OutOrStdout(), results)
		return nil
	},
}

var resultsShowCmd = &cobra.Command{
	Use:   "show TEST_ID",
	Short: "Show one test result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		review, _ := cmd.Flags().GetBool("review")
		asJSON, _ := cmd.Flags().GetBool("json")
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		res, sid, err := st.GetResult(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintf(out, "Student %s  ·  %s\n\n", sid, res.Date.Local().Format("Jan 02, 2006 15:04"))
		printResult(out, res)
		if review {
			fmt.Fprintln(out)
			printReview(out, res)
		}
		return nil
	},
}

func init() {
	resultsListCmd.Flags().String("student", "", "Student ID (required)")
	_ = resultsListCmd.MarkFlagRequired("student")
	resultsShowCmd.Flags().Bool("review", false, "List every question with the given and correct answer")
	resultsShowCmd.Flags().Bool("json", false, "Print the stored result as JSON")

	resultsCmd.AddCommand(resultsListCmd, resultsShowCmd)
	addPasswordFlag(resultsListCmd, resultsShowCmd)
}

func testName(res *scoring.TestResult) string {
	if res.Type == scoring.TestFocus {
		return "Focus: " + res.FocusTopic
	}
	return "Practice test"
}

// printResult writes the score, band and topic breakdown of a result.
func printResult(w io.Writer, res *scoring.TestResult) {
	fmt.Fprintf(w, "%s: %d / %d correct (%.1f%%)\n", testName(res), res.QuestionsCorrect, res.QuestionsTotal, res.Percentage)
	if res.BandScore > 0 {
		fmt.Fprintf(w, "Band %d · %s\n", res.BandScore, res.Label())
	} else {
		fmt.Fprintln(w, res.Label())
	}
	fmt.Fprintf(w, "Time taken: %d:%02d\n", res.TimeSpent/60, res.TimeSpent%60)

	if len(res.TopicBreakdown) == 0 {
		return
	}
	fmt.Fprintln(w, "\nBy topic:")
	for _, topic := range res.Topics() {
		ts := res.TopicBreakdown[topic]
		fmt.Fprintf(w, "  %-28s %3d/%-3d %5.1f%%\n", topic, ts.Correct, ts.Total, ts.Percentage())
	}
}

func printReview(w io.Writer, res *scoring.TestResult) {
	for i, q := range res.Questions {
		mark := "✗"
		if q.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %2d. %s\n", mark, i+1, q.QuestionText)
		fmt.Fprintf(w, "      Your answer: %s", scoring.FormatAnswer(q.StudentAnswer))
		if !q.IsCorrect {
			fmt.Fprintf(w, "   Correct: %s", scoring.FormatAnswer(q.CorrectAnswer))
		}
		fmt.Fprintln(w)
	}
}

func printResultTable(w io.Writer, results []scoring.TestResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEST ID\tDATE\tTEST\tSCORE\tPERCENT\tBAND")
	for i := range results {
		r := &results[i]
		band := "-"
		if r.BandScore > 0 {
			band = fmt.Sprint(r.BandScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%.1f%%\t%s\n",
			r.TestID, r.Date.Local().Format("2006-01-02 15:04"), testName(r),
			r.QuestionsCorrect, r.QuestionsTotal, r.Percentage, band)
	}
	_ = tw.Flush()
}
