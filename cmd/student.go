package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/store"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage student records",
}

var studentAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a student and print their ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		if _, err := scoring.ConfigFor(year); err != nil {
			return fmt.Errorf("--year must be 3, 5 or 7: %w", err)
		}
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		s, err := st.CreateStudent(cmd.Context(), strings.Join(args, " "), year)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (Year %d): %s\n", s.Name, s.YearLevel, s.ID)
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		students, err := st.ListStudents(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tYEAR\tTESTS\tAVERAGE\tCREATED")
		n := 0
		for _, s := range students {
			if year != 0 && s.YearLevel != year {
				continue
			}
			results, err := st.StudentResults(cmd.Context(), s.ID)
			if err != nil {
				return err
			}
			avg := "-"
			if len(results) > 0 {
				avg = fmt.Sprintf("%.1f%%", average(results))
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
				s.ID, s.Name, s.YearLevel, len(results), avg, s.CreatedAt.Local().Format("2006-01-02"))
			n++
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d students\n", n)
		return nil
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a student's results and weak topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		s, err := st.GetStudent(cmd.Context(), studentID(args[0]))
		if err != nil {
			return err
		}
		results, err := st.StudentResults(cmd.Context(), s.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s  (Year %d, %s)\n", s.ID, s.Name, s.YearLevel, s.Status)
		fmt.Fprintf(out, "Registered %s\n\n", s.CreatedAt.Local().Format("Jan 02, 2006"))
		if len(results) == 0 {
			fmt.Fprintln(out, "No tests taken yet.")
			return nil
		}
		printResultTable(out, results)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Topics (weakest first):")
		for _, t := range scoring.MergeTopics(results) {
			mark := ""
			if t.Percentage < scoring.WeakTopicThreshold {
				mark = "  needs practice"
			}
			fmt.Fprintf(out, "  %-28s %3d/%-3d %5.1f%%%s\n", t.Topic, t.Correct, t.Total, t.Percentage, mark)
		}
		return nil
	},
}

var studentDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a student and all their results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return confirmAndRun(cmd, args[0], "delete", func(st *store.Store, id string) error {
			return st.DeleteStudent(cmd.Context(), id)
		})
	},
}

var studentResetCmd = &cobra.Command{
	Use:   "reset ID",
	Short: "Clear a student's results but keep the student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return confirmAndRun(cmd, args[0], "clear all results of", func(st *store.Store, id string) error {
			return st.ClearStudentProgress(cmd.Context(), id)
		})
	},
}

func init() {
	studentAddCmd.Flags().Int("year", 0, "Year level: 3, 5 or 7 (required)")
	_ = studentAddCmd.MarkFlagRequired("year")
	studentListCmd.Flags().Int("year", 0, "Only list this year level")
	for _, c := range []*cobra.Command{studentDeleteCmd, studentResetCmd} {
		c.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	}

	studentCmd.AddCommand(studentAddCmd, studentListCmd, studentShowCmd, studentDeleteCmd, studentResetCmd)
	addPasswordFlag(studentAddCmd, studentListCmd, studentShowCmd, studentDeleteCmd, studentResetCmd)
}

// confirmAndRun asks before a destructive student operation unless --yes is set.
func confirmAndRun(cmd *cobra.Command, rawID, verb string, run func(*store.Store, string) error) error {
	st, err := openStore(log)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := requireAdmin(cmd, st); err != nil {
		return err
	}

	s, err := st.GetStudent(cmd.Context(), studentID(rawID))
	if err != nil {
		return err
	}
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		answer, err := prompt(cmd, fmt.Sprintf("Really %s %s (%s)? [y/N] ", verb, s.Name, s.ID))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return errors.New("cancelled")
		}
	}
	if err := run(st, s.ID); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Done.")
	return nil
}

// studentID normalises a typed student ID.
func studentID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func average(results []scoring.TestResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Percentage
	}
	return sum / float64(len(results))
}
