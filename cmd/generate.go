package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/numeracy/internal/metrics"
	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/scoring"
	"github.com/abhisek/numeracy/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a practice test from the question bank (no database)",
	Long: `Generate a full or focus test for a year level and print it.

This is a stateless tool: nothing is stored. Use --quiz to answer the
questions in the terminal and get a score, or --json to feed the test
to another program.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int("year", 0, "Year level: 3, 5 or 7 (required)")
	f.Int("count", 0, "Number of questions (default: the year's test length, 10 for a topic)")
	f.String("topic", "", "Generate a focus test on this topic")
	f.Uint64("seed", 0, "Seed for reproducible output (default: generator.seed or random)")
	f.Bool("json", false, "Print the questions as JSON")
	f.Bool("answers", false, "Show the correct answer under each question")
	f.Bool("quiz", false, "Answer the questions interactively and print a score")
	f.Bool("metrics", false, "Print generation counters afterwards")
	_ = generateCmd.MarkFlagRequired("year")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	count, _ := cmd.Flags().GetInt("count")
	topic, _ := cmd.Flags().GetString("topic")
	seed, _ := cmd.Flags().GetUint64("seed")
	asJSON, _ := cmd.Flags().GetBool("json")
	showAnswers, _ := cmd.Flags().GetBool("answers")
	quiz, _ := cmd.Flags().GetBool("quiz")
	showMetrics, _ := cmd.Flags().GetBool("metrics")

	if asJSON && quiz {
		return fmt.Errorf("use --json or --quiz, not both")
	}

	var plan *session.Plan
	var err error
	if topic != "" {
		plan, err = session.FocusPlan(year, topic)
	} else {
		plan, err = session.FullPlan(year)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		plan.QuestionCount = count
	}

	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	m := metrics.New()
	planner := session.NewPlanner(catalog, newGenerator(log, seed, m))

	started := time.Now()
	questions, err := planner.Questions(plan)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(questions); err != nil {
			return fmt.Errorf("encode questions: %w", err)
		}
	case quiz:
		runQuiz(cmd.InOrStdin(), out, plan, questions, started)
	default:
		printQuestions(out, questions, showAnswers)
	}

	if showMetrics {
		summary, err := m.Summary()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), summary)
	}
	return nil
}

func printQuestions(w io.Writer, questions []questiongen.Question, showAnswers bool) {
	for i, q := range questions {
		fmt.Fprintf(w, "── Question %d/%d ── %s (%s)\n", i+1, len(questions), q.Topic, q.Difficulty)
		fmt.Fprintln(w, q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'A'+j, o)
		}
		if showAnswers {
			fmt.Fprintf(w, "Answer: %s\n", q.CorrectAnswer)
		}
		fmt.Fprintln(w)
	}
}

// runQuiz asks each question on w, reads answers from r and prints the
// scored result. A letter picks a multiple-choice option.
func runQuiz(r io.Reader, w io.Writer, plan *session.Plan, questions []questiongen.Question, started time.Time) {
	scanner := bufio.NewScanner(r)
	answers := make([]string, len(questions))

	for i, q := range questions {
		fmt.Fprintf(w, "── Question %d/%d ──\n", i+1, len(questions))
		fmt.Fprintln(w, q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(w, "  %c) %s\n", 'A'+j, o)
		}

		fmt.Fprint(w, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(w, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Fprint(w, "(skipped)\n\n")
			continue
		}
		answers[i] = optionFor(q, answer)

		if scoring.CheckAnswer(answers[i], q.CorrectAnswer, q.AnswerType) {
			fmt.Fprintln(w, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(w, "\033[31m✗ Wrong.\033[0m Answer: %s\n", q.CorrectAnswer)
		}
		fmt.Fprintln(w)
	}

	res := scoring.Score(questions, answers, scoring.Meta{
		Type:       plan.Type,
		FocusTopic: plan.Topic,
		Year:       plan.Year,
		Started:    started,
		Finished:   time.Now(),
	})
	printResult(w, &res)
}

// optionFor maps a single letter to the matching option text.
func optionFor(q questiongen.Question, answer string) string {
	if q.AnswerType != questiongen.AnswerMultipleChoice || len(answer) != 1 {
		return answer
	}
	c := strings.ToUpper(answer)[0]
	if c >= 'A' && int(c-'A') < len(q.Options) {
		return q.Options[c-'A']
	}
	return answer
}
