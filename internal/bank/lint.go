package bank

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/numeracy/internal/questiongen"
)

// Problem names a kind of defect found by Lint.
type Problem string

const (
	ProblemMarked        Problem = "validator-marker"
	ProblemZeroAnswer    Problem = "zero-answer"
	ProblemBrokenOptions Problem = "broken-options"
	ProblemLeftover      Problem = "unused-param"
)

// Finding is one defect observed while sampling a template.
type Finding struct {
	TemplateID string  `json:"templateId"`
	Year       int     `json:"year"`
	Problem    Problem `json:"problem"`
	Count      int     `json:"count"`
	Samples    int     `json:"samples"`
	Example    string  `json:"example"`
}

func (f Finding) String() string {
	return fmt.Sprintf("year %d %s: %s in %d/%d samples (%s)", f.Year, f.TemplateID, f.Problem, f.Count, f.Samples, f.Example)
}

// LintOptions controls Lint.
type LintOptions struct {
	// Samples is the number of questions generated per template.
	Samples int
	// Workers bounds concurrent templates. Zero means GOMAXPROCS.
	Workers int
	// Seed seeds the per-worker generators. Zero picks random seeds.
	Seed uint64

	Logger   *zap.Logger
	Recorder questiongen.Recorder
}

// DefaultLintOptions returns the defaults used by the CLI.
func DefaultLintOptions() LintOptions {
	return LintOptions{Samples: 200}
}

// Lint generates opts.Samples questions from every template and reports
// templates that produce marked questions, always answer "0", or yield
// an option set that is not four distinct entries holding the answer.
// Findings are sorted by year then template id.
func Lint(ctx context.Context, c *Catalog, opts LintOptions) ([]Finding, error) {
	if opts.Samples <= 0 {
		opts.Samples = DefaultLintOptions().Samples
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	type job struct {
		year int
		t    *questiongen.Template
	}
	var jobs []job
	for _, y := range c.Years() {
		ts, _ := c.Year(y)
		for _, t := range ts {
			jobs = append(jobs, job{year: y, t: t})
		}
	}

	var (
		mu       sync.Mutex
		findings []Finding
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		seed := opts.Seed
		if seed != 0 {
			seed += uint64(i)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gen := questiongen.New(questiongen.Config{
				Seed:     seed,
				Logger:   log,
				Recorder: opts.Recorder,
			})
			fs := lintTemplate(ctx, gen, j.year, j.t, opts.Samples)
			if len(fs) > 0 {
				mu.Lock()
				findings = append(findings, fs...)
				mu.Unlock()
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint catalog: %w", err)
	}

	slices.SortFunc(findings, func(a, b Finding) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		if n := strings.Compare(a.TemplateID, b.TemplateID); n != 0 {
			return n
		}
		return strings.Compare(string(a.Problem), string(b.Problem))
	})
	log.Info("catalog linted",
		zap.Int("templates", len(jobs)),
		zap.Int("samples", opts.Samples),
		zap.Int("findings", len(findings)))
	return findings, nil
}

func lintTemplate(ctx context.Context, gen *questiongen.Generator, year int, t *questiongen.Template, samples int) []Finding {
	counts := make(map[Problem]int)
	examples := make(map[Problem]string)
	note := func(p Problem, example string) {
		counts[p]++
		if _, ok := examples[p]; !ok {
			examples[p] = example
		}
	}

	marker := questiongen.ErrorMarker(t.ID)
	n := 0
	for ; n < samples; n++ {
		if n%50 == 0 && ctx.Err() != nil {
			break
		}
		q := gen.Generate(t)
		switch {
		case strings.HasPrefix(q.Text, marker):
			note(ProblemMarked, q.Text)
		case q.CorrectAnswer == "0":
			note(ProblemZeroAnswer, q.Text)
		}
		if q.AnswerType == questiongen.AnswerMultipleChoice && !optionsOK(q) {
			note(ProblemBrokenOptions, strings.Join(q.Options, " | "))
		}
	}

	var out []Finding
	for _, p := range []Problem{ProblemMarked, ProblemZeroAnswer, ProblemBrokenOptions} {
		c := counts[p]
		if c == 0 {
			continue
		}
		// A zero answer is legitimate sometimes; only flag templates
		// that never produce anything else.
		if p == ProblemZeroAnswer && c < n {
			continue
		}
		out = append(out, Finding{
			TemplateID: t.ID,
			Year:       year,
			Problem:    p,
			Count:      c,
			Samples:    n,
			Example:    examples[p],
		})
	}
	if name := unusedParam(t); name != "" {
		out = append(out, Finding{
			TemplateID: t.ID,
			Year:       year,
			Problem:    ProblemLeftover,
			Count:      1,
			Samples:    n,
			Example:    name,
		})
	}
	return out
}

func optionsOK(q questiongen.Question) bool {
	if len(q.Options) != questiongen.DistractorCount+1 {
		return false
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
		key := questiongen.OptionKey(o)
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return seen[questiongen.OptionKey(q.CorrectAnswer)]
}

// unusedParam returns the first parameter that no part of the template
// mentions as a whole word, or "" if all are used.
func unusedParam(t *questiongen.Template) string {
	parts := []string{t.Text, t.CorrectAnswer.Source}
	for _, d := range t.Distractors {
		parts = append(parts, d.Source)
	}
	for _, p := range t.Params {
		parts = append(parts, p.Constraint, p.Formula, p.From)
	}
	var b strings.Builder
	b.WriteString(strings.Join(parts, "\n"))
	if t.Visual != nil {
		fmt.Fprint(&b, t.Visual)
	}
	text := b.String()
	for _, p := range t.Params {
		if !containsWord(text, p.Name) {
			return p.Name
		}
	}
	return ""
}

func containsWord(text, word string) bool {
	if word == "" {
		return true
	}
	for i := 0; ; {
		j := strings.Index(text[i:], word)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(word)
		if (start == 0 || !isIdent(text[start-1])) && (end == len(text) || !isIdent(text[end])) {
			return true
		}
		i = end
	}
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
