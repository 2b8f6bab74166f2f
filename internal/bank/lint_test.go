package bank

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/numeracy/internal/questiongen"
)

func TestLint_DefaultCatalogIsClean(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	samples := 300
	if testing.Short() {
		samples = 30
	}
	findings, err := Lint(context.Background(), c, LintOptions{Samples: samples, Workers: 4, Seed: 11})
	require.NoError(t, err)
	for _, f := range findings {
		t.Errorf("unexpected finding: %s", f)
	}
}

func TestLint_ReportsBrokenTemplates(t *testing.T) {
	doc := `{"version": "1.0.0", "year3": [
		{"id": "typo", "topic": "T", "template": "What is {A} + {BB}?", "correctAnswer": "{A} + 1",
		 "params": {"A": {"type": "integer", "min": 1, "max": 5}}},
		{"id": "always-zero", "topic": "T", "template": "What is {A} - {A}?", "correctAnswer": "{A} - {A}",
		 "params": {"A": {"type": "integer"}}},
		{"id": "unused", "topic": "T", "template": "What is {A}?", "correctAnswer": "{A}",
		 "params": {"A": {"type": "integer"}, "SPARE": {"type": "integer"}}},
		{"id": "fine", "topic": "T", "template": "What is {A} + 1?", "correctAnswer": "{A} + 1",
		 "answerType": "multipleChoice", "params": {"A": {"type": "integer"}}}
	]}`
	c, err := Load(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)

	findings, err := Lint(context.Background(), c, LintOptions{Samples: 20, Seed: 3})
	require.NoError(t, err)

	got := map[string]Problem{}
	for _, f := range findings {
		got[f.TemplateID] = f.Problem
		assert.Equal(t, 3, f.Year)
	}
	assert.Equal(t, ProblemMarked, got["typo"])
	assert.Equal(t, ProblemZeroAnswer, got["always-zero"])
	assert.Equal(t, ProblemLeftover, got["unused"])
	assert.NotContains(t, got, "fine")
}

func TestLint_Cancelled(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Lint(ctx, c, LintOptions{Samples: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsOK(t *testing.T) {
	mc := func(correct string, opts ...string) questiongen.Question {
		return questiongen.Question{CorrectAnswer: correct, AnswerType: questiongen.AnswerMultipleChoice, Options: opts}
	}
	tests := []struct {
		name string
		q    questiongen.Question
		want bool
	}{
		{"distinct", mc("1/2", "1/2", "1/3", "1/4", "2/3"), true},
		{"equivalent fraction and decimal", mc("1/2", "1/2", "0.5", "1/4", "2/3"), false},
		{"case only", mc("Square", "Square", "square", "Circle", "Kite"), false},
		{"correct written differently", mc("0.5", "1/2", "1/3", "1/4", "2/3"), true},
		{"missing correct", mc("3/4", "1/2", "1/3", "1/4", "2/3"), false},
		{"blank option", mc("1/2", "1/2", " ", "1/4", "2/3"), false},
		{"too few", mc("1/2", "1/2", "1/3", "1/4"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, optionsOK(tt.q), tt.name)
	}
}
