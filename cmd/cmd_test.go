package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/session"
	"github.com/abhisek/numeracy/internal/store"
)

func quizQuestions() []questiongen.Question {
	return []questiongen.Question{
		{TemplateID: "add", Text: "3 + 4 = ?", CorrectAnswer: "7", AnswerType: questiongen.AnswerNumeric, Topic: "Addition"},
		{TemplateID: "half", Text: "Which is one half?", CorrectAnswer: "1/2", AnswerType: questiongen.AnswerMultipleChoice,
			Options: []string{"1/3", "1/2", "1/4", "2/3"}, Topic: "Fractions"},
	}
}

func TestOptionFor(t *testing.T) {
	qs := quizQuestions()
	tests := []struct {
		q    questiongen.Question
		in   string
		want string
	}{
		{qs[1], "b", "1/2"},
		{qs[1], "A", "1/3"},
		{qs[1], "E", "E"},
		{qs[1], "1/4", "1/4"},
		{qs[0], "a", "a"},
	}
	for _, tt := range tests {
		if got := optionFor(tt.q, tt.in); got != tt.want {
			t.Errorf("optionFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunQuiz(t *testing.T) {
	plan, err := session.FullPlan(3)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	runQuiz(strings.NewReader("7\nB\n"), &out, plan, quizQuestions(), time.Now())

	got := out.String()
	for _, want := range []string{"Question 1/2", "C) 1/4", "2 / 2 correct (100.0%)", "Band 6 · Excellent", "Fractions"} {
		if !strings.Contains(got, want) {
			t.Errorf("quiz output missing %q:\n%s", want, got)
		}
	}
}

func TestRunQuiz_SkipAndClosedInput(t *testing.T) {
	plan, _ := session.FocusPlan(5, "Fractions")
	var out bytes.Buffer
	runQuiz(strings.NewReader("\n"), &out, plan, quizQuestions(), time.Now())

	got := out.String()
	if !strings.Contains(got, "(skipped)") || !strings.Contains(got, "(input closed)") {
		t.Errorf("expected skip and closed input notes:\n%s", got)
	}
	if !strings.Contains(got, "Focus: Fractions: 0 / 2 correct") {
		t.Errorf("expected a zero score for the focus test:\n%s", got)
	}
}

func TestPrintQuestions(t *testing.T) {
	var out bytes.Buffer
	printQuestions(&out, quizQuestions(), true)
	got := out.String()
	if !strings.Contains(got, "Answer: 1/2") || !strings.Contains(got, "B) 1/2") {
		t.Errorf("printQuestions output:\n%s", got)
	}

	out.Reset()
	printQuestions(&out, quizQuestions(), false)
	if strings.Contains(out.String(), "Answer:") {
		t.Error("answers shown without --answers")
	}
}

func TestStudentID(t *testing.T) {
	if got := studentID("  stu-y3-ab12 "); got != "STU-Y3-AB12" {
		t.Errorf("studentID = %q", got)
	}
}

func TestCheckAdmin(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "numeracy.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := checkAdmin(ctx, st, ""); err != nil {
		t.Errorf("no password set: got %v, want nil", err)
	}

	if err := st.SetAdminPassword(ctx, "owl"); err != nil {
		t.Fatal(err)
	}
	if err := checkAdmin(ctx, st, ""); !errors.Is(err, errNotAuthorized) {
		t.Errorf("empty password: got %v, want errNotAuthorized", err)
	}
	if err := checkAdmin(ctx, st, "hawk"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := checkAdmin(ctx, st, "owl"); err != nil {
		t.Errorf("correct password: %v", err)
	}
}
