package session

import (
	"errors"
	"testing"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/scoring"
)

type fakeSource map[int][]*questiongen.Template

func (f fakeSource) Year(year int) ([]*questiongen.Template, error) {
	ts, ok := f[year]
	if !ok {
		return nil, scoring.ErrUnknownYear
	}
	return ts, nil
}

func addition(id, topic string) *questiongen.Template {
	return &questiongen.Template{
		ID:            id,
		Topic:         topic,
		Params:        questiongen.ParamSpecs{{Name: "A", Type: questiongen.ParamInteger}},
		Text:          "What is {A} + 1?",
		CorrectAnswer: questiongen.Expr("{A} + 1"),
		AnswerType:    questiongen.AnswerNumeric,
	}
}

func TestPlanner_Full(t *testing.T) {
	src := fakeSource{3: {addition("a", "Addition"), addition("b", "Time")}}
	p := NewPlanner(src, questiongen.New(questiongen.Config{Seed: 1}))

	plan, err := FullPlan(3)
	if err != nil {
		t.Fatal(err)
	}
	s, err := p.Start("STU-Y3-0001", plan)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(s.Questions) != 35 || len(s.Answers) != 35 {
		t.Errorf("questions = %d, answers = %d, want 35", len(s.Questions), len(s.Answers))
	}
}

func TestPlanner_Focus(t *testing.T) {
	src := fakeSource{5: {addition("a", "Addition"), addition("b", "Time")}}
	p := NewPlanner(src, questiongen.New(questiongen.Config{Seed: 2}))

	plan, _ := FocusPlan(5, "time")
	qs, err := p.Questions(plan)
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(qs) != scoring.FocusQuestionCount {
		t.Fatalf("got %d questions", len(qs))
	}
	for _, q := range qs {
		if q.Topic != "Time" {
			t.Errorf("focus question from %q", q.Topic)
		}
	}

	plan, _ = FocusPlan(5, "geometry")
	if _, err := p.Questions(plan); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("error = %v, want ErrNoQuestions", err)
	}
}

func TestPlans_UnknownYear(t *testing.T) {
	if _, err := FullPlan(4); !errors.Is(err, scoring.ErrUnknownYear) {
		t.Errorf("FullPlan(4) error = %v", err)
	}
	if _, err := FocusPlan(6, "Time"); !errors.Is(err, scoring.ErrUnknownYear) {
		t.Errorf("FocusPlan(6) error = %v", err)
	}
}
