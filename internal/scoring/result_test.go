package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/numeracy/internal/questiongen"
)

func TestBandScore(t *testing.T) {
	tests := []struct {
		pct  float64
		year int
		want int
	}{
		{0, 3, 1},
		{19.9, 3, 1},
		{20, 3, 2},
		{49.9, 3, 3},
		{79.9, 3, 5},
		{80, 3, 6},
		{100, 3, 6},
		{0, 5, 3},
		{65, 5, 7},
		{100, 5, 8},
		{34.9, 7, 5},
		{35, 7, 6},
		{100, 7, 9},
	}
	for _, tt := range tests {
		got, ok := BandScore(tt.pct, tt.year)
		if !ok || got != tt.want {
			t.Errorf("BandScore(%.1f, %d) = %d, %v; want %d", tt.pct, tt.year, got, ok, tt.want)
		}
	}
}

func TestBandScore_Unknown(t *testing.T) {
	if _, ok := BandScore(50, 4); ok {
		t.Error("year 4 has no bands")
	}
	if _, ok := BandScore(101, 3); ok {
		t.Error("percentages above 100 have no band")
	}
	if _, ok := BandScore(-1, 3); ok {
		t.Error("negative percentages have no band")
	}
}

func TestPerformanceLabel(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79.9, "Good"},
		{60, "Good"},
		{40, "Fair"},
		{39.9, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := PerformanceLabel(tt.pct); got != tt.want {
			t.Errorf("PerformanceLabel(%.1f) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestConfigFor(t *testing.T) {
	cfg, err := ConfigFor(7)
	if err != nil {
		t.Fatalf("ConfigFor(7): %v", err)
	}
	if cfg.QuestionCount != 48 || cfg.TimeLimit != time.Hour {
		t.Errorf("year 7 config = %+v", cfg)
	}
	if cfg.CalculatorAllowed(7) || !cfg.CalculatorAllowed(8) {
		t.Error("year 7 calculator should start at question 9")
	}

	cfg3, _ := ConfigFor(3)
	if cfg3.QuestionCount != 35 || cfg3.TimeLimit != 45*time.Minute || cfg3.CalculatorAllowed(30) {
		t.Errorf("year 3 config = %+v", cfg3)
	}

	if _, err := ConfigFor(6); !errors.Is(err, ErrUnknownYear) {
		t.Errorf("ConfigFor(6) error = %v, want ErrUnknownYear", err)
	}

	focus := FocusConfig(5)
	if focus.QuestionCount != 10 || focus.TimeLimit != 15*time.Minute || focus.CalculatorAllowed(9) {
		t.Errorf("focus config = %+v", focus)
	}
}

func TestScore(t *testing.T) {
	questions := []questiongen.Question{
		{TemplateID: "a", Text: "1 + 1?", CorrectAnswer: "2", AnswerType: questiongen.AnswerNumeric, Topic: "Addition"},
		{TemplateID: "b", Text: "2 + 2?", CorrectAnswer: "4", AnswerType: questiongen.AnswerNumeric, Topic: "Addition"},
		{TemplateID: "c", Text: "Half?", CorrectAnswer: "1/2", AnswerType: questiongen.AnswerMultipleChoice, Options: []string{"1/2", "1/3", "1/4", "2/3"}, Topic: "Fractions"},
	}
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	meta := Meta{Type: TestFull, Year: 3, Started: start, Finished: start.Add(95 * time.Second)}

	res := Score(questions, []string{"2", "5"}, meta)

	if res.TestID == "" {
		t.Error("missing test id")
	}
	if res.QuestionsTotal != 3 || res.QuestionsCorrect != 1 {
		t.Errorf("score = %d/%d, want 1/3", res.QuestionsCorrect, res.QuestionsTotal)
	}
	if res.Percentage != 33.3 {
		t.Errorf("percentage = %v, want 33.3", res.Percentage)
	}
	if res.BandScore != 2 {
		t.Errorf("band = %d, want 2", res.BandScore)
	}
	if res.TimeSpent != 95 {
		t.Errorf("time spent = %d, want 95", res.TimeSpent)
	}
	if got := res.TopicBreakdown["Addition"]; got != (TopicScore{Correct: 1, Total: 2}) {
		t.Errorf("addition breakdown = %+v", got)
	}
	if got := res.TopicBreakdown["Fractions"]; got != (TopicScore{Correct: 0, Total: 1}) {
		t.Errorf("fractions breakdown = %+v", got)
	}
	if res.Questions[2].StudentAnswer != "" || res.Questions[2].IsCorrect {
		t.Errorf("unanswered question = %+v", res.Questions[2])
	}
	if res.FocusTopic != "" {
		t.Errorf("full test has focus topic %q", res.FocusTopic)
	}
	if topics := res.Topics(); len(topics) != 2 || topics[0] != "Addition" {
		t.Errorf("topics = %v", topics)
	}
	if res.Label() != "Needs Improvement" {
		t.Errorf("label = %q", res.Label())
	}
}

func TestScore_FocusAndEmpty(t *testing.T) {
	res := Score(nil, nil, Meta{Type: TestFocus, FocusTopic: "Time", Year: 5})
	if res.FocusTopic != "Time" || res.Type != TestFocus {
		t.Errorf("focus meta lost: %+v", res)
	}
	if res.Percentage != 0 || res.BandScore != 0 || res.TimeSpent != 0 {
		t.Errorf("empty test scored %+v", res)
	}
}

func TestWeakTopics(t *testing.T) {
	results := []TestResult{
		{TopicBreakdown: map[string]TopicScore{
			"Time":     {Correct: 1, Total: 4},
			"Addition": {Correct: 4, Total: 4},
			"Money":    {Correct: 2, Total: 3},
		}},
		{TopicBreakdown: map[string]TopicScore{
			"Time":  {Correct: 2, Total: 4},
			"Money": {Correct: 1, Total: 1},
			"Empty": {},
		}},
	}

	all := MergeTopics(results)
	if len(all) != 3 {
		t.Fatalf("MergeTopics = %+v, want 3 topics", all)
	}
	if all[0].Topic != "Time" || all[0].Correct != 3 || all[0].Total != 8 {
		t.Errorf("weakest = %+v, want Time 3/8", all[0])
	}

	weak := WeakTopics(results)
	if len(weak) != 1 || weak[0].Topic != "Time" {
		t.Errorf("WeakTopics = %+v, want only Time", weak)
	}
}
