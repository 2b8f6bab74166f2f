package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/scoring"
)

var start = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func testQuestions(n int) []questiongen.Question {
	qs := make([]questiongen.Question, n)
	for i := range qs {
		qs[i] = questiongen.Question{
			ID:            "q",
			TemplateID:    "add-1",
			Text:          "What is 2 + 2?",
			CorrectAnswer: "4",
			AnswerType:    questiongen.AnswerNumeric,
			Topic:         "Addition",
		}
	}
	return qs
}

func testState(t *testing.T, year, n int) *State {
	t.Helper()
	plan, err := FullPlan(year)
	if err != nil {
		t.Fatalf("FullPlan(%d): %v", year, err)
	}
	return NewState("STU-Y3-AB12", plan, testQuestions(n), WithStartTime(start))
}

func TestNavigation(t *testing.T) {
	s := testState(t, 3, 3)

	if s.Prev() {
		t.Error("Prev on first question should fail")
	}
	if !s.Next() || !s.Next() {
		t.Fatal("Next should advance twice")
	}
	if s.Next() {
		t.Error("Next on last question should fail")
	}
	if s.Current != 2 {
		t.Errorf("Current = %d, want 2", s.Current)
	}
	if err := s.Jump(0); err != nil || s.Current != 0 {
		t.Errorf("Jump(0) = %v, current %d", err, s.Current)
	}
	if err := s.Jump(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Jump(3) error = %v, want ErrOutOfRange", err)
	}
}

func TestAnswerAndFlag(t *testing.T) {
	s := testState(t, 3, 3)

	if err := s.Answer(" 4 "); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if s.CurrentAnswer() != "4" {
		t.Errorf("answer = %q, want 4", s.CurrentAnswer())
	}
	s.Next()
	if !s.ToggleFlag() {
		t.Error("first toggle should flag")
	}

	statuses := s.Statuses()
	want := []Status{StatusAnswered, StatusFlagged, StatusUnanswered}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %v, want %v", i, statuses[i], want[i])
		}
	}

	if s.ToggleFlag() {
		t.Error("second toggle should clear the flag")
	}
	if got := s.Unanswered(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Unanswered = %v, want [1 2]", got)
	}
}

func TestTimer(t *testing.T) {
	s := testState(t, 3, 1)

	if got := s.Remaining(start.Add(5 * time.Minute)); got != 40*time.Minute {
		t.Errorf("Remaining = %v, want 40m", got)
	}
	if s.Expired(start.Add(44 * time.Minute)) {
		t.Error("should not be expired before 45 minutes")
	}
	if !s.Expired(start.Add(45 * time.Minute)) {
		t.Error("should be expired at 45 minutes")
	}
	if got := s.Remaining(start.Add(2 * time.Hour)); got != 0 {
		t.Errorf("Remaining after deadline = %v, want 0", got)
	}
}

func TestCalculatorAvailable(t *testing.T) {
	s := testState(t, 7, 12)
	if s.CalculatorAvailable() {
		t.Error("no calculator on question 1")
	}
	_ = s.Jump(8)
	if !s.CalculatorAvailable() {
		t.Error("calculator from question 9 in year 7")
	}

	y5 := testState(t, 5, 12)
	_ = y5.Jump(10)
	if y5.CalculatorAvailable() {
		t.Error("year 5 never has a calculator")
	}
}

func TestSubmit(t *testing.T) {
	s := testState(t, 3, 4)
	_ = s.Answer("4")
	s.Next()
	_ = s.Answer("5")

	if s.RequestSubmit() {
		t.Fatal("RequestSubmit should ask for confirmation with unanswered questions")
	}
	if s.Phase != PhaseConfirmSubmit {
		t.Errorf("phase = %v, want confirm", s.Phase)
	}
	s.CancelSubmit()
	if s.Phase != PhaseActive {
		t.Errorf("phase = %v, want active", s.Phase)
	}

	res, err := s.Submit(start.Add(10 * time.Minute))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.QuestionsCorrect != 1 || res.QuestionsTotal != 4 || res.Percentage != 25 {
		t.Errorf("result = %d/%d (%v%%)", res.QuestionsCorrect, res.QuestionsTotal, res.Percentage)
	}
	if res.BandScore != 2 {
		t.Errorf("band = %d, want 2", res.BandScore)
	}
	if res.TimeSpent != 600 {
		t.Errorf("time spent = %d, want 600", res.TimeSpent)
	}
	if res.Type != scoring.TestFull {
		t.Errorf("type = %q", res.Type)
	}

	if _, err := s.Submit(start); !errors.Is(err, ErrSubmitted) {
		t.Errorf("second Submit error = %v, want ErrSubmitted", err)
	}
	if err := s.Answer("1"); !errors.Is(err, ErrSubmitted) {
		t.Errorf("Answer after submit error = %v, want ErrSubmitted", err)
	}
}

func TestSubmit_LateIsCapped(t *testing.T) {
	s := testState(t, 3, 1)
	res, err := s.Submit(start.Add(3 * time.Hour))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.TimeSpent != int((45 * time.Minute).Seconds()) {
		t.Errorf("time spent = %d, want the 45 minute limit", res.TimeSpent)
	}
}

func TestState_JSONRoundTripResumes(t *testing.T) {
	s := testState(t, 5, 3)
	_ = s.Answer("4")
	s.Next()
	s.ToggleFlag()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored State
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored.Restore()

	if restored.Current != 1 || !restored.Flagged[1] || restored.Answers[0] != "4" {
		t.Errorf("restored state = %+v", restored)
	}
	if restored.Plan.TimeLimit != 50*time.Minute || restored.Plan.Type != scoring.TestFull {
		t.Errorf("restored plan = %+v", restored.Plan)
	}
}

func TestRestore_RepairsShape(t *testing.T) {
	s := &State{Questions: testQuestions(3), Answers: []string{"1"}, Current: 9, Phase: PhaseConfirmSubmit}
	s.Restore()
	if len(s.Answers) != 3 || s.Current != 0 || s.Flagged == nil || s.Phase != PhaseActive {
		t.Errorf("restored = %+v", s)
	}
}

func TestBuildProgress(t *testing.T) {
	s := testState(t, 3, 5)
	_ = s.Answer("4")
	s.ToggleFlag()

	p := BuildProgress(s, start.Add(time.Minute))
	if p.Total != 5 || p.Answered != 1 || p.Unanswered != 4 || p.Flagged != 1 {
		t.Errorf("progress = %+v", p)
	}
	if p.Remaining != 44*time.Minute {
		t.Errorf("remaining = %v", p.Remaining)
	}
}
