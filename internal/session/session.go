package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/numeracy/internal/questiongen"
	"github.com/abhisek/numeracy/internal/scoring"
)

var (
	// ErrOutOfRange is returned when jumping to a question that does not exist.
	ErrOutOfRange = errors.New("question index out of range")

	// ErrSubmitted is returned when changing a sitting that was already submitted.
	ErrSubmitted = errors.New("test already submitted")
)

// CurrentQuestion returns the displayed question, or nil for an empty test.
func (s *State) CurrentQuestion() *questiongen.Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// Next moves to the following question. It reports false on the last one.
func (s *State) Next() bool {
	if s.Current >= len(s.Questions)-1 {
		return false
	}
	s.Current++
	return true
}

// Prev moves to the preceding question. It reports false on the first one.
func (s *State) Prev() bool {
	if s.Current <= 0 {
		return false
	}
	s.Current--
	return true
}

// Jump moves to the question at a 0-based index.
func (s *State) Jump(index int) error {
	if index < 0 || index >= len(s.Questions) {
		return fmt.Errorf("jump to %d of %d: %w", index, len(s.Questions), ErrOutOfRange)
	}
	s.Current = index
	return nil
}

// Answer records the answer to the current question. An empty answer
// clears it.
func (s *State) Answer(answer string) error {
	if s.Phase == PhaseSubmitted {
		return ErrSubmitted
	}
	if s.CurrentQuestion() == nil {
		return ErrOutOfRange
	}
	s.Answers[s.Current] = strings.TrimSpace(answer)
	return nil
}

// CurrentAnswer returns the recorded answer for the current question.
func (s *State) CurrentAnswer() string {
	if s.Current < 0 || s.Current >= len(s.Answers) {
		return ""
	}
	return s.Answers[s.Current]
}

// ToggleFlag flips the review flag on the current question and returns
// the new value.
func (s *State) ToggleFlag() bool {
	if s.Flagged[s.Current] {
		delete(s.Flagged, s.Current)
		return false
	}
	s.Flagged[s.Current] = true
	return true
}

// Deadline is when the time limit runs out. It is the zero time when the
// plan has no limit.
func (s *State) Deadline() time.Time {
	if s.Plan == nil || s.Plan.TimeLimit <= 0 {
		return time.Time{}
	}
	return s.StartTime.Add(s.Plan.TimeLimit)
}

// Remaining returns the time left at now, never negative.
func (s *State) Remaining(now time.Time) time.Duration {
	deadline := s.Deadline()
	if deadline.IsZero() {
		return 0
	}
	if left := deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Expired reports whether the time limit has run out at now.
func (s *State) Expired(now time.Time) bool {
	deadline := s.Deadline()
	return !deadline.IsZero() && !now.Before(deadline)
}

// CalculatorAvailable reports whether the current question allows a calculator.
func (s *State) CalculatorAvailable() bool {
	if s.Plan == nil {
		return false
	}
	return s.Plan.Config().CalculatorAllowed(s.Current)
}

// Unanswered returns the 0-based indexes of unanswered questions.
func (s *State) Unanswered() []int {
	var out []int
	for i, a := range s.Answers {
		if !scoring.IsAnswered(a) {
			out = append(out, i)
		}
	}
	return out
}

// RequestSubmit asks to end the sitting. When questions are still
// unanswered it moves to PhaseConfirmSubmit and reports false so the
// caller can ask for confirmation.
func (s *State) RequestSubmit() bool {
	if s.Phase == PhaseSubmitted {
		return false
	}
	if len(s.Unanswered()) > 0 {
		s.Phase = PhaseConfirmSubmit
		return false
	}
	return true
}

// CancelSubmit returns to answering after a declined confirmation.
func (s *State) CancelSubmit() {
	if s.Phase == PhaseConfirmSubmit {
		s.Phase = PhaseActive
	}
}

// Submit marks the sitting and returns the result. Time spent is capped at
// the time limit so a late auto-submit is not over-counted.
func (s *State) Submit(now time.Time) (scoring.TestResult, error) {
	if s.Phase == PhaseSubmitted {
		return scoring.TestResult{}, ErrSubmitted
	}
	finished := now
	if deadline := s.Deadline(); !deadline.IsZero() && finished.After(deadline) {
		finished = deadline
	}

	meta := scoring.Meta{Started: s.StartTime, Finished: finished}
	if s.Plan != nil {
		meta.Type = s.Plan.Type
		meta.FocusTopic = s.Plan.Topic
		meta.Year = s.Plan.Year
	}
	s.Phase = PhaseSubmitted
	return scoring.Score(s.Questions, s.Answers, meta), nil
}
