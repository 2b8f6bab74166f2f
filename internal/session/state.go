package session

import (
	"time"

	"github.com/abhisek/numeracy/internal/questiongen"
)

// Phase represents where the sitting is.
type Phase int

const (
	PhaseActive        Phase = iota // Answering questions
	PhaseConfirmSubmit              // Asked to confirm submission with unanswered questions
	PhaseSubmitted                  // Result computed; state is read-only
)

// State tracks one sitting of a test. It serialises to JSON so an
// unfinished test can be saved and resumed.
type State struct {
	StudentID string `json:"studentId"`

	// Plan is the test being sat.
	Plan *Plan `json:"plan"`

	// Questions are fixed once the sitting starts.
	Questions []questiongen.Question `json:"questions"`

	// Answers holds one entry per question; empty means unanswered.
	Answers []string `json:"answers"`

	// Flagged marks questions the student wants to revisit.
	Flagged map[int]bool `json:"flagged,omitempty"`

	// Current is the 0-based index of the displayed question.
	Current int `json:"currentQuestionIndex"`

	StartTime time.Time `json:"startTime"`

	Phase Phase `json:"phase"`
}

// Option configures a new State.
type Option func(*State)

// WithStartTime sets when the sitting began. Defaults to time.Now().
func WithStartTime(t time.Time) Option {
	return func(s *State) { s.StartTime = t }
}

// NewState opens a sitting over the given questions.
func NewState(studentID string, plan *Plan, questions []questiongen.Question, opts ...Option) *State {
	s := &State{
		StudentID: studentID,
		Plan:      plan,
		Questions: questions,
		Answers:   make([]string, len(questions)),
		Flagged:   make(map[int]bool),
		StartTime: time.Now(),
		Phase:     PhaseActive,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore repairs a State decoded from storage so that answers line up
// with questions and the cursor is in range.
func (s *State) Restore() {
	switch {
	case len(s.Answers) < len(s.Questions):
		s.Answers = append(s.Answers, make([]string, len(s.Questions)-len(s.Answers))...)
	case len(s.Answers) > len(s.Questions):
		s.Answers = s.Answers[:len(s.Questions)]
	}
	if s.Flagged == nil {
		s.Flagged = make(map[int]bool)
	}
	if s.Current < 0 || s.Current >= len(s.Questions) {
		s.Current = 0
	}
	if s.Phase == PhaseConfirmSubmit {
		s.Phase = PhaseActive
	}
}
