package session

// Status is the navigation state of one question.
type Status int

const (
	StatusUnanswered Status = iota
	StatusAnswered
	StatusFlagged
)

// String returns the status label used in the question grid.
func (st Status) String() string {
	switch st {
	case StatusAnswered:
		return "answered"
	case StatusFlagged:
		return "flagged"
	default:
		return "unanswered"
	}
}

// Statuses returns the status of every question. A flag wins over an answer.
func (s *State) Statuses() []Status {
	out := make([]Status, len(s.Questions))
	for i := range s.Questions {
		switch {
		case s.Flagged[i]:
			out[i] = StatusFlagged
		case i < len(s.Answers) && s.Answers[i] != "":
			out[i] = StatusAnswered
		}
	}
	return out
}
