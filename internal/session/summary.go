package session

import "time"

// Progress holds the counts shown in the test header and submit dialog.
type Progress struct {
	Total      int
	Answered   int
	Unanswered int
	Flagged    int
	Remaining  time.Duration
}

// BuildProgress summarises the sitting at now.
func BuildProgress(s *State, now time.Time) Progress {
	p := Progress{
		Total:     len(s.Questions),
		Flagged:   len(s.Flagged),
		Remaining: s.Remaining(now),
	}
	p.Unanswered = len(s.Unanswered())
	p.Answered = p.Total - p.Unanswered
	return p
}
