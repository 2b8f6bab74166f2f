package session

import (
	"time"

	sess "github.com/abhisek/numeracy/internal/session"
)

// testReadyMsg is sent when the questions of a new sitting are generated.
type testReadyMsg struct {
	State *sess.State
	Err   error
}

// timerTickMsg is sent every second to update the countdown.
type timerTickMsg time.Time
