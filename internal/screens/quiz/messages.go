package quiz

import (
	"time"

	"github.com/deimos993/qprep/internal/quiz"
)

// startedMsg is sent when the controller has selected the quiz. Pending is
// non-nil when a saved attempt exists and the learner must choose between
// resuming and starting over.
type startedMsg struct {
	Pending *quiz.Snapshot
	Err     error
}

// timerTickMsg is sent every second to advance the countdown.
type timerTickMsg time.Time
