package quiz

import "time"

// Status is the lifecycle state of an attempt.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusInProgress:
		return "in-progress"
	case StatusSubmitted:
		return "submitted"
	}
	return "unknown"
}

// Attempt is one run through a quiz bank. It is owned by exactly one
// Controller for its lifetime; the store only ever sees serialized snapshots.
type Attempt struct {
	ID               string
	QuizID           string
	Questions        []PreparedQuestion
	CurrentIndex     int
	Answers          map[int][]string
	RemainingSeconds int
	Status           Status
}

// Snapshot is the serialized form of an in-progress attempt, as persisted by
// the session store. SavedAt drives the expiry policy on load.
type Snapshot struct {
	AttemptID        string             `json:"attemptId"`
	Questions        []PreparedQuestion `json:"questions"`
	CurrentIndex     int                `json:"currentIndex"`
	Answers          map[int][]string   `json:"answers,omitempty"`
	RemainingSeconds int                `json:"remainingSeconds"`
	SavedAt          time.Time          `json:"savedAt"`
}

// snapshot captures the attempt's mutable state. The answer map is copied so
// the store never aliases live state.
func (a *Attempt) snapshot(now time.Time) *Snapshot {
	answers := make(map[int][]string, len(a.Answers))
	for i, keys := range a.Answers {
		answers[i] = append([]string(nil), keys...)
	}
	return &Snapshot{
		AttemptID:        a.ID,
		Questions:        a.Questions,
		CurrentIndex:     a.CurrentIndex,
		Answers:          answers,
		RemainingSeconds: a.RemainingSeconds,
		SavedAt:          now,
	}
}

// attemptFromSnapshot restores an attempt verbatim: same question order, same
// answers, same remaining time.
func attemptFromSnapshot(quizID string, snap *Snapshot) *Attempt {
	answers := make(map[int][]string, len(snap.Answers))
	for i, keys := range snap.Answers {
		if len(keys) == 0 {
			continue
		}
		answers[i] = append([]string(nil), keys...)
	}
	return &Attempt{
		ID:               snap.AttemptID,
		QuizID:           quizID,
		Questions:        snap.Questions,
		CurrentIndex:     clampIndex(snap.CurrentIndex, len(snap.Questions)),
		Answers:          answers,
		RemainingSeconds: snap.RemainingSeconds,
		Status:           StatusInProgress,
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n && n > 0 {
		return n - 1
	}
	return i
}
