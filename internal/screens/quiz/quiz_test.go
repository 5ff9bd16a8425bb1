package quiz

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/config"
	"github.com/deimos993/qprep/internal/quiz"
	"github.com/deimos993/qprep/internal/screen"
	"github.com/deimos993/qprep/internal/store"
)

func testBank() bank.Bank {
	return bank.Bank{
		ID:   "sample",
		Name: "Sample",
		Questions: []bank.Question{
			{
				Text: "Pick A",
				Options: []bank.Option{
					{Key: "A", Text: "first"},
					{Key: "B", Text: "second"},
				},
				CorrectKeys: []string{"A"},
			},
			{
				Text: "Pick B",
				Options: []bank.Option{
					{Key: "A", Text: "first"},
					{Key: "B", Text: "second"},
				},
				CorrectKeys: []string{"B"},
			},
		},
	}
}

func newTestScreen(t *testing.T) (*QuizScreen, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "qprep.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Config{
		TimeLimitSeconds: 120,
		PassMark:         1,
		AutosaveSeconds:  30,
	}
	return New(testBank(), st, cfg), st
}

// drive runs the screen's start command and feeds the result back in.
func drive(t *testing.T, s *QuizScreen) screen.Screen {
	t.Helper()
	msg := s.start()()
	started, ok := msg.(startedMsg)
	if !ok {
		t.Fatalf("expected startedMsg, got %T", msg)
	}
	scr, _ := s.Update(started)
	return scr
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestFreshStartBeginsImmediately(t *testing.T) {
	s, _ := newTestScreen(t)
	drive(t, s)

	if s.pending != nil {
		t.Fatal("expected no resume prompt for a fresh start")
	}
	if got := s.ctrl.Status(); got != quiz.StatusInProgress {
		t.Errorf("expected in-progress status, got %v", got)
	}
	if s.Status() == "" {
		t.Error("expected a countdown in the header status")
	}
}

func TestSpaceRecordsAnswer(t *testing.T) {
	s, _ := newTestScreen(t)
	drive(t, s)

	s.Update(keyPress(' '))

	if got := s.ctrl.AnsweredCount(); got != 1 {
		t.Errorf("expected 1 answered question, got %d", got)
	}
}

func TestSavedAttemptPromptsForResume(t *testing.T) {
	s1, st := newTestScreen(t)
	drive(t, s1)
	s1.Update(keyPress(' ')) // answer triggers a save

	cfg := config.Config{TimeLimitSeconds: 120, PassMark: 1, AutosaveSeconds: 30}
	s2 := New(testBank(), st, cfg)
	msg := s2.start()()
	started := msg.(startedMsg)
	s2.Update(started)

	if s2.pending == nil {
		t.Fatal("expected a resume prompt for the saved attempt")
	}
	if got := s2.ctrl.Status(); got != quiz.StatusNotStarted {
		t.Errorf("expected not-started while deciding, got %v", got)
	}

	s2.Update(keyPress('r'))
	if got := s2.ctrl.Status(); got != quiz.StatusInProgress {
		t.Errorf("expected in-progress after resume, got %v", got)
	}
	if got := s2.ctrl.AnsweredCount(); got != 1 {
		t.Errorf("expected the saved answer to survive resume, got %d answered", got)
	}
}

func TestSubmitConfirmFlow(t *testing.T) {
	s, st := newTestScreen(t)
	drive(t, s)
	s.Update(keyPress(' '))

	s.Update(keyPress('s'))
	if !s.confirming {
		t.Fatal("expected submit confirmation")
	}

	s.Update(keyPress('n'))
	if s.confirming {
		t.Fatal("expected confirmation dismissed")
	}
	if got := s.ctrl.Status(); got != quiz.StatusInProgress {
		t.Errorf("expected attempt still running, got %v", got)
	}

	s.Update(keyPress('s'))
	_, cmd := s.Update(keyPress('y'))
	if got := s.ctrl.Status(); got != quiz.StatusSubmitted {
		t.Errorf("expected submitted, got %v", got)
	}
	if cmd == nil {
		t.Fatal("expected a navigation command after submit")
	}

	// The graded attempt lands in the history table.
	summaries, err := st.Results().Summaries(context.Background())
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Attempts != 1 {
		t.Errorf("expected one recorded attempt, got %+v", summaries)
	}
}

func TestEscShowsLeaveConfirmation(t *testing.T) {
	s, _ := newTestScreen(t)
	drive(t, s)

	if !s.InterceptEsc() {
		t.Fatal("expected esc to stay inside a live attempt")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.quitConfirm {
		t.Fatal("expected leave confirmation")
	}

	s.Update(keyPress('n'))
	if s.quitConfirm {
		t.Fatal("expected confirmation dismissed")
	}
}

func TestJumpToQuestion(t *testing.T) {
	s, _ := newTestScreen(t)
	drive(t, s)

	s.Update(keyPress('g'))
	if !s.jumping {
		t.Fatal("expected jump input")
	}

	s.Update(keyPress('2'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	_, index, _, ok := s.ctrl.Current()
	if !ok || index != 1 {
		t.Errorf("expected to land on question 2, got index %d", index)
	}

	// Out-of-range targets clamp to the last question.
	s.Update(keyPress('g'))
	s.Update(keyPress('9'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	_, index, total, _ := s.ctrl.Current()
	if index != total-1 {
		t.Errorf("expected clamp to last question, got index %d of %d", index, total)
	}
}

func TestTimerExhaustionSubmits(t *testing.T) {
	s, _ := newTestScreen(t)
	drive(t, s)

	var cmd tea.Cmd
	for i := 0; i < 120; i++ {
		_, cmd = s.Update(timerTickMsg{})
	}

	if got := s.ctrl.Status(); got != quiz.StatusSubmitted {
		t.Errorf("expected forced submit at zero, got %v", got)
	}
	if cmd == nil {
		t.Fatal("expected a navigation command after forced submit")
	}
}
