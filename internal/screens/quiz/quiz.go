package quiz

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/config"
	"github.com/deimos993/qprep/internal/quiz"
	"github.com/deimos993/qprep/internal/router"
	"github.com/deimos993/qprep/internal/screen"
	"github.com/deimos993/qprep/internal/screens/results"
	"github.com/deimos993/qprep/internal/store"
	"github.com/deimos993/qprep/internal/ui/components"
	"github.com/deimos993/qprep/internal/ui/layout"
)

// QuizScreen runs one timed attempt against a question bank.
type QuizScreen struct {
	ctrl *quiz.Controller
	st   *store.Store
	cfg  config.Config
	bank bank.Bank

	options     components.OptionList
	optionIndex int

	jumping   bool
	jumpInput components.TextInput

	pending     *quiz.Snapshot
	confirming  bool
	quitConfirm bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscInterceptor = (*QuizScreen)(nil)

// New creates a quiz screen for the given bank.
func New(b bank.Bank, st *store.Store, cfg config.Config) *QuizScreen {
	qcfg := quiz.Config{
		TimeLimitSeconds: cfg.TimeLimitSeconds,
		SaveEverySeconds: cfg.AutosaveSeconds,
		PassMark:         cfg.PassMark,
	}
	return &QuizScreen{
		ctrl:        quiz.NewController(st.Snapshots(), qcfg),
		st:          st,
		cfg:         cfg,
		bank:        b,
		optionIndex: -1,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.start()
}

func (s *QuizScreen) Title() string {
	return s.bank.Name
}

// Status renders the countdown in the header while the attempt runs.
func (s *QuizScreen) Status() string {
	if s.ctrl.Status() != quiz.StatusInProgress {
		return ""
	}
	a := s.ctrl.Attempt()
	if a == nil {
		return ""
	}
	return "⏱ " + formatClock(a.RemainingSeconds)
}

// InterceptEsc keeps esc inside the screen while an attempt is live, so
// leaving always goes through the confirmation.
func (s *QuizScreen) InterceptEsc() bool {
	return s.ctrl.Status() == quiz.StatusInProgress || s.confirming || s.quitConfirm
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.pending != nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Resume saved attempt"},
			{Key: "N", Description: "Start over"},
		}
	case s.confirming:
		return []layout.KeyHint{
			{Key: "Y", Description: "Submit"},
			{Key: "N", Description: "Keep answering"},
		}
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave"},
			{Key: "N", Description: "Stay"},
		}
	}
	if s.jumping {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Question"},
		{Key: "↑↓", Description: "Option"},
		{Key: "Space", Description: "Select"},
		{Key: "G", Description: "Go to"},
		{Key: "S", Description: "Submit"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case timerTickMsg:
		return s.handleTick()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// start selects the quiz off the Update loop; loading a saved snapshot
// touches the database.
func (s *QuizScreen) start() tea.Cmd {
	return func() tea.Msg {
		snap, err := s.ctrl.Start(context.Background(), s.bank)
		return startedMsg{Pending: snap, Err: err}
	}
}

func (s *QuizScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if msg.Pending != nil {
		s.pending = msg.Pending
		return s, nil
	}
	s.syncOptions()
	return s, tickCmd()
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.ctrl.Status() != quiz.StatusInProgress {
		return s, nil
	}
	if forced := s.ctrl.Tick(context.Background()); forced {
		return s, s.finish()
	}
	return s, tickCmd()
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	// Resume-or-restart decision for a saved attempt.
	if s.pending != nil {
		switch key {
		case "r", "R", "enter":
			if err := s.ctrl.Resume(); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			s.pending = nil
			s.syncOptions()
			return s, tickCmd()
		case "n", "N":
			if err := s.ctrl.Restart(context.Background()); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			s.pending = nil
			s.syncOptions()
			return s, tickCmd()
		}
		return s, nil
	}

	if s.confirming {
		switch key {
		case "y", "Y", "enter":
			s.confirming = false
			s.ctrl.Submit(context.Background())
			return s, s.finish()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if s.ctrl.Status() != quiz.StatusInProgress {
		return s, nil
	}

	// Jump-to-question input.
	if s.jumping {
		switch key {
		case "enter":
			s.jumping = false
			if n, err := s.jumpInput.NumericValue(); err == nil {
				_, index, _, ok := s.ctrl.Current()
				if ok {
					s.ctrl.Navigate(n - 1 - index)
					s.syncOptions()
				}
			}
			return s, nil
		case "esc":
			s.jumping = false
			return s, nil
		}
		var cmd tea.Cmd
		s.jumpInput, cmd = s.jumpInput.Update(msg)
		return s, cmd
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "g", "G":
		s.jumping = true
		s.jumpInput = components.NewTextInput("question #", true, 3)
		return s, s.jumpInput.Init()
	case "s", "S":
		s.confirming = true
		return s, nil
	case "left", "h":
		s.ctrl.Navigate(-1)
		s.syncOptions()
		return s, nil
	case "right", "l", "enter":
		s.ctrl.Navigate(1)
		s.syncOptions()
		return s, nil
	}

	// Cursor movement and selection go to the option list; any change in
	// the chosen set is recorded immediately.
	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	if key == "space" || key == " " {
		_, index, _, ok := s.ctrl.Current()
		if ok {
			_ = s.ctrl.Answer(context.Background(), index, s.options.Chosen())
		}
	}
	return s, cmd
}

// syncOptions rebuilds the option list for the current question, restoring
// any previously recorded selection.
func (s *QuizScreen) syncOptions() {
	q, index, _, ok := s.ctrl.Current()
	if !ok {
		return
	}
	if index == s.optionIndex {
		return
	}
	items := make([]components.OptionItem, 0, len(q.Options))
	for _, opt := range q.Options {
		items = append(items, components.OptionItem{Key: opt.Key, Text: opt.Text})
	}
	s.options = components.NewOptionList(items, q.IsMultiAnswer())
	s.options.SetChosen(s.ctrl.AnswerFor(index))
	s.optionIndex = index
}

// finish records the graded attempt and swaps in the results screen. The
// history write is best-effort; the result is shown regardless.
func (s *QuizScreen) finish() tea.Cmd {
	res := s.ctrl.Result()
	if res == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	a := s.ctrl.Attempt()
	rec := store.ResultRecord{
		QuizID:         s.bank.ID,
		Score:          res.Score,
		Total:          res.Total,
		Passed:         res.Passed,
		ObjectiveStats: res.ObjectiveStats,
		TakenAt:        time.Now(),
	}
	if a != nil {
		rec.AttemptID = a.ID
		rec.DurationSecs = s.cfg.TimeLimitSeconds - a.RemainingSeconds
	}
	_ = s.st.Results().Append(context.Background(), rec)

	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(s.bank.Name, res)}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
