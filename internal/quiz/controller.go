package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/grading"
)

// SnapshotStore persists attempt snapshots keyed by quiz identity. Load
// returns (nil, nil) when no live snapshot exists; expiry is the store's
// concern. Implementations may fail; the controller downgrades every store
// failure to "state not persisted" and keeps the attempt alive in memory.
type SnapshotStore interface {
	Save(ctx context.Context, quizID string, snap *Snapshot) error
	Load(ctx context.Context, quizID string) (*Snapshot, error)
	Clear(ctx context.Context, quizID string) error
}

// Config holds the per-attempt policy knobs.
type Config struct {
	// TimeLimitSeconds is the full countdown for a fresh attempt.
	TimeLimitSeconds int

	// SaveEverySeconds is the autosave cadence while the countdown runs.
	SaveEverySeconds int

	// PassMark is the absolute score required to pass.
	PassMark int
}

// DefaultConfig returns the standard exam policy: one hour, autosave every
// 30 seconds, pass at 26 correct.
func DefaultConfig() Config {
	return Config{
		TimeLimitSeconds: 3600,
		SaveEverySeconds: 30,
		PassMark:         grading.PassingScore,
	}
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRand injects the shuffle source, letting tests pin exact permutations.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithClock injects the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns one attempt at a time and all mutation of it. It is driven
// synchronously by UI events and a 1-second external tick; there is no
// concurrent access within one running instance.
type Controller struct {
	store  SnapshotStore
	engine *grading.Engine
	cfg    Config
	rng    *rand.Rand
	now    func() time.Time

	quiz    bank.Bank
	pending *Snapshot
	attempt *Attempt
	result  *grading.Result
}

// ErrNoAttempt is returned by operations that need a selected quiz or a
// running attempt when there is none.
var ErrNoAttempt = errors.New("no active attempt")

// NewController creates a controller in the not-started state.
func NewController(store SnapshotStore, cfg Config, opts ...Option) *Controller {
	if cfg.TimeLimitSeconds <= 0 {
		cfg.TimeLimitSeconds = DefaultConfig().TimeLimitSeconds
	}
	if cfg.SaveEverySeconds <= 0 {
		cfg.SaveEverySeconds = DefaultConfig().SaveEverySeconds
	}

	c := &Controller{
		store:  store,
		engine: grading.NewEngineWithPassMark(cfg.PassMark),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := uint64(c.now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	return c
}

// Start selects a quiz. When a live saved snapshot exists for it, the
// snapshot is surfaced and the controller stays not-started until the caller
// decides between Resume and Restart. Otherwise the attempt begins
// immediately with fresh random orders and a full countdown.
func (c *Controller) Start(ctx context.Context, b bank.Bank) (*Snapshot, error) {
	if c.attempt != nil && c.attempt.Status == StatusInProgress {
		return nil, errors.New("attempt already in progress")
	}

	c.quiz = b
	c.result = nil

	snap, err := c.store.Load(ctx, b.ID)
	if err == nil && snap != nil && len(snap.Questions) > 0 {
		c.pending = snap
		return snap, nil
	}

	c.begin()
	return nil, nil
}

// Resume adopts the snapshot surfaced by Start verbatim.
func (c *Controller) Resume() error {
	if c.pending == nil {
		return errors.New("nothing to resume")
	}
	c.attempt = attemptFromSnapshot(c.quiz.ID, c.pending)
	c.pending = nil
	return nil
}

// Restart discards any saved snapshot and begins a fresh attempt.
func (c *Controller) Restart(ctx context.Context) error {
	if c.quiz.ID == "" {
		return ErrNoAttempt
	}
	_ = c.store.Clear(ctx, c.quiz.ID)
	c.pending = nil
	c.begin()
	return nil
}

func (c *Controller) begin() {
	c.attempt = &Attempt{
		ID:               uuid.New().String(),
		QuizID:           c.quiz.ID,
		Questions:        PrepareAll(c.quiz.Questions, c.rng),
		Answers:          make(map[int][]string),
		RemainingSeconds: c.cfg.TimeLimitSeconds,
		Status:           StatusInProgress,
	}
}

// Answer records the selection for one question and immediately attempts a
// save. An empty selection removes the entry; the answer map never holds
// empty sets.
func (c *Controller) Answer(ctx context.Context, index int, keys []string) error {
	a := c.attempt
	if a == nil || a.Status != StatusInProgress {
		return ErrNoAttempt
	}

	normalized := normalizeSelection(keys)
	if len(normalized) == 0 {
		delete(a.Answers, index)
	} else {
		a.Answers[index] = normalized
	}

	c.save(ctx)
	return nil
}

// Navigate moves the current index by delta, clamped to the attempt's range.
// A move past either boundary is a no-op, never an error.
func (c *Controller) Navigate(delta int) {
	a := c.attempt
	if a == nil || a.Status != StatusInProgress {
		return
	}
	a.CurrentIndex = clampIndex(a.CurrentIndex+delta, len(a.Questions))
}

// Tick advances the countdown by one second. Every SaveEverySeconds it
// triggers an autosave; when the countdown reaches zero it forces a submit.
// Returns true when this tick submitted the attempt.
func (c *Controller) Tick(ctx context.Context) bool {
	a := c.attempt
	if a == nil || a.Status != StatusInProgress {
		return false
	}

	a.RemainingSeconds--
	if a.RemainingSeconds <= 0 {
		a.RemainingSeconds = 0
		c.Submit(ctx)
		return true
	}

	if a.RemainingSeconds%c.cfg.SaveEverySeconds == 0 {
		c.save(ctx)
	}
	return false
}

// Submit ends the attempt: the saved snapshot is cleared, the attempt is
// graded, and the controller enters the terminal submitted state. Calling
// Submit again returns the same result.
func (c *Controller) Submit(ctx context.Context) *grading.Result {
	a := c.attempt
	if a == nil {
		return nil
	}
	if a.Status == StatusSubmitted {
		return c.result
	}

	a.Status = StatusSubmitted
	_ = c.store.Clear(ctx, a.QuizID)

	res := c.engine.Grade(gradingView(a.Questions), a.Answers)
	c.result = &res
	return c.result
}

// Reset discards all in-memory attempt state and returns to not-started.
// Persisted snapshots are left untouched.
func (c *Controller) Reset() {
	c.quiz = bank.Bank{}
	c.pending = nil
	c.attempt = nil
	c.result = nil
}

// save persists a snapshot of the live attempt. Failures are swallowed: a
// failed save means "not persisted", not an attempt-ending error.
func (c *Controller) save(ctx context.Context) {
	a := c.attempt
	if a == nil || a.Status != StatusInProgress {
		return
	}
	_ = c.store.Save(ctx, a.QuizID, a.snapshot(c.now()))
}

// Status reports the attempt lifecycle state.
func (c *Controller) Status() Status {
	if c.attempt == nil {
		return StatusNotStarted
	}
	return c.attempt.Status
}

// Attempt returns the live attempt, or nil before Start.
func (c *Controller) Attempt() *Attempt {
	return c.attempt
}

// Result returns the grading result after Submit, nil before.
func (c *Controller) Result() *grading.Result {
	return c.result
}

// Quiz returns the bank selected by Start.
func (c *Controller) Quiz() bank.Bank {
	return c.quiz
}

// Current returns the question under the cursor with its position, for
// rendering. ok is false when no attempt is running.
func (c *Controller) Current() (q PreparedQuestion, index, total int, ok bool) {
	a := c.attempt
	if a == nil || len(a.Questions) == 0 {
		return PreparedQuestion{}, 0, 0, false
	}
	return a.Questions[a.CurrentIndex], a.CurrentIndex, len(a.Questions), true
}

// AnswerFor returns the recorded selection for a question index, nil when
// unanswered.
func (c *Controller) AnswerFor(index int) []string {
	if c.attempt == nil {
		return nil
	}
	return c.attempt.Answers[index]
}

// AnsweredCount returns how many questions have a recorded selection.
func (c *Controller) AnsweredCount() int {
	if c.attempt == nil {
		return 0
	}
	return len(c.attempt.Answers)
}

// gradingView projects prepared questions into the engine's input shape.
func gradingView(questions []PreparedQuestion) []grading.Q {
	out := make([]grading.Q, len(questions))
	for i, q := range questions {
		out[i] = grading.Q{
			Text:         q.Text,
			Options:      q.Options,
			CorrectKeys:  q.CorrectKeys,
			Explanations: q.Explanations,
			Objective:    q.Objective,
		}
	}
	return out
}

// normalizeSelection canonicalizes a selection: trimmed, upper-cased,
// deduplicated, sorted. Blank selections normalize to nil.
func normalizeSelection(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
