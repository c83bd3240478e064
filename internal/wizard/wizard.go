package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/blaine-t/splits/internal/split"
)

// Options tunes a Wizard. The zero value selects sane defaults.
type Options struct {
	// Rules validates the username before it is stored. Defaults to
	// split.DefaultRules.
	Rules *split.Rules
	// TickInterval is the clock refresh period (default ~16ms).
	TickInterval time.Duration
	// ActivateDelay is the screen transition delay before a screen counts
	// as active.
	ActivateDelay time.Duration
	// SubmitTimeout bounds one submission attempt.
	SubmitTimeout time.Duration
	Logger        *zap.Logger
}

// Wizard sequences the screens, runs the stopwatch, and collects the answer
// set into a Session. On the final answer it assembles a record and hands it
// to the Submitter; the outcome lands on the Display.
//
// One submission is in flight at most. A response that arrives after Reset
// carries a stale generation and is dropped, so it cannot corrupt the fresh
// session.
type Wizard struct {
	mu  sync.Mutex
	gen atomic.Int64

	session    *Session
	submitting bool

	seq   *Sequencer
	timer *Timer

	display   Display
	cache     Cache
	submitter Submitter

	rules         split.Rules
	submitTimeout time.Duration
	logger        *zap.Logger
}

// New wires a wizard to its collaborators and shows the first screen. The
// username field is prepopulated from the cache.
func New(display Display, cache Cache, submitter Submitter, opts Options) *Wizard {
	rules := split.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	w := &Wizard{
		display:       display,
		cache:         cache,
		submitter:     submitter,
		rules:         rules,
		submitTimeout: opts.SubmitTimeout,
		logger:        opts.Logger,
	}

	username := ""
	if cached, ok := cache.Username(); ok {
		username = cached
	}
	w.session = NewSession(username)

	w.seq = NewSequencer(display, opts.ActivateDelay, &w.gen)
	w.timer = NewTimer(display, &w.gen, opts.TickInterval, w.seq.Advance, w.seq.Advance)
	w.seq.Initialize()

	return w
}

// StartTimer begins the trip measurement and moves to the timer screen.
func (w *Wizard) StartTimer() {
	w.timer.Start()
}

// StopTimer freezes the trip duration and moves to the username screen.
func (w *Wizard) StopTimer() {
	w.timer.Stop()
}

// SetUsername validates and stores the username, persists it for future
// sessions, and advances. A validation failure leaves all state untouched.
func (w *Wizard) SetUsername(name string) error {
	trimmed := strings.TrimSpace(name)
	if err := split.ValidateUsername(trimmed, w.rules); err != nil {
		return err
	}

	w.mu.Lock()
	w.session.Username = trimmed
	w.mu.Unlock()

	if err := w.cache.SetUsername(trimmed); err != nil {
		// The session keeps the name either way; only persistence failed.
		w.logger.Warn("failed to cache username", zap.Error(err))
	}

	w.seq.Advance()
	return nil
}

// SetDirection records whether the trip went down, then advances.
func (w *Wizard) SetDirection(isDown bool) {
	w.mu.Lock()
	w.session.IsDown = &isDown
	w.mu.Unlock()
	w.seq.Advance()
}

// SetMethod records elevator vs. stairs. The elevator path has no carrying
// question: carrying stays nil and submission starts immediately, jumping
// over the carrying screen. The stairs path advances to it.
func (w *Wizard) SetMethod(isElevator bool) {
	w.mu.Lock()
	w.session.IsElevator = &isElevator
	if isElevator {
		w.session.CarryingItems = nil
		w.submitLocked()
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	w.seq.Advance()
}

// SetCarrying records the stairs-only carrying answer and starts submission.
func (w *Wizard) SetCarrying(carrying bool) {
	w.mu.Lock()
	w.session.CarryingItems = &carrying
	w.submitLocked()
	w.mu.Unlock()
}

// submitLocked assembles the record and submits it in the background.
// Caller holds w.mu. Duplicate triggers while a submission is in flight are
// ignored; the UI offers no second submit before reset, this is the backstop.
func (w *Wizard) submitLocked() {
	if w.submitting {
		return
	}
	w.submitting = true

	w.session.StartTimestamp = w.timer.StartedAt()
	w.session.DurationMs = w.timer.DurationMs()
	rec := w.session.Record()
	myGen := w.gen.Load()

	w.seq.JumpTo(ScreenLoading)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.submitTimeout)
		defer cancel()

		err := w.submitter.Submit(ctx, rec)

		w.mu.Lock()
		if w.gen.Load() != myGen {
			// The session was reset while the request was in flight.
			w.mu.Unlock()
			w.logger.Debug("dropping stale submission response",
				zap.Int64("generation", myGen))
			return
		}
		w.submitting = false
		w.mu.Unlock()

		if err != nil {
			w.logger.Warn("split submission failed", zap.Error(err))
			w.display.ShowOutcome(Outcome{Success: false, Message: err.Error()})
			return
		}
		w.logger.Info("split submitted",
			zap.String("user", rec.User),
			zap.Int64("duration_ms", rec.DurationMs))
		w.display.ShowOutcome(Outcome{Success: true})
	}()
}

// Reset discards the session (keeping the username), returns the timer to
// idle, restores the loading placeholder, and shows the first screen again.
// Calling it twice is the same as calling it once.
func (w *Wizard) Reset() {
	w.mu.Lock()
	w.gen.Inc()
	w.submitting = false
	w.session = NewSession(w.session.Username)
	w.mu.Unlock()

	w.timer.Reset()
	w.display.ClearOutcome()
	w.seq.JumpTo(ScreenStart)
}

// Current returns the current screen.
func (w *Wizard) Current() Screen {
	return w.seq.Current()
}

// Session returns a copy of the in-progress session.
func (w *Wizard) Session() Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.session
}

// TimerState reports the stopwatch lifecycle state.
func (w *Wizard) TimerState() TimerState {
	return w.timer.State()
}

// ElapsedMs reports the live or frozen elapsed time for display.
func (w *Wizard) ElapsedMs() int64 {
	return w.timer.ElapsedMs()
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// SetTimerClock overrides the stopwatch time source. Tests only.
func (w *Wizard) SetTimerClock(now func() time.Time) {
	w.timer.SetClock(now)
}
