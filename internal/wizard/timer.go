package wizard

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/blaine-t/splits/internal/split"
)

// TimerState is the stopwatch lifecycle: idle until started, running until
// stopped, stopped until reset.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerStopped
)

// DefaultTickInterval refreshes the clock display at roughly 60Hz.
const DefaultTickInterval = 16 * time.Millisecond

const zeroClock = "00:00:000"

// Timer measures one trip with millisecond precision. While running, a
// ticker goroutine pushes the formatted elapsed time to the display. The
// duration is fixed once Stop captures it and is never recomputed.
//
// Every Start and Reset bumps the shared session generation; a tick that
// fires after losing the race (and any late AfterFunc or submission response
// holding an old generation) must not touch the display.
type Timer struct {
	mu    sync.Mutex
	state TimerState

	start      time.Time
	durationMs int64

	interval time.Duration
	now      func() time.Time
	stop     chan struct{}

	gen *atomic.Int64

	display   Display
	onStarted func()
	onStopped func()
}

// NewTimer creates an idle timer. onStarted and onStopped fire after the
// state transition so the sequencer can advance past the start and timer
// screens; either may be nil.
func NewTimer(display Display, gen *atomic.Int64, interval time.Duration, onStarted, onStopped func()) *Timer {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Timer{
		interval:  interval,
		now:       time.Now,
		gen:       gen,
		display:   display,
		onStarted: onStarted,
		onStopped: onStopped,
	}
}

// SetClock overrides the time source. Tests only; must be called before Start.
func (t *Timer) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Start begins measuring. Valid only from idle; any other state is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.state != TimerIdle {
		t.mu.Unlock()
		return
	}
	t.state = TimerRunning
	t.start = t.now()
	t.stop = make(chan struct{})
	myGen := t.gen.Inc()
	go t.run(t.stop, myGen)
	t.mu.Unlock()

	if t.onStarted != nil {
		t.onStarted()
	}
}

// Stop freezes the duration. Cancelling the ticker, capturing the final
// duration, and writing the frozen display value all happen under one lock
// acquisition; ticks write their value under the same lock, so an in-flight
// tick either lands before the frozen value or not at all. No-op unless
// running.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.state != TimerRunning {
		t.mu.Unlock()
		return
	}
	t.durationMs = t.now().Sub(t.start).Milliseconds()
	t.state = TimerStopped
	close(t.stop)
	t.stop = nil
	t.display.SetClock(split.FormatClock(t.durationMs))
	t.mu.Unlock()

	if t.onStopped != nil {
		t.onStopped()
	}
}

// Reset cancels any active ticker, clears the measurement, and returns to
// idle with the display back at 00:00:000.
func (t *Timer) Reset() {
	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.state = TimerIdle
	t.start = time.Time{}
	t.durationMs = 0
	t.gen.Inc()
	t.display.SetClock(zeroClock)
	t.mu.Unlock()
}

// State returns the current lifecycle state.
func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// StartedAt returns the instant Start was called, zero while idle.
func (t *Timer) StartedAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.start
}

// DurationMs returns the frozen duration, or 0 before Stop.
func (t *Timer) DurationMs() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durationMs
}

// ElapsedMs returns the live elapsed time while running, the frozen duration
// once stopped, and 0 while idle.
func (t *Timer) ElapsedMs() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case TimerRunning:
		return t.now().Sub(t.start).Milliseconds()
	case TimerStopped:
		return t.durationMs
	default:
		return 0
	}
}

func (t *Timer) run(stop chan struct{}, myGen int64) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// The display write stays under the lock: a tick that loses
			// the race with Stop must not land on top of the frozen value.
			t.mu.Lock()
			if t.state != TimerRunning || t.gen.Load() != myGen {
				t.mu.Unlock()
				return
			}
			t.display.SetClock(split.FormatClock(t.now().Sub(t.start).Milliseconds()))
			t.mu.Unlock()
		}
	}
}
