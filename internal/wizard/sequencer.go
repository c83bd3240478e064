package wizard

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Sequencer owns the current screen index. It only ever moves forward one
// step at a time; the two non-linear transitions (the elevator path skipping
// Carrying, and reset returning to Start) go through JumpTo. Indices are
// produced internally and are never out of range.
type Sequencer struct {
	mu      sync.Mutex
	current Screen

	display Display
	delay   time.Duration

	// gen is the owning wizard's session generation. A pending activation
	// scheduled before a reset must not mark a screen active afterwards.
	gen *atomic.Int64
}

// NewSequencer creates a sequencer bound to a display. delay is how long a
// screen change waits before the new screen counts as active.
func NewSequencer(display Display, delay time.Duration, gen *atomic.Int64) *Sequencer {
	return &Sequencer{
		display: display,
		delay:   delay,
		gen:     gen,
	}
}

// Initialize moves to the first screen and shows it.
func (q *Sequencer) Initialize() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = ScreenStart
	q.render(ScreenStart)
}

// Advance moves forward one screen. No-op on the last screen.
func (q *Sequencer) Advance() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current >= screenCount-1 {
		return
	}
	q.display.Deactivate(q.current)
	q.current++
	q.render(q.current)
}

// JumpTo moves directly to the given screen.
func (q *Sequencer) JumpTo(s Screen) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if s < 0 || s >= screenCount || s == q.current {
		return
	}
	q.display.Deactivate(q.current)
	q.current = s
	q.render(s)
}

// Current returns the current screen.
func (q *Sequencer) Current() Screen {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// render marks everything before the new screen as passed and schedules its
// activation. Called with q.mu held.
func (q *Sequencer) render(next Screen) {
	for s := ScreenStart; s < next; s++ {
		q.display.MarkPassed(s)
	}

	myGen := q.gen.Load()
	if q.delay <= 0 {
		q.display.Activate(next)
		return
	}
	time.AfterFunc(q.delay, func() {
		if q.gen.Load() != myGen {
			return
		}
		q.mu.Lock()
		current := q.current
		q.mu.Unlock()
		if current == next {
			q.display.Activate(next)
		}
	})
}
