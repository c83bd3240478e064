package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestSequencerAdvanceStopsAtEnd(t *testing.T) {
	display := newFakeDisplay()
	var gen atomic.Int64
	seq := NewSequencer(display, 0, &gen)
	seq.Initialize()

	require.Equal(t, ScreenStart, seq.Current())
	for i := 0; i < 20; i++ {
		seq.Advance()
	}
	// Advancing past the last screen is a no-op.
	assert.Equal(t, ScreenLoading, seq.Current())
	assert.True(t, display.isActive(ScreenLoading))
}

func TestSequencerMarksLowerScreensPassed(t *testing.T) {
	display := newFakeDisplay()
	var gen atomic.Int64
	seq := NewSequencer(display, 0, &gen)
	seq.Initialize()

	seq.JumpTo(ScreenMethod)
	for s := ScreenStart; s < ScreenMethod; s++ {
		assert.True(t, display.isPassed(s), "screen %s should be passed", s)
	}
	assert.False(t, display.isPassed(ScreenMethod))
	assert.False(t, display.isActive(ScreenStart))
}

func TestSequencerActivationIsEventual(t *testing.T) {
	display := newFakeDisplay()
	var gen atomic.Int64
	seq := NewSequencer(display, 30*time.Millisecond, &gen)
	seq.Initialize()

	seq.Advance()
	// Not active immediately: the transition delay has to elapse first.
	assert.False(t, display.isActive(ScreenTimer))
	assert.Eventually(t, func() bool {
		return display.isActive(ScreenTimer)
	}, time.Second, time.Millisecond)
}

func TestSequencerStaleActivationDropped(t *testing.T) {
	display := newFakeDisplay()
	var gen atomic.Int64
	seq := NewSequencer(display, 20*time.Millisecond, &gen)
	seq.Initialize()

	seq.Advance()
	// A generation bump (reset) before the delay fires cancels the pending
	// activation.
	gen.Inc()
	seq.JumpTo(ScreenStart)

	time.Sleep(60 * time.Millisecond)
	assert.False(t, display.isActive(ScreenTimer))
}

func TestSequencerJumpToSameScreenIsNoop(t *testing.T) {
	display := newFakeDisplay()
	var gen atomic.Int64
	seq := NewSequencer(display, 0, &gen)
	seq.Initialize()

	display.mu.Lock()
	display.active[ScreenStart] = true
	display.mu.Unlock()

	seq.JumpTo(ScreenStart)
	assert.True(t, display.isActive(ScreenStart))
	assert.Equal(t, ScreenStart, seq.Current())
}
