package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blaine-t/splits/internal/split"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeDisplay records every display call for assertion.
type fakeDisplay struct {
	mu       sync.Mutex
	active   map[Screen]bool
	passed   map[Screen]bool
	clock    string
	outcomes []Outcome
	cleared  int
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		active: make(map[Screen]bool),
		passed: make(map[Screen]bool),
		clock:  "00:00:000",
	}
}

func (d *fakeDisplay) Activate(s Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active[s] = true
}

func (d *fakeDisplay) Deactivate(s Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active[s] = false
}

func (d *fakeDisplay) MarkPassed(s Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.passed[s] = true
}

func (d *fakeDisplay) SetClock(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clock = value
}

func (d *fakeDisplay) ShowOutcome(o Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, o)
}

func (d *fakeDisplay) ClearOutcome() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleared++
}

func (d *fakeDisplay) isActive(s Screen) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active[s]
}

func (d *fakeDisplay) isPassed(s Screen) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.passed[s]
}

func (d *fakeDisplay) clockValue() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}

func (d *fakeDisplay) lastOutcome() (Outcome, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.outcomes) == 0 {
		return Outcome{}, false
	}
	return d.outcomes[len(d.outcomes)-1], true
}

func (d *fakeDisplay) outcomeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.outcomes)
}

type fakeCache struct {
	mu     sync.Mutex
	name   string
	has    bool
	setErr error
	sets   int
}

func (c *fakeCache) Username() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, c.has
}

func (c *fakeCache) SetUsername(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.name = name
	c.has = true
	c.sets++
	return nil
}

type fakeSubmitter struct {
	mu      sync.Mutex
	records []split.Record
	err     error
	// release, when set, blocks Submit until closed.
	release chan struct{}
}

func (s *fakeSubmitter) Submit(ctx context.Context, rec split.Record) error {
	s.mu.Lock()
	s.records = append(s.records, rec)
	release := s.release
	err := s.err
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *fakeSubmitter) submitted() []split.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]split.Record, len(s.records))
	copy(out, s.records)
	return out
}

// fakeClock is a controllable time source for the stopwatch.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	display   *fakeDisplay
	cache     *fakeCache
	submitter *fakeSubmitter
	clock     *fakeClock
	wizard    *Wizard
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		display:   newFakeDisplay(),
		cache:     &fakeCache{},
		submitter: &fakeSubmitter{},
		clock:     newFakeClock(),
	}
	h.wizard = New(h.display, h.cache, h.submitter, opts)
	h.wizard.SetTimerClock(h.clock.Now)
	t.Cleanup(h.wizard.Reset)
	return h
}

// runToUsername drives start -> stop with the given simulated duration.
func (h *harness) runToUsername(t *testing.T, duration time.Duration) {
	t.Helper()
	h.wizard.StartTimer()
	require.Equal(t, ScreenTimer, h.wizard.Current())
	h.clock.Advance(duration)
	h.wizard.StopTimer()
	require.Equal(t, ScreenUsername, h.wizard.Current())
}

func waitForOutcome(t *testing.T, d *fakeDisplay) Outcome {
	t.Helper()
	var out Outcome
	require.Eventually(t, func() bool {
		o, ok := d.lastOutcome()
		out = o
		return ok
	}, 2*time.Second, time.Millisecond)
	return out
}

func TestElevatorFlowEndToEnd(t *testing.T) {
	h := newHarness(t, Options{})

	assert.Equal(t, ScreenStart, h.wizard.Current())
	h.runToUsername(t, 5230*time.Millisecond)
	assert.Equal(t, "00:05:230", h.display.clockValue())

	require.NoError(t, h.wizard.SetUsername("bob"))
	assert.Equal(t, ScreenDirection, h.wizard.Current())

	h.wizard.SetDirection(true)
	assert.Equal(t, ScreenMethod, h.wizard.Current())

	// Elevator skips the carrying screen entirely.
	h.wizard.SetMethod(true)
	assert.Equal(t, ScreenLoading, h.wizard.Current())
	assert.False(t, h.display.isPassed(ScreenCarrying) && h.display.isActive(ScreenCarrying))

	out := waitForOutcome(t, h.display)
	assert.True(t, out.Success)

	records := h.submitter.submitted()
	require.Len(t, records, 1)
	want := split.Record{User: "bob", IsDown: true, IsElevator: true, DurationMs: 5230}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStairsFailureFlow(t *testing.T) {
	h := newHarness(t, Options{})
	h.submitter.err = errors.New("connection refused")

	h.runToUsername(t, 8*time.Second)
	require.NoError(t, h.wizard.SetUsername("alice"))
	h.wizard.SetDirection(false)

	h.wizard.SetMethod(false)
	assert.Equal(t, ScreenCarrying, h.wizard.Current())

	h.wizard.SetCarrying(true)
	assert.Equal(t, ScreenLoading, h.wizard.Current())

	out := waitForOutcome(t, h.display)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "connection refused")
	// A failed submission leaves the user on the loading screen with the
	// restart action; nothing advances.
	assert.Equal(t, ScreenLoading, h.wizard.Current())

	records := h.submitter.submitted()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].CarryingItems)
	assert.True(t, *records[0].CarryingItems)
}

func TestRecordCarryingPresentOnlyForStairs(t *testing.T) {
	for _, isDown := range []bool{true, false} {
		for _, isElevator := range []bool{true, false} {
			h := newHarness(t, Options{})
			h.runToUsername(t, time.Second)
			require.NoError(t, h.wizard.SetUsername("prop"))
			h.wizard.SetDirection(isDown)
			h.wizard.SetMethod(isElevator)
			if !isElevator {
				h.wizard.SetCarrying(true)
			}
			waitForOutcome(t, h.display)

			records := h.submitter.submitted()
			require.Len(t, records, 1)
			if isElevator {
				assert.Nil(t, records[0].CarryingItems, "elevator record must omit carrying_items")
			} else {
				assert.NotNil(t, records[0].CarryingItems, "stairs record must carry carrying_items")
			}
		}
	}
}

func TestSetUsernameValidation(t *testing.T) {
	h := newHarness(t, Options{})
	h.runToUsername(t, time.Second)

	err := h.wizard.SetUsername("   ")
	var verr *split.ValidationError
	require.True(t, errors.As(err, &verr))

	// Nothing changed: still on the username screen, nothing cached.
	assert.Equal(t, ScreenUsername, h.wizard.Current())
	assert.Equal(t, "", h.wizard.Session().Username)
	_, cached := h.cache.Username()
	assert.False(t, cached)

	// Leading/trailing whitespace is trimmed before storing.
	require.NoError(t, h.wizard.SetUsername("  alice  "))
	assert.Equal(t, "alice", h.wizard.Session().Username)
	name, cached := h.cache.Username()
	assert.True(t, cached)
	assert.Equal(t, "alice", name)
}

func TestUsernamePrepopulatedFromCache(t *testing.T) {
	display := newFakeDisplay()
	cache := &fakeCache{name: "alice", has: true}
	w := New(display, cache, &fakeSubmitter{}, Options{})
	t.Cleanup(w.Reset)

	assert.Equal(t, "alice", w.Session().Username)
}

func TestCacheFailureDoesNotBlockAdvance(t *testing.T) {
	h := newHarness(t, Options{})
	h.cache.setErr = errors.New("disk full")

	h.runToUsername(t, time.Second)
	require.NoError(t, h.wizard.SetUsername("bob"))
	assert.Equal(t, ScreenDirection, h.wizard.Current())
	assert.Equal(t, "bob", h.wizard.Session().Username)
}

func TestResetIsIdempotent(t *testing.T) {
	h := newHarness(t, Options{})
	h.runToUsername(t, 5*time.Second)
	require.NoError(t, h.wizard.SetUsername("alice"))
	h.wizard.SetDirection(true)
	h.wizard.SetMethod(true)
	waitForOutcome(t, h.display)

	h.wizard.Reset()
	firstID := h.wizard.Session().ID
	h.wizard.Reset()

	assert.Equal(t, ScreenStart, h.wizard.Current())
	assert.Equal(t, TimerIdle, h.wizard.TimerState())
	assert.Equal(t, int64(0), h.wizard.ElapsedMs())
	assert.Equal(t, "00:00:000", h.display.clockValue())
	// Username survives reset; the rest of the session is wiped.
	assert.Equal(t, "alice", h.wizard.Session().Username)
	assert.Nil(t, h.wizard.Session().IsDown)
	assert.Nil(t, h.wizard.Session().IsElevator)
	assert.Nil(t, h.wizard.Session().CarryingItems)
	assert.NotEqual(t, firstID, h.wizard.Session().ID)
	assert.GreaterOrEqual(t, h.display.cleared, 2)
}

func TestLateResponseAfterResetIsDropped(t *testing.T) {
	h := newHarness(t, Options{})
	h.submitter.release = make(chan struct{})

	h.runToUsername(t, time.Second)
	require.NoError(t, h.wizard.SetUsername("alice"))
	h.wizard.SetDirection(true)
	h.wizard.SetMethod(true)
	require.Equal(t, ScreenLoading, h.wizard.Current())
	require.True(t, h.wizard.Submitting())

	// Reset while the request is still in flight, then let it complete.
	h.wizard.Reset()
	close(h.submitter.release)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, h.display.outcomeCount(), "stale response must not surface an outcome")
	assert.Equal(t, ScreenStart, h.wizard.Current())
}

func TestNoOverlappingSubmissions(t *testing.T) {
	h := newHarness(t, Options{})
	h.submitter.release = make(chan struct{})

	h.runToUsername(t, time.Second)
	require.NoError(t, h.wizard.SetUsername("alice"))
	h.wizard.SetDirection(true)
	h.wizard.SetMethod(false)
	h.wizard.SetCarrying(false)
	require.True(t, h.wizard.Submitting())

	// A second trigger while in flight is ignored.
	h.wizard.SetCarrying(true)
	close(h.submitter.release)
	waitForOutcome(t, h.display)

	assert.Len(t, h.submitter.submitted(), 1)
}
