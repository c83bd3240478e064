package wizard

import (
	"context"

	"github.com/blaine-t/splits/internal/split"
)

// Display is the rendering surface the wizard drives. Implementations show
// and hide screens; the wizard only reports state changes.
//
// Activate fires a short delay after the screen change so a transition
// effect can register; callers should treat "active" as eventually true, not
// immediately true.
type Display interface {
	// Activate marks the given screen as the current one.
	Activate(s Screen)
	// Deactivate marks a previously current screen inactive.
	Deactivate(s Screen)
	// MarkPassed marks a screen the user has already completed. Visual
	// ordering only; no behavioral effect.
	MarkPassed(s Screen)
	// SetClock updates the live stopwatch text (MM:SS:mmm).
	SetClock(value string)
	// ShowOutcome reports the submission result on the loading screen.
	ShowOutcome(o Outcome)
	// ClearOutcome restores the loading screen to its initial placeholder.
	ClearOutcome()
}

// Outcome is the terminal state of one submission attempt.
type Outcome struct {
	Success bool
	// Message distinguishes server rejection from transport failure; it is
	// informational only, both paths offer the same restart action.
	Message string
}

// Cache persists the single remembered value across sessions: the username.
type Cache interface {
	// Username returns the cached name, if any.
	Username() (string, bool)
	// SetUsername stores the name for future sessions.
	SetUsername(name string) error
}

// Submitter sends a completed record to the backend. Any returned error is a
// failure; the wizard never retries.
type Submitter interface {
	Submit(ctx context.Context, rec split.Record) error
}
