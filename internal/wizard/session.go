package wizard

import (
	"time"

	"github.com/google/uuid"

	"github.com/blaine-t/splits/internal/split"
)

// Session is the state of one timed trip as the user fills it in. Direction,
// method, and carrying stay nil until answered; CarryingItems is non-nil only
// when the method is stairs.
type Session struct {
	ID       string
	Username string

	IsDown        *bool
	IsElevator    *bool
	CarryingItems *bool

	StartTimestamp time.Time
	DurationMs     int64
}

// NewSession creates an empty session, carrying over the username that
// persists across resets.
func NewSession(username string) *Session {
	return &Session{
		ID:       uuid.New().String(),
		Username: username,
	}
}

// Record assembles the submission payload. CarryingItems rides along only
// when it was answered, which by construction means the stairs path.
func (s *Session) Record() split.Record {
	rec := split.Record{
		User:       s.Username,
		DurationMs: s.DurationMs,
	}
	if s.IsDown != nil {
		rec.IsDown = *s.IsDown
	}
	if s.IsElevator != nil {
		rec.IsElevator = *s.IsElevator
	}
	if s.CarryingItems != nil {
		v := *s.CarryingItems
		rec.CarryingItems = &v
	}
	return rec
}
