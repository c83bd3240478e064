// Package wizard implements the split-timing flow: a linear sequence of
// screens, a millisecond stopwatch, and the session record built up from the
// user's answers. Rendering, username persistence, and record submission are
// collaborator interfaces so the same core drives the TUI and tests.
package wizard

// Screen is one step of the wizard. Values are ordinal: the flow advances
// from Start through Loading, with the single exception of elevator trips
// skipping Carrying.
type Screen int

const (
	ScreenStart Screen = iota
	ScreenTimer
	ScreenUsername
	ScreenDirection
	ScreenMethod
	ScreenCarrying
	ScreenLoading

	screenCount
)

// Screens lists every screen in order.
func Screens() []Screen {
	all := make([]Screen, screenCount)
	for i := range all {
		all[i] = Screen(i)
	}
	return all
}

func (s Screen) String() string {
	switch s {
	case ScreenStart:
		return "start"
	case ScreenTimer:
		return "timer"
	case ScreenUsername:
		return "username"
	case ScreenDirection:
		return "direction"
	case ScreenMethod:
		return "method"
	case ScreenCarrying:
		return "carrying"
	case ScreenLoading:
		return "loading"
	default:
		return "unknown"
	}
}
