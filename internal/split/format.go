package split

import (
	"fmt"
	"strings"
)

// FormatClock renders elapsed milliseconds as the live stopwatch value,
// MM:SS:mmm, zero-padded with floor division. 125678 -> "02:05:678".
func FormatClock(elapsedMs int64) string {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	minutes := elapsedMs / 60000
	seconds := (elapsedMs % 60000) / 1000
	millis := elapsedMs % 1000
	return fmt.Sprintf("%02d:%02d:%03d", minutes, seconds, millis)
}

// FormatDuration renders a duration the way boards read it: "2m05.678s",
// "5.230s", or "678ms" depending on magnitude.
func FormatDuration(durationMs int64) string {
	totalSeconds := durationMs / 1000
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	millis := durationMs % 1000

	switch {
	case minutes > 0:
		return fmt.Sprintf("%dm%02d.%03ds", minutes, seconds, millis)
	case seconds > 0:
		return fmt.Sprintf("%d.%03ds", seconds, millis)
	default:
		return fmt.Sprintf("%dms", millis)
	}
}

// FormatBoard renders the full splits history, one line per entry.
func FormatBoard(splits []Split) string {
	lines := make([]string, 0, len(splits))
	for _, s := range splits {
		extra := ""
		if s.CarryingItems != nil && *s.CarryingItems {
			extra = " carrying items"
		}
		lines = append(lines, fmt.Sprintf(
			"Entry %d: %s went %s the %s in %s%s on %s",
			s.ID, s.User, s.Direction(), s.Method(), FormatDuration(s.DurationMs), extra, s.Timestamp,
		))
	}
	return strings.Join(lines, "\n")
}
