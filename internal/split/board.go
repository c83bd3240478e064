package split

import (
	"fmt"
	"strings"
)

// BoardEntry is one leaderboard row: the holder of the best (or worst) time
// in one category.
type BoardEntry struct {
	Category Category `json:"category"`
	Split    Split    `json:"split"`
}

// WorldRecords returns the fastest split per category, in board display
// order. Categories with no splits are absent. Ties keep the earlier entry.
func WorldRecords(splits []Split) []BoardEntry {
	return boards(splits, func(candidate, current Split) bool {
		return candidate.DurationMs < current.DurationMs
	})
}

// SlowestRecords returns the slowest split per category, the hall of shame
// counterpart to WorldRecords.
func SlowestRecords(splits []Split) []BoardEntry {
	return boards(splits, func(candidate, current Split) bool {
		return candidate.DurationMs > current.DurationMs
	})
}

func boards(splits []Split, better func(candidate, current Split) bool) []BoardEntry {
	best := make(map[Category]Split)
	for _, s := range splits {
		cat := Category{IsDown: s.IsDown, IsElevator: s.IsElevator}
		current, ok := best[cat]
		if !ok || better(s, current) {
			best[cat] = s
		}
	}

	entries := make([]BoardEntry, 0, len(best))
	for _, cat := range Categories() {
		if s, ok := best[cat]; ok {
			entries = append(entries, BoardEntry{Category: cat, Split: s})
		}
	}
	return entries
}

// FormatRecordBoard renders board entries with a title, one category per line.
func FormatRecordBoard(title string, entries []BoardEntry) string {
	if len(entries) == 0 {
		return title + "\n(no splits recorded yet)"
	}
	lines := []string{title}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf(
			"%s: %s in %s (%s)",
			e.Category, e.Split.User, FormatDuration(e.Split.DurationMs), e.Split.Timestamp,
		))
	}
	return strings.Join(lines, "\n")
}
