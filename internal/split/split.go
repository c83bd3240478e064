// Package split defines the splits domain: the record a timed trip produces,
// the stored row it becomes, validation rules, and display formatting.
package split

import "fmt"

// Split is one completed timed trip between floors as stored by the server.
type Split struct {
	ID            int64  `json:"id"`
	User          string `json:"user"`
	IsDown        bool   `json:"is_down"`
	IsElevator    bool   `json:"is_elevator"`
	DurationMs    int64  `json:"duration_ms"`
	CarryingItems *bool  `json:"carrying_items,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Record is the wire payload a client submits for a completed trip.
// CarryingItems is present only when the trip was taken on the stairs;
// elevator trips omit the key entirely.
type Record struct {
	User          string `json:"user"`
	IsDown        bool   `json:"is_down"`
	IsElevator    bool   `json:"is_elevator"`
	DurationMs    int64  `json:"duration_ms"`
	CarryingItems *bool  `json:"carrying_items,omitempty"`
}

// Direction returns the human name for the trip direction.
func (s Split) Direction() string {
	if s.IsDown {
		return "down"
	}
	return "up"
}

// Method returns the human name for the travel method.
func (s Split) Method() string {
	if s.IsElevator {
		return "elevator"
	}
	return "stairs"
}

// Category identifies a leaderboard bucket: one per (direction, method) pair.
type Category struct {
	IsDown     bool `json:"is_down"`
	IsElevator bool `json:"is_elevator"`
}

// String renders the category the way boards title it, e.g. "down the stairs".
func (c Category) String() string {
	dir := "up"
	if c.IsDown {
		dir = "down"
	}
	method := "stairs"
	if c.IsElevator {
		method = "elevator"
	}
	return fmt.Sprintf("%s the %s", dir, method)
}

// Categories lists all four leaderboard buckets in board display order.
func Categories() []Category {
	return []Category{
		{IsDown: false, IsElevator: false},
		{IsDown: true, IsElevator: false},
		{IsDown: false, IsElevator: true},
		{IsDown: true, IsElevator: true},
	}
}
