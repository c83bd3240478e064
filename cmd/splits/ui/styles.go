// Package ui renders the splits wizard as a terminal UI.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Dark-terminal defaults; the clock gets the accent color so
// it reads at a glance mid-descent.
var (
	ColorPrimary = lipgloss.Color("#8BC34A") // Lime Green
	ColorAccent  = lipgloss.Color("#FFC107") // Yellow
	ColorMuted   = lipgloss.Color("#6b7280")
	ColorError   = lipgloss.Color("#e53935")
	ColorSuccess = lipgloss.Color("#8BC34A")
	ColorBorder  = lipgloss.Color("#2a3850")
)

// Styles holds all the styled components.
type Styles struct {
	// Layout
	App    lipgloss.Style
	Screen lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style

	// Wizard chrome
	Clock     lipgloss.Style
	StepDone  lipgloss.Style
	StepHere  lipgloss.Style
	StepTodo  lipgloss.Style
	Option    lipgloss.Style
	OptionSel lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the standard wizard styling.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Screen: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 3),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),

		Title: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginBottom(1),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Clock: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		StepDone: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		StepHere: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		StepTodo: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Option: lipgloss.NewStyle().
			PaddingLeft(2),

		OptionSel: lipgloss.NewStyle().
			PaddingLeft(0).
			Foreground(ColorPrimary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(ColorAccent),
	}
}
