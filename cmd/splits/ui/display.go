package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blaine-t/splits/internal/wizard"
)

// Messages the wizard core pushes into the bubbletea loop.
type (
	screenActivatedMsg struct{ screen wizard.Screen }
	screenPassedMsg    struct{ screen wizard.Screen }
	clockMsg           struct{ value string }
	outcomeMsg         struct{ outcome wizard.Outcome }
	clearOutcomeMsg    struct{}
)

// Display bridges wizard callbacks into tea messages. The wizard fires
// callbacks from its own goroutines before the program loop exists, so
// messages buffer until Attach hands over a live program.
type Display struct {
	mu      sync.Mutex
	forward func(tea.Msg)
	pending []tea.Msg
}

func NewDisplay() *Display {
	return &Display{}
}

// Attach flushes buffered messages and forwards everything after to send.
func (d *Display) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.forward = send
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, msg := range pending {
		send(msg)
	}
}

func (d *Display) post(msg tea.Msg) {
	d.mu.Lock()
	forward := d.forward
	if forward == nil {
		d.pending = append(d.pending, msg)
	}
	d.mu.Unlock()

	if forward != nil {
		forward(msg)
	}
}

func (d *Display) Activate(s wizard.Screen)   { d.post(screenActivatedMsg{screen: s}) }
func (d *Display) Deactivate(wizard.Screen)   {}
func (d *Display) MarkPassed(s wizard.Screen) { d.post(screenPassedMsg{screen: s}) }
func (d *Display) SetClock(value string)      { d.post(clockMsg{value: value}) }

func (d *Display) ShowOutcome(o wizard.Outcome) { d.post(outcomeMsg{outcome: o}) }
func (d *Display) ClearOutcome()                { d.post(clearOutcomeMsg{}) }
