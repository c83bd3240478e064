package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blaine-t/splits/internal/wizard"
)

// choice is one selectable answer on a two-option screen.
type choice struct {
	label string
	key   string // shortcut key
}

var (
	directionChoices = []choice{{"Up", "u"}, {"Down", "d"}}
	methodChoices    = []choice{{"Stairs", "s"}, {"Elevator", "e"}}
	carryingChoices  = []choice{{"Yes", "y"}, {"No", "n"}}
)

// Model is the bubbletea model for the wizard. All trip state lives in the
// wizard core; the model only mirrors what the Display callbacks report.
type Model struct {
	wiz    *wizard.Wizard
	styles Styles

	width  int
	height int

	active  wizard.Screen
	passed  map[wizard.Screen]bool
	clock   string
	outcome *wizard.Outcome

	username    textinput.Model
	usernameErr string
	spin        spinner.Model
	cursor      int

	quitting bool
}

// NewModel builds the model around an already-constructed wizard.
func NewModel(wiz *wizard.Wizard) Model {
	ti := textinput.New()
	ti.Placeholder = "who are you?"
	ti.CharLimit = 64
	ti.Focus()
	if name := wiz.Session().Username; name != "" {
		ti.SetValue(name)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Spinner

	return Model{
		wiz:      wiz,
		styles:   DefaultStyles(),
		active:   wizard.ScreenStart,
		passed:   make(map[wizard.Screen]bool),
		clock:    "00:00:000",
		username: ti,
		spin:     sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screenActivatedMsg:
		m.active = msg.screen
		m.cursor = 0
		if msg.screen == wizard.ScreenLoading {
			return m, m.spin.Tick
		}
		return m, nil

	case screenPassedMsg:
		m.passed[msg.screen] = true
		return m, nil

	case clockMsg:
		m.clock = msg.value
		return m, nil

	case outcomeMsg:
		o := msg.outcome
		m.outcome = &o
		return m, nil

	case clearOutcomeMsg:
		m.outcome = nil
		return m, nil

	case spinner.TickMsg:
		if m.active == wizard.ScreenLoading && m.outcome == nil {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// The username field owns all printable input while active.
	if m.active == wizard.ScreenUsername {
		return m.handleUsernameKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	switch m.active {
	case wizard.ScreenStart:
		if isConfirm(msg) {
			m.wiz.StartTimer()
		}
	case wizard.ScreenTimer:
		if isConfirm(msg) {
			m.wiz.StopTimer()
		}
	case wizard.ScreenDirection:
		return m.handleChoiceKey(msg, directionChoices, func(i int) {
			m.wiz.SetDirection(i == 1) // "Down" is the second choice
		})
	case wizard.ScreenMethod:
		return m.handleChoiceKey(msg, methodChoices, func(i int) {
			m.wiz.SetMethod(i == 1)
		})
	case wizard.ScreenCarrying:
		return m.handleChoiceKey(msg, carryingChoices, func(i int) {
			m.wiz.SetCarrying(i == 0)
		})
	case wizard.ScreenLoading:
		if m.outcome != nil && (isConfirm(msg) || msg.String() == "r") {
			m.wiz.Reset()
		}
	}
	return m, nil
}

func (m Model) handleUsernameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.wiz.SetUsername(m.username.Value()); err != nil {
			m.usernameErr = err.Error()
			return m, nil
		}
		m.usernameErr = ""
		return m, nil
	case tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	return m, cmd
}

func (m Model) handleChoiceKey(msg tea.KeyMsg, choices []choice, pick func(int)) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		pick(m.cursor)
	default:
		// Shortcut keys select and confirm in one stroke.
		for i, c := range choices {
			if msg.String() == c.key {
				m.cursor = i
				pick(i)
				break
			}
		}
	}
	return m, nil
}

func isConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter || msg.String() == " "
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.active {
	case wizard.ScreenStart:
		body = m.viewStart()
	case wizard.ScreenTimer:
		body = m.viewTimer()
	case wizard.ScreenUsername:
		body = m.viewUsername()
	case wizard.ScreenDirection:
		body = m.viewChoices("Which way did you go?", directionChoices)
	case wizard.ScreenMethod:
		body = m.viewChoices("Stairs or elevator?", methodChoices)
	case wizard.ScreenCarrying:
		body = m.viewChoices("Were you carrying items?", carryingChoices)
	case wizard.ScreenLoading:
		body = m.viewLoading()
	}

	screen := m.styles.Screen.Render(body)
	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewSteps(),
		screen,
		m.styles.Footer.Render(m.footerHelp()),
	))
}

func (m Model) viewSteps() string {
	parts := make([]string, 0, len(wizard.Screens()))
	for _, s := range wizard.Screens() {
		label := s.String()
		switch {
		case s == m.active:
			parts = append(parts, m.styles.StepHere.Render("["+label+"]"))
		case m.passed[s]:
			parts = append(parts, m.styles.StepDone.Render(label))
		default:
			parts = append(parts, m.styles.StepTodo.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render(" > "))
}

func (m Model) viewStart() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("splits"),
		m.styles.Subtitle.Render("Time your trip between floors."),
		m.styles.Body.Render("Press enter the moment you set off."),
	)
}

func (m Model) viewTimer() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Timing..."),
		m.styles.Clock.Render(m.clock),
		m.styles.Muted.Render("Press enter when you arrive."),
	)
}

func (m Model) viewUsername() string {
	lines := []string{
		m.styles.Title.Render("Who made the trip?"),
		m.username.View(),
	}
	if m.usernameErr != "" {
		lines = append(lines, m.styles.Error.Render(m.usernameErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewChoices(title string, choices []choice) string {
	lines := []string{m.styles.Title.Render(title)}
	for i, c := range choices {
		if i == m.cursor {
			lines = append(lines, m.styles.OptionSel.Render("> "+c.label))
		} else {
			lines = append(lines, m.styles.Option.Render(c.label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewLoading() string {
	if m.outcome == nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("Submitting..."),
			fmt.Sprintf("%s recording your split", m.spin.View()),
		)
	}
	if m.outcome.Success {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Success.Render("Split recorded!"),
			m.styles.Muted.Render("Press enter to time another trip."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Error.Render("Submission failed"),
		m.styles.Body.Render(m.outcome.Message),
		m.styles.Muted.Render("Press enter to start over."),
	)
}

func (m Model) footerHelp() string {
	switch m.active {
	case wizard.ScreenUsername:
		return "enter confirm • esc quit"
	case wizard.ScreenDirection, wizard.ScreenMethod, wizard.ScreenCarrying:
		return "↑/↓ select • enter confirm • q quit"
	case wizard.ScreenLoading:
		if m.outcome != nil {
			return "enter restart • q quit"
		}
		return "q quit"
	default:
		return "enter continue • q quit"
	}
}
