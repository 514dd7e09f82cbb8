// Package tui provides the Bubble Tea CAPTCHA interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/session"
)

// Notes are shown verbatim under the game. The second and fourth describe
// arithmetic challenges that the generator never produces.
var Notes = []string{
	"All words are case sensitive.",
	"Calculative CAPTCHAs must be solved.",
	"Length of the CAPTCHAs will be between 6 to 12 characters.",
	"The result can be negative numbers (e.g., 5 - 8 = -3).",
}

const contentWidth = 48

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	challengeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C89A3A")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	celebrateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	counterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea CAPTCHA UI.
type Model struct {
	session *session.Session
	sched   *Scheduler

	input textinput.Model
	keys  keyMap
	help  help.Model

	width  int
	height int
}

// NewModel constructs the UI around a session. sched must be the scheduler
// the session was built with.
func NewModel(sess *session.Session, sched *Scheduler) *Model {
	input := textinput.New()
	input.Placeholder = "Enter CAPTCHA answer"
	input.Prompt = "> "
	input.CharLimit = 64
	input.Width = contentWidth - 4
	input.Focus()

	m := &Model{
		session: sess,
		sched:   sched,
		input:   input,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.syncInput()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case timerFiredMsg:
		msg.fn()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			m.session.Submit(m.input.Value())
			m.syncInput()
			return m, m.sched.Drain()
		case key.Matches(msg, m.keys.Skip):
			m.session.Skip()
			m.syncInput()
			return m, m.sched.Drain()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != m.session.PendingInput() {
		m.session.UpdateInput(m.input.Value())
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	content := renderState(m.session.Snapshot(), m.input.View())
	footer := footerStyle.Render(m.help.View(m.keys))
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) syncInput() {
	m.input.SetValue(m.session.PendingInput())
	m.input.CursorEnd()
}

func renderState(st model.State, inputView string) string {
	lines := []string{
		titleStyle.Render("Captcha Solver"),
		"",
		challengeStyle.Render(st.Challenge),
		"",
		inputView,
	}
	switch {
	case st.LastError != "":
		lines = append(lines, errorStyle.Render(st.LastError))
	case st.Celebrating:
		lines = append(lines, celebrateStyle.Render(fmt.Sprintf("Solved! +%d coins", session.RewardPoints)))
	default:
		lines = append(lines, "")
	}
	lines = append(lines,
		"",
		counterStyle.Render(fmt.Sprintf("Coins: %d 💰   Streak: %d 🔥", st.Score, st.Streak)),
		"",
		titleStyle.Render("Important Notes:"),
	)
	for _, note := range Notes {
		lines = append(lines, noteStyle.Render("• "+note))
	}
	return lipgloss.NewStyle().Width(contentWidth + 16).Render(strings.Join(lines, "\n"))
}
