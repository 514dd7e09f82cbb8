// Package statsui provides the Bubble Tea attempts browser.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	report stats.Report
	table  table.Model

	width  int
	height int
}

// NewModel constructs a stats UI over a prepared report.
func NewModel(report stats.Report) *Model {
	t := table.New(
		table.WithColumns(attemptColumns()),
		table.WithRows(attemptRows(report.Attempts)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())
	return &Model{report: report, table: t}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	cards := renderSummaryCards(m.report, m.width)
	body := "No attempts recorded yet."
	if len(m.report.Attempts) > 0 {
		body = m.table.View()
	}
	help := headerStyle.Render("Scroll: up/down/pgup/pgdn  Top/bottom: g/G  Quit: q")
	out := strings.Join([]string{cards, body, help}, "\n")
	if m.width == 0 || m.height == 0 {
		return out
	}
	return fitLines(out, m.width, m.height)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	cardsHeight := lipgloss.Height(renderSummaryCards(m.report, m.width))
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(2, m.height-cardsHeight-2))
}

func renderSummaryCards(r stats.Report, width int) string {
	t := r.Totals
	cards := []string{
		metricCard("Coins", fmt.Sprintf("%d", r.Progress.Score)),
		metricCard("Streak", fmt.Sprintf("%d", r.Progress.Streak)),
		metricCard("Attempts", fmt.Sprintf("%d", t.Attempts)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", t.Accuracy()*100)),
		metricCard("Best streak", fmt.Sprintf("%d", t.BestStreak)),
	}
	if width > 0 && width < 80 {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3], cards[4])
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func attemptColumns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Challenge", Width: 12},
		{Title: "Answer", Width: 14},
		{Title: "Outcome", Width: 9},
		{Title: "Coins", Width: 6},
		{Title: "Streak", Width: 6},
	}
}

// attemptRows lists attempts newest first.
func attemptRows(attempts []model.Attempt) []table.Row {
	rows := make([]table.Row, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		a := attempts[i]
		rows = append(rows, table.Row{
			a.At.Local().Format("2006-01-02 15:04"),
			a.Challenge,
			a.Answer,
			string(a.Outcome),
			fmt.Sprintf("%d", a.Score),
			fmt.Sprintf("%d", a.Streak),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
