package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/verte-zerg/tuicaptcha/internal/model"
)

const recentRows = 10

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// Render writes a plain-text report to w. Colors are used only when w is a
// terminal and NO_COLOR is unset.
func Render(w io.Writer, r Report) error {
	color := shouldUseColor(w)
	var lines []string

	lines = append(lines, heading("Progress", color))
	lines = append(lines,
		fmt.Sprintf("Coins:  %s", storedValue(r.Progress.Score, r.Progress.HasScore)),
		fmt.Sprintf("Streak: %s", storedValue(r.Progress.Streak, r.Progress.HasStreak)),
		"",
	)

	t := r.Totals
	lines = append(lines, heading("Attempts", color))
	if t.Attempts == 0 {
		lines = append(lines, "No attempts recorded yet.")
		return writeLines(w, lines)
	}
	rows := [][]string{
		{"correct", fmt.Sprintf("%d", t.Correct), percent(t.Correct, t.Attempts)},
		{"incorrect", fmt.Sprintf("%d", t.Incorrect), percent(t.Incorrect, t.Attempts)},
		{"skipped", fmt.Sprintf("%d", t.Skipped), percent(t.Skipped, t.Attempts)},
	}
	lines = append(lines, formatTable([]string{"Outcome", "Count", "Share"}, rows, map[int]bool{1: true, 2: true})...)
	lines = append(lines,
		"",
		fmt.Sprintf("Accuracy:    %.1f%%", t.Accuracy()*100),
		fmt.Sprintf("Best streak: %d", t.BestStreak),
		fmt.Sprintf("Earned:      %d coins", t.Earned),
		fmt.Sprintf("Streaks:     %s", Sparkline(streaks(r.Attempts))),
		"",
	)

	lines = append(lines, heading("Recent", color))
	recent := r.Attempts
	if len(recent) > recentRows {
		recent = recent[len(recent)-recentRows:]
	}
	recentTable := make([][]string, 0, len(recent))
	for _, a := range recent {
		recentTable = append(recentTable, []string{
			a.At.Local().Format("2006-01-02 15:04"),
			a.Challenge,
			a.Answer,
			string(a.Outcome),
			fmt.Sprintf("%d", a.Score),
			fmt.Sprintf("%d", a.Streak),
		})
	}
	table := formatTable([]string{"When", "Challenge", "Answer", "Outcome", "Coins", "Streak"}, recentTable, map[int]bool{4: true, 5: true})
	if color {
		for i := 1; i < len(table); i++ {
			table[i] = outcomeStyle(recent[i-1].Outcome).Render(table[i])
		}
	}
	lines = append(lines, table...)
	return writeLines(w, lines)
}

// Sparkline scales values to block characters. An all-zero series renders
// as the lowest level.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = v * (len(sparkLevels) - 1) / peak
		}
		b.WriteRune(sparkLevels[idx])
	}
	return b.String()
}

func streaks(attempts []model.Attempt) []int {
	out := make([]int, len(attempts))
	for i, a := range attempts {
		out[i] = a.Streak
	}
	return out
}

func storedValue(v int, ok bool) string {
	if !ok {
		return "0 (not stored)"
	}
	return fmt.Sprintf("%d", v)
}

func percent(n, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(n)/float64(total)*100)
}

func heading(s string, color bool) string {
	if color {
		return titleStyle.Render(s)
	}
	return s
}

func outcomeStyle(o model.Outcome) lipgloss.Style {
	switch o {
	case model.OutcomeCorrect:
		return correctStyle
	case model.OutcomeIncorrect:
		return incorrectStyle
	default:
		return skippedStyle
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
