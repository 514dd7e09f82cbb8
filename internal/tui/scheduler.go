package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerFiredMsg carries a scheduled callback back onto the event loop.
type timerFiredMsg struct {
	fn func()
}

// Scheduler queues one-shot callbacks as tea.Tick commands. Callbacks run
// inside Update, never on the timer goroutine.
type Scheduler struct {
	pending []tea.Cmd
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule implements session.Scheduler.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	s.pending = append(s.pending, tea.Tick(delay, func(time.Time) tea.Msg {
		return timerFiredMsg{fn: fn}
	}))
}

// Drain returns the queued commands as one and clears the queue.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
