package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicaptcha/internal/progress"
	"github.com/verte-zerg/tuicaptcha/internal/session"
)

type sequenceSource struct {
	n int
}

func (s *sequenceSource) Generate() string {
	s.n++
	return fmt.Sprintf("Tui%05d", s.n)
}

func newTestModel(t *testing.T) (*Model, *session.Session) {
	t.Helper()
	sched := NewScheduler()
	sess := session.New(&sequenceSource{}, progress.NewKVAdapter(progress.NewMemoryKV()), sched,
		session.WithCelebration(time.Millisecond))
	return NewModel(sess, sched), sess
}

func typeText(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestTypingUpdatesPendingInput(t *testing.T) {
	m, sess := newTestModel(t)
	typeText(m, "Tui")
	assert.Equal(t, "Tui", sess.PendingInput())

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "Tu", sess.PendingInput())
}

func TestEnterSubmitsCorrectAnswer(t *testing.T) {
	m, sess := newTestModel(t)
	typeText(m, sess.Challenge())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 10, sess.Score())
	assert.Equal(t, 1, sess.Streak())
	assert.Equal(t, "Tui00002", sess.Challenge())
	assert.Empty(t, m.input.Value())
	assert.True(t, sess.Celebrating())
	require.NotNil(t, cmd, "expected celebration tick")

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.Len(t, batch, 1)
		msg = batch[0]()
	}
	fired, ok := msg.(timerFiredMsg)
	require.True(t, ok, "expected timerFiredMsg, got %T", msg)
	m.Update(fired)
	assert.False(t, sess.Celebrating())
}

func TestEnterOnEmptyInputShowsError(t *testing.T) {
	m, sess := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, session.MsgEmptyAnswer, sess.LastError())
	assert.Equal(t, "Tui00001", sess.Challenge())
	assert.Contains(t, m.View(), session.MsgEmptyAnswer)
}

func TestWrongAnswerResetsStreak(t *testing.T) {
	m, sess := newTestModel(t)
	typeText(m, sess.Challenge())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(m, "tui00002")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 10, sess.Score())
	assert.Zero(t, sess.Streak())
	assert.Equal(t, session.MsgIncorrectAnswer, sess.LastError())
	assert.Empty(t, m.input.Value())
}

func TestTabSkips(t *testing.T) {
	m, sess := newTestModel(t)
	typeText(m, "partial")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Nil(t, cmd)
	assert.Equal(t, "Tui00002", sess.Challenge())
	assert.Empty(t, sess.PendingInput())
	assert.Empty(t, m.input.Value())
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(msg)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestViewShowsStateAndNotes(t *testing.T) {
	m, sess := newTestModel(t)
	typeText(m, sess.Challenge())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	for _, want := range []string{"Captcha Solver", "Tui00002", "Coins: 10", "Streak: 1", "Solved!"} {
		assert.Contains(t, view, want)
	}
	for _, note := range Notes {
		assert.Truef(t, strings.Contains(view, note), "missing note %q", note)
	}
}

func TestSchedulerDrain(t *testing.T) {
	s := NewScheduler()
	assert.Nil(t, s.Drain())
	s.Schedule(time.Millisecond, func() {})
	s.Schedule(time.Millisecond, func() {})
	require.NotNil(t, s.Drain())
	assert.Nil(t, s.Drain())
}
