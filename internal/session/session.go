// Package session holds the CAPTCHA game state and its transitions.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/progress"
)

// Points awarded for a correct answer.
const RewardPoints = 10

// DefaultCelebration is how long the celebration flag stays up.
const DefaultCelebration = 3 * time.Second

// Feedback messages shown to the player.
const (
	MsgEmptyAnswer     = "Please enter the CAPTCHA answer."
	MsgIncorrectAnswer = "Incorrect CAPTCHA, try again."
)

// ChallengeSource produces fresh challenges.
type ChallengeSource interface {
	Generate() string
}

// Scheduler runs fn once after delay. Scheduled callbacks are never cancelled
// and must run on the same goroutine that drives the Session.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// Journal records attempts.
type Journal interface {
	InsertAttempt(ctx context.Context, a model.Attempt) (int64, error)
}

// Option configures a Session.
type Option func(*Session)

// WithCelebration overrides the celebration duration.
func WithCelebration(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.celebrateFor = d
		}
	}
}

// WithJournal records every submit and skip under runID.
func WithJournal(j Journal, runID string) Option {
	return func(s *Session) {
		s.journal = j
		s.runID = runID
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for journal entries.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// Session is the mutable game record. It is not safe for concurrent use.
type Session struct {
	gen     ChallengeSource
	persist progress.Adapter
	sched   Scheduler
	journal Journal
	logger  *zap.Logger
	now     func() time.Time

	runID        string
	celebrateFor time.Duration

	challenge    string
	pendingInput string
	score        int
	streak       int
	lastError    string
	celebrating  bool
}

// New hydrates a Session from persist and generates the first challenge.
func New(gen ChallengeSource, persist progress.Adapter, sched Scheduler, opts ...Option) *Session {
	s := &Session{
		gen:          gen,
		persist:      persist,
		sched:        sched,
		logger:       zap.NewNop(),
		now:          time.Now,
		celebrateFor: DefaultCelebration,
	}
	for _, opt := range opts {
		opt(s)
	}
	saved := s.persist.Load()
	if saved.HasScore {
		s.score = saved.Score
	}
	if saved.HasStreak {
		s.streak = saved.Streak
	}
	s.challenge = s.gen.Generate()
	s.logger.Debug("session hydrated",
		zap.Int("score", s.score),
		zap.Int("streak", s.streak),
		zap.String("run_id", s.runID))
	return s
}

// UpdateInput replaces the pending input.
func (s *Session) UpdateInput(text string) {
	s.pendingInput = text
}

// Submit checks raw against the current challenge.
func (s *Session) Submit(raw string) model.Outcome {
	s.lastError = ""
	if raw == "" {
		s.lastError = MsgEmptyAnswer
		return model.OutcomeEmpty
	}

	challenge := s.challenge
	var outcome model.Outcome
	if raw == challenge {
		outcome = model.OutcomeCorrect
		s.score += RewardPoints
		s.streak++
		s.celebrate()
	} else {
		outcome = model.OutcomeIncorrect
		s.lastError = MsgIncorrectAnswer
		s.streak = 0
	}

	s.logger.Debug("captcha submitted",
		zap.String("answer", raw),
		zap.String("challenge", challenge),
		zap.String("outcome", string(outcome)))
	s.next()
	s.persist.Save(s.score, s.streak)
	s.record(challenge, raw, outcome)
	return outcome
}

// Skip discards the current challenge and resets the streak.
func (s *Session) Skip() {
	challenge := s.challenge
	answer := s.pendingInput
	s.next()
	s.streak = 0
	s.persist.Save(s.score, s.streak)
	s.record(challenge, answer, model.OutcomeSkipped)
}

// Snapshot returns the presentation view of the session.
func (s *Session) Snapshot() model.State {
	return model.State{
		Challenge:    s.challenge,
		PendingInput: s.pendingInput,
		Score:        s.score,
		Streak:       s.streak,
		LastError:    s.lastError,
		Celebrating:  s.celebrating,
	}
}

// Challenge returns the current challenge.
func (s *Session) Challenge() string { return s.challenge }

// PendingInput returns the pending input.
func (s *Session) PendingInput() string { return s.pendingInput }

// Score returns the cumulative score.
func (s *Session) Score() int { return s.score }

// Streak returns the current streak.
func (s *Session) Streak() int { return s.streak }

// LastError returns the feedback message, if any.
func (s *Session) LastError() string { return s.lastError }

// Celebrating reports whether a celebration is showing.
func (s *Session) Celebrating() bool { return s.celebrating }

func (s *Session) next() {
	s.challenge = s.gen.Generate()
	s.pendingInput = ""
}

func (s *Session) celebrate() {
	s.celebrating = true
	s.sched.Schedule(s.celebrateFor, func() {
		s.celebrating = false
	})
}

func (s *Session) record(challenge, answer string, outcome model.Outcome) {
	if s.journal == nil {
		return
	}
	attempt := model.Attempt{
		RunID:     s.runID,
		At:        s.now(),
		Challenge: challenge,
		Answer:    answer,
		Outcome:   outcome,
		Score:     s.score,
		Streak:    s.streak,
	}
	if _, err := s.journal.InsertAttempt(context.Background(), attempt); err != nil {
		s.logger.Warn("failed to record attempt", zap.Error(err))
	}
}
