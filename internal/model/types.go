// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	CelebrateFor  time.Duration
	PersistResets bool
	Ephemeral     bool
	DBPath        string
	LogLevel      string
	LogPath       string
}

// StatsConfig defines filters for the attempts report.
type StatsConfig struct {
	Since *time.Time
	Last  int
}

// Progress is the durable snapshot of score and streak.
// A field is only meaningful when its Has flag is set.
type Progress struct {
	Score     int
	HasScore  bool
	Streak    int
	HasStreak bool
}

// Outcome classifies a submit or skip.
type Outcome string

// Possible outcomes.
const (
	OutcomeEmpty     Outcome = "empty"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkipped   Outcome = "skipped"
)

// State is a read-only view of a session for presentation.
type State struct {
	Challenge    string
	PendingInput string
	Score        int
	Streak       int
	LastError    string
	Celebrating  bool
}

// Attempt records one submit or skip.
type Attempt struct {
	ID        int64
	RunID     string
	At        time.Time
	Challenge string
	Answer    string
	Outcome   Outcome
	Score     int
	Streak    int
}
