package stats

import (
	"context"

	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/progress"
	"github.com/verte-zerg/tuicaptcha/internal/session"
)

// AttemptLister reads the attempts journal.
type AttemptLister interface {
	ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.Attempt, error)
}

// Totals summarizes a set of attempts.
type Totals struct {
	Attempts   int
	Correct    int
	Incorrect  int
	Skipped    int
	BestStreak int
	Earned     int
}

// Accuracy is correct answers over submitted answers. Skips are excluded.
func (t Totals) Accuracy() float64 {
	submitted := t.Correct + t.Incorrect
	if submitted == 0 {
		return 0
	}
	return float64(t.Correct) / float64(submitted)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Progress model.Progress
	Attempts []model.Attempt
	Totals   Totals
}

// BuildReport loads the persisted progress and the attempts matching cfg.
func BuildReport(ctx context.Context, attempts AttemptLister, persist progress.Adapter, cfg model.StatsConfig) (Report, error) {
	list, err := attempts.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Progress: persist.Load(),
		Attempts: list,
		Totals:   Summarize(list),
	}, nil
}

// Summarize computes totals over attempts in chronological order.
func Summarize(attempts []model.Attempt) Totals {
	var t Totals
	for _, a := range attempts {
		switch a.Outcome {
		case model.OutcomeCorrect:
			t.Correct++
			t.Earned += session.RewardPoints
		case model.OutcomeIncorrect:
			t.Incorrect++
		case model.OutcomeSkipped:
			t.Skipped++
		default:
			continue
		}
		t.Attempts++
		if a.Streak > t.BestStreak {
			t.BestStreak = a.Streak
		}
	}
	return t
}
