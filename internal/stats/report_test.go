package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuicaptcha/internal/model"
	"github.com/verte-zerg/tuicaptcha/internal/progress"
	"github.com/verte-zerg/tuicaptcha/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "tuicaptcha.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	adapter := progress.NewKVAdapter(st)
	adapter.Save(20, 2)

	steps := []struct {
		outcome model.Outcome
		score   int
		streak  int
	}{
		{model.OutcomeCorrect, 10, 1},
		{model.OutcomeCorrect, 20, 2},
		{model.OutcomeIncorrect, 20, 0},
		{model.OutcomeSkipped, 20, 0},
	}
	base := time.Unix(0, 0)
	for i, step := range steps {
		_, err := st.InsertAttempt(ctx, model.Attempt{
			RunID:     "run",
			At:        base.Add(time.Duration(i) * time.Minute),
			Challenge: "Abc123",
			Answer:    "Abc123",
			Outcome:   step.outcome,
			Score:     step.score,
			Streak:    step.streak,
		})
		require.NoError(t, err)
	}

	report, err := BuildReport(ctx, st, adapter, model.StatsConfig{Last: 3})
	require.NoError(t, err)
	assert.Len(t, report.Attempts, 3)
	assert.Equal(t, 20, report.Progress.Score)
	assert.Equal(t, 2, report.Progress.Streak)
	assert.Equal(t, Totals{Attempts: 3, Correct: 1, Incorrect: 1, Skipped: 1, BestStreak: 2, Earned: 10}, report.Totals)
	assert.InDelta(t, 0.5, report.Totals.Accuracy(), 1e-9)
}

func TestSummarizeIgnoresUnknownOutcomes(t *testing.T) {
	totals := Summarize([]model.Attempt{
		{Outcome: model.OutcomeEmpty, Streak: 9},
		{Outcome: model.OutcomeCorrect, Streak: 1},
	})
	assert.Equal(t, Totals{Attempts: 1, Correct: 1, BestStreak: 1, Earned: 10}, totals)
	assert.Zero(t, Totals{}.Accuracy())
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁▁", Sparkline([]int{0, 0}))
	assert.Equal(t, "▁▄█", Sparkline([]int{0, 1, 2}))
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Report{}))
	out := buf.String()
	assert.Contains(t, out, "Coins:  0 (not stored)")
	assert.Contains(t, out, "No attempts recorded yet.")
}

func TestRenderReport(t *testing.T) {
	attempts := []model.Attempt{
		{At: time.Unix(0, 0), Challenge: "Abc123", Answer: "Abc123", Outcome: model.OutcomeCorrect, Score: 10, Streak: 1},
		{At: time.Unix(60, 0), Challenge: "Xyz789q", Answer: "xyz789q", Outcome: model.OutcomeIncorrect, Score: 10, Streak: 0},
	}
	report := Report{
		Progress: model.Progress{Score: 10, HasScore: true, Streak: 1, HasStreak: true},
		Attempts: attempts,
		Totals:   Summarize(attempts),
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	out := buf.String()
	for _, want := range []string{"Coins:  10", "Streak: 1", "Accuracy:    50.0%", "Best streak: 1", "Earned:      10 coins", "Xyz789q", "incorrect"} {
		assert.Truef(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}
