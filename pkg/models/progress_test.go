package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressRecordStreaks(t *testing.T) {
	var p Progress
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var streaks []int
	for _, correct := range []bool{true, true, true, false} {
		p.Record(correct, now)
		streaks = append(streaks, p.CurrentStreak)
		assert.GreaterOrEqual(t, p.BestStreak, p.CurrentStreak)
	}

	assert.Equal(t, []int{1, 2, 3, 0}, streaks)
	assert.Equal(t, 3, p.BestStreak)
	assert.Equal(t, 3, p.Correct)
	assert.Equal(t, 1, p.Wrong)
	assert.Equal(t, now, p.LastActivity)
}

func TestSplitForms(t *testing.T) {
	assert.Equal(t, []string{"was", "were"}, SplitForms("was / were"))
	assert.Equal(t, []string{"got"}, SplitForms("got/"))
	assert.Nil(t, SplitForms(" "))
}

func TestClampTier(t *testing.T) {
	assert.Equal(t, 1, ClampTier(0))
	assert.Equal(t, 2, ClampTier(2))
	assert.Equal(t, 3, ClampTier(7))
}

func TestProgressTouchKeepsCounters(t *testing.T) {
	now := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)
	p := Progress{Correct: 2, Wrong: 1, CurrentStreak: 1, BestStreak: 2}

	p.Touch(now)

	assert.Equal(t, Progress{Correct: 2, Wrong: 1, CurrentStreak: 1, BestStreak: 2, LastActivity: now}, p)
}
