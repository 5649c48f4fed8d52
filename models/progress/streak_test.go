package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreakFirstAction(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	p.updateStreak(testStart)

	assert.Equal(t, 1, p.Streak.Current)
	assert.Equal(t, 1, p.Streak.Longest)
	assert.Equal(t, startOfDay(testStart), *p.Streak.LastStudyDate)
}

func TestStreakSameDayIsNoOp(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	p.updateStreak(testStart)
	p.updateStreak(testStart.Add(5 * time.Hour))

	assert.Equal(t, 1, p.Streak.Current)
	assert.Equal(t, 1, p.Streak.Longest)
}

func TestStreakConsecutiveDays(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	for day := 0; day < 5; day++ {
		p.updateStreak(testStart.AddDate(0, 0, day))
	}

	assert.Equal(t, 5, p.Streak.Current)
	assert.Equal(t, 5, p.Streak.Longest)
}

func TestStreakResetsAfterGap(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	p.updateStreak(testStart)
	p.updateStreak(testStart.AddDate(0, 0, 1))
	p.updateStreak(testStart.AddDate(0, 0, 2))
	assert.Equal(t, 3, p.Streak.Current)

	p.updateStreak(testStart.AddDate(0, 0, 5))

	assert.Equal(t, 1, p.Streak.Current)
	assert.Equal(t, 3, p.Streak.Longest)
}

func TestStreakIgnoresBackdatedAction(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	p.updateStreak(testStart)
	p.updateStreak(testStart.AddDate(0, 0, 1))
	before := p.Streak

	// Clock skew: an action dated before the last study day changes nothing
	p.updateStreak(testStart.AddDate(0, 0, -3))

	assert.Equal(t, before.Current, p.Streak.Current)
	assert.Equal(t, before.Longest, p.Streak.Longest)
	assert.Equal(t, *before.LastStudyDate, *p.Streak.LastStudyDate)
}

func TestStreakComparesCalendarDaysInUTC(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	// 23:30 UTC and 00:30 UTC the next day are consecutive calendar days
	// even though only an hour apart.
	p.updateStreak(time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))
	p.updateStreak(time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC))

	assert.Equal(t, 2, p.Streak.Current)
}

func TestStreakRebuildCanPassOldLongest(t *testing.T) {
	p := NewProgress(1, 1, testStart)

	p.updateStreak(testStart)
	p.updateStreak(testStart.AddDate(0, 0, 1))

	// Gap, then a longer run
	base := testStart.AddDate(0, 0, 10)
	for day := 0; day < 4; day++ {
		p.updateStreak(base.AddDate(0, 0, day))
	}

	assert.Equal(t, 4, p.Streak.Current)
	assert.Equal(t, 4, p.Streak.Longest)
}

func TestWatchTimeAdvancesStreakAcrossDays(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 60, 600))
	clock.Advance(24 * time.Hour)
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 120, 600))

	assert.Equal(t, 2, p.Streak.Current)
	assert.Equal(t, 2, p.Streak.Longest)
}
