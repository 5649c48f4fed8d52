package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstLessonAchievement(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 60, 600))
	assert.False(t, p.HasAchievement(AchievementFirstLesson))

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 600))
	assert.True(t, p.HasAchievement(AchievementFirstLesson))
}

func TestHalfCompleteAchievement(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 1, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 3, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.Equal(t, 33, p.CompletionPercentage)
	assert.False(t, p.HasAchievement(AchievementHalfComplete))

	assert.NoError(t, tracker.RecordWatchTime(p, 2, 600, 600))
	assert.Equal(t, 67, p.CompletionPercentage)
	assert.True(t, p.HasAchievement(AchievementHalfComplete))
}

func TestCourseCompleteAchievement(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 1, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.False(t, p.HasAchievement(AchievementCourseComplete))

	assert.NoError(t, tracker.RecordWatchTime(p, 2, 600, 600))
	assert.True(t, p.HasAchievement(AchievementCourseComplete))
	assert.True(t, p.IsCompleted)
}

func TestPerfectQuizAchievement(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 95, TotalQuestions: 20, CorrectAnswers: 19,
	})
	assert.NoError(t, err)
	assert.False(t, p.HasAchievement(AchievementPerfectQuiz))

	_, err = tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 100, TotalQuestions: 20, CorrectAnswers: 20,
	})
	assert.NoError(t, err)
	assert.True(t, p.HasAchievement(AchievementPerfectQuiz))
}

func TestAchievementsAreEarnedOnce(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	for i := 0; i < 2; i++ {
		_, err := tracker.RecordQuizAttempt(p, QuizSubmission{
			LessonID: 10, Score: 100, TotalQuestions: 5, CorrectAnswers: 5,
		})
		assert.NoError(t, err)
	}
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 600))

	counts := map[string]int{}
	for _, a := range p.Achievements {
		counts[a.Type]++
	}
	for kind, n := range counts {
		assert.Equal(t, 1, n, "achievement %s earned %d times", kind, n)
	}
	assert.Equal(t, 1, counts[AchievementPerfectQuiz])
	assert.Equal(t, 1, counts[AchievementCourseComplete])
}

func TestSpeedLearnerAchievement(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	// Completing a lesson with no session open does not unlock it
	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.False(t, p.HasAchievement(AchievementSpeedLearner))

	clock.Advance(time.Hour)
	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)
	assert.False(t, p.HasAchievement(AchievementSpeedLearner))
	clock.Advance(10 * time.Minute)
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 600, 600))

	assert.True(t, p.HasAchievement(AchievementSpeedLearner))
}

func TestConsistentLearnerAchievement(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	for day := 0; day < ConsistentLearnerStreakDays; day++ {
		assert.NoError(t, tracker.RecordWatchTime(p, 10, 60+day, 600))
		if day < ConsistentLearnerStreakDays-1 {
			assert.False(t, p.HasAchievement(AchievementConsistentLearner))
			clock.Advance(24 * time.Hour)
		}
	}

	assert.Equal(t, ConsistentLearnerStreakDays, p.Streak.Current)
	assert.True(t, p.HasAchievement(AchievementConsistentLearner))
}

func TestAchievementTimestamps(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	clock.Advance(3 * time.Hour)
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 600))

	for _, a := range p.Achievements {
		assert.Equal(t, clock.Now(), a.EarnedAt)
	}
}
