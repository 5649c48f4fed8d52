package progress

import "time"

// Achievement types
const (
	AchievementFirstLesson       = "first_lesson"
	AchievementHalfComplete      = "half_complete"
	AchievementCourseComplete    = "course_complete"
	AchievementPerfectQuiz       = "perfect_quiz"
	AchievementSpeedLearner      = "speed_learner"
	AchievementConsistentLearner = "consistent_learner"
)

// ConsistentLearnerStreakDays is the streak length that unlocks consistent_learner
const ConsistentLearnerStreakDays = 7

// evaluateAchievements checks every unlock condition against the current
// snapshot and appends the achievements not yet earned. Returns the newly
// earned types in evaluation order.
func (p *Progress) evaluateAchievements(now time.Time) []string {
	var earned []string

	award := func(kind string, condition bool) {
		if !condition || p.HasAchievement(kind) {
			return
		}
		p.Achievements = append(p.Achievements, Achievement{
			Type:     kind,
			EarnedAt: now,
		})
		earned = append(earned, kind)
	}

	award(AchievementFirstLesson, p.completedLessonCount() >= 1)
	award(AchievementHalfComplete, p.CompletionPercentage >= 50)
	award(AchievementCourseComplete, p.CompletionPercentage == 100)
	award(AchievementPerfectQuiz, p.hasPerfectQuiz())
	award(AchievementSpeedLearner, p.lessonCompletedInOpenSession())
	award(AchievementConsistentLearner, p.Streak.Current >= ConsistentLearnerStreakDays)

	return earned
}
