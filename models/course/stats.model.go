package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseStats is a per-course rollup snapshot rebuilt by the stats scheduler.
// It is a read-only reporting view over the per-user progress records and is
// never consulted by the progress engine itself.
type CourseStats struct {
	gorm.Model
	CourseID                uint      `json:"course_id" gorm:"uniqueIndex;not null"`
	TotalEnrollments        int64     `json:"total_enrollments" gorm:"default:0"`
	CompletedCount          int64     `json:"completed_count" gorm:"default:0"`
	AvgCompletionPercentage float64   `json:"avg_completion_percentage" gorm:"default:0"`
	AvgQuizScore            float64   `json:"avg_quiz_score" gorm:"default:0"`
	TotalStudyTimeMinutes   int64     `json:"total_study_time_minutes" gorm:"default:0"`
	ComputedAt              time.Time `json:"computed_at"`
}
