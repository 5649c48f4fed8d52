package utils

import (
	"log"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[STATS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// rebuildCourseStats recomputes the per-course rollup snapshots from the
// progress records. The snapshots feed the admin dashboard only, the progress
// engine never reads them.
func rebuildCourseStats() {
	db := database.Database.Db
	now := time.Now()

	var courses []courseModels.Course
	if err := db.Where("is_deleted = false").Find(&courses).Error; err != nil {
		logScheduler("Error fetching courses: " + err.Error())
		return
	}

	for _, c := range courses {
		var agg struct {
			TotalEnrollments      int64
			CompletedCount        int64
			AvgCompletion         float64
			AvgQuizScore          float64
			TotalStudyTimeMinutes int64
		}
		err := db.Model(&progressModels.Progress{}).
			Select(`COUNT(*) AS total_enrollments,
				COUNT(*) FILTER (WHERE is_completed) AS completed_count,
				COALESCE(AVG(completion_percentage), 0) AS avg_completion,
				COALESCE(AVG(overall_quiz_score), 0) AS avg_quiz_score,
				COALESCE(SUM(study_time_minutes), 0) AS total_study_time_minutes`).
			Where("course_id = ? AND is_deleted = false", c.ID).
			Scan(&agg).Error
		if err != nil {
			logScheduler("Error aggregating course " + c.Title + ": " + err.Error())
			continue
		}

		stats := courseModels.CourseStats{
			CourseID:                c.ID,
			TotalEnrollments:        agg.TotalEnrollments,
			CompletedCount:          agg.CompletedCount,
			AvgCompletionPercentage: agg.AvgCompletion,
			AvgQuizScore:            agg.AvgQuizScore,
			TotalStudyTimeMinutes:   agg.TotalStudyTimeMinutes,
			ComputedAt:              now,
		}

		var existing courseModels.CourseStats
		if err := db.Where("course_id = ?", c.ID).First(&existing).Error; err == nil {
			stats.ID = existing.ID
			stats.CreatedAt = existing.CreatedAt
		}
		if err := db.Save(&stats).Error; err != nil {
			logScheduler("Error saving stats for course " + c.Title + ": " + err.Error())
		}
	}

	logScheduler("Course stats rebuilt")
}

// sendInactivityReminders emails users with an active streak who have not
// studied yet today. Runs once per evening so the nudge lands before the
// streak lapses at midnight UTC.
func sendInactivityReminders() {
	db := database.Database.Db
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var records []progressModels.Progress
	err := db.Where("streak_current > 0 AND streak_last_study_date < ? AND is_completed = false AND is_deleted = false", today).
		Find(&records).Error
	if err != nil {
		logScheduler("Error fetching inactive progress records: " + err.Error())
		return
	}

	sent := 0
	for _, p := range records {
		var user models.User
		if err := db.Select("name, email").First(&user, p.UserID).Error; err != nil || user.Email == "" {
			continue
		}
		var course courseModels.Course
		if err := db.Select("title, total_duration_seconds").First(&course, p.CourseID).Error; err != nil {
			continue
		}

		SendInactivityReminderEmail(user.Name, user.Email, course.Title, p.Streak.Current)
		logScheduler("Reminder queued for user " + user.Email + " on course " + course.Title +
			" (" + formatDuration(course.TotalDurationSeconds) + " total)")
		sent++
	}

	logScheduler("Inactivity reminders queued: " + strconv.Itoa(sent))
}

// StartStatsScheduler wires the recurring jobs: hourly stats rollups and a
// daily inactivity reminder sweep at 18:00 UTC.
func StartStatsScheduler() {
	c := cron.New()

	c.AddFunc("0 * * * *", func() {
		rebuildCourseStats()
	})

	c.AddFunc("0 18 * * *", func() {
		sendInactivityReminders()
	})

	c.Start()
	logScheduler("Stats scheduler started")
}
