package courseController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"lms/utils"
)

// GetAllCourses lists published courses with pagination
func GetAllCourses(c *fiber.Ctx) error {
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)

	db := database.Database.Db

	var total int64
	if err := db.Model(&courseModels.Course{}).
		Where("is_published = true AND is_deleted = false").
		Count(&total).Error; err != nil {
		log.Printf("Error counting courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	var courses []courseModels.Course
	if err := db.Where("is_published = true AND is_deleted = false").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"page":    page,
		"limit":   limit,
		"total":   total,
	})
}

// GetCourseDetails returns one course with its lessons and whether the
// requesting user is enrolled.
func GetCourseDetails(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = true AND is_deleted = false", courseID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ? AND is_deleted = false", courseID).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		log.Printf("Error fetching lessons: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	isEnrolled := false
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&progressModels.Progress{}).Error; err == nil {
		isEnrolled = true
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":      course,
		"lessons":     lessons,
		"is_enrolled": isEnrolled,
	})
}

// EnrollInCourse creates the progress record for a (user, course) pair
func EnrollInCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_published = true AND is_deleted = false", courseID).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One progress record per user per course
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&progressModels.Progress{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	record := progressModels.NewProgress(userID, courseID, time.Now())
	if err := db.Create(record).Error; err != nil {
		log.Printf("Error creating progress record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	var user models.User
	if err := db.Select("name, email").First(&user, userID).Error; err == nil && user.Email != "" {
		utils.SendEnrollmentEmail(user.Name, user.Email, course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", record)
}

// GetLessonContent returns a lesson with its quiz questions. Correct answer
// flags are stripped so clients cannot grade locally.
func GetLessonContent(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	db := database.Database.Db

	// Enrollment required to view lesson content
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&progressModels.Progress{}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in the course to view lessons!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = false", lessonID, courseID).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := db.Where("lesson_id = ? AND is_deleted = false", lessonID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		log.Printf("Error fetching quiz questions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson!", nil)
	}

	type optionView struct {
		ID         uint   `json:"id"`
		OptionText string `json:"option_text"`
		OrderIndex int    `json:"order_index"`
	}
	type questionView struct {
		ID         uint         `json:"id"`
		Question   string       `json:"question"`
		OrderIndex int          `json:"order_index"`
		Options    []optionView `json:"options"`
	}

	quiz := make([]questionView, 0, len(questions))
	for _, q := range questions {
		var options []courseModels.QuizOption
		if err := db.Where("question_id = ? AND is_deleted = false", q.ID).
			Order("order_index ASC").
			Find(&options).Error; err != nil {
			log.Printf("Error fetching quiz options: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lesson!", nil)
		}

		qv := questionView{ID: q.ID, Question: q.Question, OrderIndex: q.OrderIndex}
		for _, opt := range options {
			qv.Options = append(qv.Options, optionView{
				ID:         opt.ID,
				OptionText: opt.OptionText,
				OrderIndex: opt.OrderIndex,
			})
		}
		quiz = append(quiz, qv)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", fiber.Map{
		"lesson": lesson,
		"quiz":   quiz,
	})
}

// RateCourse records the user's rating on their progress record and folds it
// into the course mean.
func RateCourse(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedRating").(*struct {
		Score  int    `json:"score"`
		Review string `json:"review"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var record progressModels.Progress
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Enroll in the course before rating it!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	now := time.Now()
	firstRating := record.Rating.Score == nil
	previousScore := 0
	if !firstRating {
		previousScore = *record.Rating.Score
	}

	score := reqData.Score
	record.Rating.Score = &score
	record.Rating.Review = reqData.Review
	record.Rating.RatedAt = &now

	if err := db.Save(&record).Error; err != nil {
		log.Printf("Error saving rating: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
	}

	// Fold into the course mean: add for a first rating, replace otherwise
	total := course.Rating * float64(course.RatingCount)
	if firstRating {
		course.RatingCount++
		total += float64(score)
	} else {
		total += float64(score - previousScore)
	}
	if course.RatingCount > 0 {
		course.Rating = total / float64(course.RatingCount)
	}
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error updating course rating: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating saved!", record.Rating)
}

// UpdatePreferences updates the per-course player preferences
func UpdatePreferences(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedPreferences").(*struct {
		PlaybackSpeed float64 `json:"playback_speed"`
		Autoplay      *bool   `json:"autoplay"`
		Subtitles     *bool   `json:"subtitles"`
		Language      string  `json:"language"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var record progressModels.Progress
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&record).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	// Only overwrite fields the client sent
	if reqData.PlaybackSpeed != 0 {
		record.Preferences.PlaybackSpeed = reqData.PlaybackSpeed
	}
	if reqData.Autoplay != nil {
		record.Preferences.Autoplay = *reqData.Autoplay
	}
	if reqData.Subtitles != nil {
		record.Preferences.Subtitles = *reqData.Subtitles
	}
	if reqData.Language != "" {
		record.Preferences.Language = reqData.Language
	}

	if err := db.Save(&record).Error; err != nil {
		log.Printf("Error saving preferences: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save preferences!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Preferences updated!", record.Preferences)
}

// GetUserEnrollmentsList returns all of the user's enrollments with their
// course summaries.
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var records []progressModels.Progress
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("last_accessed_at DESC").
		Find(&records).Error; err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentView struct {
		Course   courseModels.Course     `json:"course"`
		Progress progressModels.Progress `json:"progress"`
	}

	enrollments := make([]enrollmentView, 0, len(records))
	for _, record := range records {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = false", record.CourseID).First(&course).Error; err != nil {
			continue
		}
		enrollments = append(enrollments, enrollmentView{Course: course, Progress: record})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// GetUserCertificates returns the user's earned certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var certificates []courseModels.Certificate
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("issued_at DESC").
		Find(&certificates).Error; err != nil {
		log.Printf("Error fetching certificates: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// GetUserAnalytics aggregates the user's learning activity across courses
func GetUserAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var records []progressModels.Progress
	if err := db.Preload("Achievements").
		Where("user_id = ? AND is_deleted = false", userID).
		Find(&records).Error; err != nil {
		log.Printf("Error fetching progress records: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics!", nil)
	}

	totalStudyMinutes := 0
	completedCourses := 0
	totalAchievements := 0
	longestStreak := 0
	currentStreak := 0
	quizScoreSum := 0
	quizScoreCount := 0

	for _, record := range records {
		totalStudyMinutes += record.StudyTimeMinutes
		totalAchievements += len(record.Achievements)
		if record.IsCompleted {
			completedCourses++
		}
		if record.Streak.Longest > longestStreak {
			longestStreak = record.Streak.Longest
		}
		if record.Streak.Current > currentStreak {
			currentStreak = record.Streak.Current
		}
		if record.OverallQuizScore > 0 {
			quizScoreSum += record.OverallQuizScore
			quizScoreCount++
		}
	}

	avgQuizScore := 0
	if quizScoreCount > 0 {
		avgQuizScore = quizScoreSum / quizScoreCount
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"enrolled_courses":    len(records),
		"completed_courses":   completedCourses,
		"total_study_minutes": totalStudyMinutes,
		"total_achievements":  totalAchievements,
		"longest_streak":      longestStreak,
		"current_streak":      currentStreak,
		"avg_quiz_score":      avgQuizScore,
	})
}
