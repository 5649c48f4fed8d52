package progressController

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"lms/utils"
	progressValidator "lms/validators/progress"
)

// tracker applies all progress mutations on the system clock
var tracker = progressModels.NewTracker()

// loadProgress fetches the full aggregate for a (user, course) pair
func loadProgress(db *gorm.DB, userID, courseID uint) (*progressModels.Progress, error) {
	var record progressModels.Progress
	err := db.Preload("Lessons").
		Preload("Lessons.Bookmarks").
		Preload("Lessons.Notes").
		Preload("Lessons.QuizAttempts").
		Preload("Achievements").
		Preload("StudySessions").
		Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// saveProgress persists the aggregate including all nested rows
func saveProgress(db *gorm.DB, record *progressModels.Progress) error {
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(record).Error
}

// issueCertificate issues a certificate once when a course flips to
// completed, and emails the user.
func issueCertificate(db *gorm.DB, record *progressModels.Progress) {
	if !record.IsCompleted || record.CertificateIssued {
		return
	}

	record.CertificateIssued = true
	record.CertificateNumber = uuid.NewString()

	certificate := courseModels.Certificate{
		UserID:            record.UserID,
		CourseID:          record.CourseID,
		CertificateNumber: record.CertificateNumber,
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("Error creating certificate: %v", err)
		record.CertificateIssued = false
		record.CertificateNumber = ""
		return
	}

	var user models.User
	var course courseModels.Course
	if err := db.Select("name, email").First(&user, record.UserID).Error; err == nil && user.Email != "" {
		if err := db.Select("title").First(&course, record.CourseID).Error; err == nil {
			utils.SendCompletionEmail(user.Name, user.Email, course.Title, record.CertificateNumber)
		}
	}
}

// mutationError maps engine errors to HTTP responses
func mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progressModels.ErrInvalidInput):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, progressModels.ErrSessionAlreadyOpen),
		errors.Is(err, progressModels.ErrNoOpenSession):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	default:
		log.Printf("Progress mutation error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
}

// RecordWatchTime merges a watch-time report into the progress record
func RecordWatchTime(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedWatchTime").(*progressValidator.WatchTimeRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = false", lessonID, courseID).
		First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	// Fall back to the cataloged lesson duration when the client omits one
	duration := reqData.TotalDurationSeconds
	if duration == 0 {
		duration = lesson.DurationSeconds
	}

	wasCompleted := record.IsCompleted
	if err := tracker.RecordWatchTime(record, lessonID, reqData.WatchTimeSeconds, duration); err != nil {
		return mutationError(c, err)
	}

	if !wasCompleted && record.IsCompleted {
		issueCertificate(db, record)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Watch time recorded!", fiber.Map{
		"lesson":                record.Lesson(lessonID),
		"completion_percentage": record.CompletionPercentage,
		"is_completed":          record.IsCompleted,
		"streak":                record.Streak,
	})
}

// AddBookmark adds a bookmark to a lesson
func AddBookmark(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedBookmark").(*progressValidator.BookmarkRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	if err := tracker.AddBookmark(record, lessonID, reqData.TimeSeconds, reqData.Note); err != nil {
		return mutationError(c, err)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save bookmark!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bookmark added!", record.Lesson(lessonID).Bookmarks)
}

// AddNote adds a note to a lesson
func AddNote(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedNote").(*progressValidator.NoteRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	if err := tracker.AddNote(record, lessonID, reqData.Content, reqData.TimestampSeconds); err != nil {
		return mutationError(c, err)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save note!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Note added!", record.Lesson(lessonID).Notes)
}

// SubmitQuiz grades a quiz submission against the lesson's question catalog
// and records the attempt.
func SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedQuiz").(*progressValidator.SubmitQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	if err := db.Where("lesson_id = ? AND is_deleted = false", lessonID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No quiz found for this lesson!", nil)
	}

	answerByQuestion := make(map[uint]progressValidator.QuizAnswerRequest, len(reqData.Answers))
	for _, a := range reqData.Answers {
		answerByQuestion[a.QuestionID] = a
	}

	type resultView struct {
		QuestionID     uint   `json:"question_id"`
		SelectedAnswer int    `json:"selected_answer"`
		CorrectAnswer  int    `json:"correct_answer"`
		IsCorrect      bool   `json:"is_correct"`
		Explanation    string `json:"explanation"`
	}

	// Grade: unanswered questions count as wrong
	var graded []progressModels.QuizAnswer
	var results []resultView
	correctCount := 0
	for _, q := range questions {
		var options []courseModels.QuizOption
		if err := db.Where("question_id = ? AND is_deleted = false", q.ID).
			Order("order_index ASC").
			Find(&options).Error; err != nil {
			log.Printf("Error fetching quiz options: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
		}

		correctIndex := -1
		for i, opt := range options {
			if opt.IsCorrect {
				correctIndex = i
				break
			}
		}

		answer, answered := answerByQuestion[q.ID]
		selected := -1
		timeSpent := 0
		if answered {
			selected = answer.SelectedAnswer
			timeSpent = answer.TimeSpentSeconds
		}

		isCorrect := answered && selected == correctIndex
		if isCorrect {
			correctCount++
		}

		graded = append(graded, progressModels.QuizAnswer{
			QuestionID:       q.ID,
			SelectedAnswer:   selected,
			IsCorrect:        isCorrect,
			TimeSpentSeconds: timeSpent,
		})
		results = append(results, resultView{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			CorrectAnswer:  correctIndex,
			IsCorrect:      isCorrect,
			Explanation:    q.Explanation,
		})
	}

	score := int(math.Round(float64(correctCount) / float64(len(questions)) * 100))

	wasCompleted := record.IsCompleted
	attempt, err := tracker.RecordQuizAttempt(record, progressModels.QuizSubmission{
		LessonID:         lessonID,
		Score:            score,
		TotalQuestions:   len(questions),
		CorrectAnswers:   correctCount,
		Answers:          graded,
		TimeSpentSeconds: reqData.TimeSpentSeconds,
	})
	if err != nil {
		return mutationError(c, err)
	}

	if !wasCompleted && record.IsCompleted {
		issueCertificate(db, record)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save quiz attempt!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"score":              attempt.Score,
		"is_passed":          attempt.IsPassed,
		"correct_answers":    attempt.CorrectAnswers,
		"total_questions":    attempt.TotalQuestions,
		"results":            results,
		"overall_quiz_score": record.OverallQuizScore,
	})
}

// GetLessonProgress returns the tracked state of one lesson
func GetLessonProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	lesson, err := record.LessonProgressFor(lessonID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not started yet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress fetched successfully!", lesson)
}

// GetUserProgress returns the full progress aggregate for a course
func GetUserProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", record)
}
