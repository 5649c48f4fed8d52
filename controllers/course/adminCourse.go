package courseController

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"lms/utils"
	courseValidator "lms/validators/course"
)

// CreateCourse creates a new course (admin only)
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Author:       reqData.Author,
		ThumbnailURL: reqData.ThumbnailURL,
		IsPublished:  reqData.IsPublished,
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// CreateLesson adds a lesson to a course (admin only). When no duration is
// supplied the video catalog is asked for one, and the course total duration
// is kept in sync.
func CreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.CreateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	duration := reqData.DurationSeconds
	if duration == 0 {
		duration = utils.FetchVideoDuration(reqData.VideoURL)
	}

	lesson := courseModels.Lesson{
		CourseID:        courseID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		VideoURL:        reqData.VideoURL,
		DurationSeconds: duration,
		OrderIndex:      reqData.OrderIndex,
	}

	if err := db.Create(&lesson).Error; err != nil {
		log.Printf("Error creating lesson: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	course.TotalDurationSeconds += duration
	if err := db.Save(&course).Error; err != nil {
		log.Printf("Error updating course duration: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// CreateQuizQuestion adds a question with options to a lesson (admin only)
func CreateQuizQuestion(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)
	reqData, ok := c.Locals("validatedQuestion").(*courseValidator.CreateQuizQuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = false", lessonID).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	question := courseModels.QuizQuestion{
		LessonID:    lessonID,
		Question:    reqData.Question,
		Explanation: reqData.Explanation,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := db.Create(&question).Error; err != nil {
		log.Printf("Error creating quiz question: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	for i, opt := range reqData.Options {
		option := courseModels.QuizOption{
			QuestionID: question.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
			OrderIndex: i,
		}
		if err := db.Create(&option).Error; err != nil {
			log.Printf("Error creating quiz option: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question options!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz question created successfully!", question)
}

// AdminStats returns platform-wide numbers for the admin dashboard
func AdminStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalCourses, totalEnrollments, totalCompleted int64
	if err := db.Model(&courseModels.Course{}).Where("is_deleted = false").Count(&totalCourses).Error; err != nil {
		log.Printf("Error counting courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}
	if err := db.Model(&progressModels.Progress{}).Where("is_deleted = false").Count(&totalEnrollments).Error; err != nil {
		log.Printf("Error counting enrollments: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}
	if err := db.Model(&progressModels.Progress{}).Where("is_completed = true AND is_deleted = false").Count(&totalCompleted).Error; err != nil {
		log.Printf("Error counting completions: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", fiber.Map{
		"total_courses":     totalCourses,
		"total_enrollments": totalEnrollments,
		"total_completed":   totalCompleted,
	})
}

// AdminCourseAnalytics returns the rollup snapshot for one course, rebuilt
// hourly by the stats scheduler.
func AdminCourseAnalytics(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var stats courseModels.CourseStats
	if err := db.Where("course_id = ?", courseID).First(&stats).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No stats computed yet for this course!", fiber.Map{
			"course": course,
			"stats":  nil,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course analytics fetched successfully!", fiber.Map{
		"course": course,
		"stats":  stats,
	})
}
