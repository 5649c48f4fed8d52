package progressController

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	progressValidator "lms/validators/progress"
)

// StartStudySession opens a study session for a course
func StartStudySession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	session, err := tracker.StartStudySession(record)
	if err != nil {
		return mutationError(c, err)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Study session started!", session)
}

// EndStudySession closes the open study session for a course
func EndStudySession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)
	reqData, ok := c.Locals("validatedSession").(*progressValidator.EndSessionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	record, err := loadProgress(db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress record not found!", nil)
	}

	session, err := tracker.EndStudySession(record, reqData.LessonsStudied, reqData.ActivitiesCompleted)
	if err != nil {
		return mutationError(c, err)
	}

	if err := saveProgress(db, record); err != nil {
		log.Printf("Error saving progress: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to end session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Study session ended!", fiber.Map{
		"session":            session,
		"study_time_minutes": record.StudyTimeMinutes,
		"streak":             record.Streak,
	})
}
