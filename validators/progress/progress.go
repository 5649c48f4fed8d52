package progressValidator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

var validate = validator.New()

func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errors[field] = field + " is required!"
		case "gte":
			errors[field] = field + " must be at least " + fe.Param() + "!"
		case "lte":
			errors[field] = field + " must not exceed " + fe.Param() + "!"
		case "min":
			errors[field] = field + " must have at least " + fe.Param() + " item(s)!"
		case "max":
			errors[field] = field + " must not exceed " + fe.Param() + "!"
		default:
			errors[field] = field + " is invalid!"
		}
	}
	return errors
}

// WatchTimeRequest reports watched seconds for a lesson. Duration is
// optional, the controller falls back to the lesson catalog when omitted.
type WatchTimeRequest struct {
	WatchTimeSeconds     int `json:"watch_time_seconds" validate:"gte=0"`
	TotalDurationSeconds int `json:"total_duration_seconds" validate:"gte=0"`
}

// WatchTime validates a watch-time report
func WatchTime() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(WatchTimeRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedWatchTime", reqData)

		return c.Next()
	}
}

// BookmarkRequest marks a video timestamp with an optional note
type BookmarkRequest struct {
	TimeSeconds int    `json:"time_seconds" validate:"gte=0"`
	Note        string `json:"note" validate:"max=500"`
}

// AddBookmark validates a bookmark submission
func AddBookmark() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(BookmarkRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedBookmark", reqData)

		return c.Next()
	}
}

// NoteRequest attaches a note to a video timestamp
type NoteRequest struct {
	Content          string `json:"content" validate:"required,max=5000"`
	TimestampSeconds int    `json:"timestamp_seconds" validate:"gte=0"`
}

// AddNote validates a lesson note submission
func AddNote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(NoteRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Content = strings.TrimSpace(reqData.Content)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedNote", reqData)

		return c.Next()
	}
}

// QuizAnswerRequest is one answer in a quiz submission
type QuizAnswerRequest struct {
	QuestionID       uint `json:"question_id" validate:"required"`
	SelectedAnswer   int  `json:"selected_answer" validate:"gte=0"`
	TimeSpentSeconds int  `json:"time_spent_seconds" validate:"gte=0"`
}

// SubmitQuizRequest is the raw quiz submission, graded by the controller
// against the lesson's question catalog.
type SubmitQuizRequest struct {
	Answers          []QuizAnswerRequest `json:"answers" validate:"required,min=1,max=100,dive"`
	TimeSpentSeconds int                 `json:"time_spent_seconds" validate:"gte=0"`
}

// SubmitQuiz validates a quiz submission
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(SubmitQuizRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		seen := make(map[uint]bool)
		for _, a := range reqData.Answers {
			if seen[a.QuestionID] {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"answers": "Duplicate answer for the same question!",
				})
			}
			seen[a.QuestionID] = true
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedQuiz", reqData)

		return c.Next()
	}
}

// LessonParams validates the course and lesson ID params
func LessonParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)

		return c.Next()
	}
}

// StartSession validates the course ID for opening a study session
func StartSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		c.Locals("courseID", courseID)

		return c.Next()
	}
}

// EndSessionRequest closes the open study session
type EndSessionRequest struct {
	LessonsStudied      []uint `json:"lessons_studied" validate:"max=200"`
	ActivitiesCompleted int    `json:"activities_completed" validate:"gte=0"`
}

// EndSession validates a session close request
func EndSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(EndSessionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedSession", reqData)

		return c.Next()
	}
}

// GetProgress validates the course ID for fetching a progress record
func GetProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		c.Locals("courseID", courseID)

		return c.Next()
	}
}
