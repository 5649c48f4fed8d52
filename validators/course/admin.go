package courseValidator

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

var validate = validator.New()

// validationErrors converts validator/v10 field errors into the shared
// field -> message map shape.
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errors[field] = field + " is required!"
		case "min":
			errors[field] = field + " must be at least " + fe.Param() + "!"
		case "max":
			errors[field] = field + " must not exceed " + fe.Param() + "!"
		case "gte":
			errors[field] = field + " must be at least " + fe.Param() + "!"
		case "lte":
			errors[field] = field + " must not exceed " + fe.Param() + "!"
		case "url":
			errors[field] = field + " must be a valid URL!"
		default:
			errors[field] = field + " is invalid!"
		}
	}
	return errors
}

// CreateCourseRequest is the admin course creation body
type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	Author       string `json:"author" validate:"required,min=2,max=100"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	IsPublished  bool   `json:"is_published"`
}

// CreateCourse validates the admin course creation body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Author = strings.TrimSpace(reqData.Author)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCourse", reqData)

		return c.Next()
	}
}

// CreateLessonRequest is the admin lesson creation body. Duration may be
// omitted, the controller then resolves it from the video catalog.
type CreateLessonRequest struct {
	Title           string `json:"title" validate:"required,min=3,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	VideoURL        string `json:"video_url" validate:"required,url"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	OrderIndex      int    `json:"order_index" validate:"gte=0"`
}

// CreateLesson validates the admin lesson creation body
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(CreateLessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedLesson", reqData)

		return c.Next()
	}
}

// QuizOptionRequest is one answer option in a question creation body
type QuizOptionRequest struct {
	OptionText string `json:"option_text" validate:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
}

// CreateQuizQuestionRequest is the admin quiz question creation body
type CreateQuizQuestionRequest struct {
	Question    string              `json:"question" validate:"required,min=3,max=2000"`
	Explanation string              `json:"explanation" validate:"max=2000"`
	OrderIndex  int                 `json:"order_index" validate:"gte=0"`
	Options     []QuizOptionRequest `json:"options" validate:"required,min=2,max=10,dive"`
}

// CreateQuizQuestion validates the admin quiz question body. Exactly one
// option must be marked correct.
func CreateQuizQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok := parseIDParam(c, "lesson_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(CreateQuizQuestionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Question = strings.TrimSpace(reqData.Question)

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		correct := 0
		for _, opt := range reqData.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"options": "Exactly one option must be marked correct!",
			})
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedQuestion", reqData)

		return c.Next()
	}
}
