package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// parseIDParam parses a positive uint URL parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CourseList validates pagination query params for the catalog listing
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid page number!", nil)
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 1 || limit > 100 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be between 1 and 100!", nil)
		}

		c.Locals("page", page)
		c.Locals("limit", limit)

		return c.Next()
	}
}

// GetCourseDetail validates the course ID param
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		c.Locals("courseID", courseID)

		return c.Next()
	}
}

// EnrollCourse validates the course ID param for enrollment
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		c.Locals("courseID", courseID)

		return c.Next()
	}
}

// GetLessonContent validates the course and lesson ID params
func GetLessonContent() fiber.Handler {
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

// RateCourse validates a course rating submission
func RateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(struct {
			Score  int    `json:"score"`
			Review string `json:"review"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Review = strings.TrimSpace(reqData.Review)

		if reqData.Score < 1 || reqData.Score > 5 {
			errors["score"] = "Score must be between 1 and 5!"
		}
		if len(reqData.Review) > 2000 {
			errors["review"] = "Review must not exceed 2000 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedRating", reqData)

		return c.Next()
	}
}

// UpdatePreferences validates player preference updates
func UpdatePreferences() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(struct {
			PlaybackSpeed float64 `json:"playback_speed"`
			Autoplay      *bool   `json:"autoplay"`
			Subtitles     *bool   `json:"subtitles"`
			Language      string  `json:"language"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Language = strings.TrimSpace(reqData.Language)

		if reqData.PlaybackSpeed != 0 && (reqData.PlaybackSpeed < 0.5 || reqData.PlaybackSpeed > 2.0) {
			errors["playback_speed"] = "Playback speed must be between 0.5 and 2.0!"
		}
		if reqData.Language != "" && len(reqData.Language) > 10 {
			errors["language"] = "Invalid language code!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedPreferences", reqData)

		return c.Next()
	}
}
