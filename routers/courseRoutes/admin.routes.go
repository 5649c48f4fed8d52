package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupAdminCourseRoutes sets up course management routes for admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	// Course authoring
	adminGroup.Post("/course", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Post("/course/:id/lesson", validators.CreateLesson(), controllers.CreateLesson)
	adminGroup.Post("/lesson/:lesson_id/quiz", validators.CreateQuizQuestion(), controllers.CreateQuizQuestion)

	// Reporting
	adminGroup.Get("/stats", controllers.AdminStats)
	adminGroup.Get("/course/:id/analytics", validators.GetCourseDetail(), controllers.AdminCourseAnalytics)
}
