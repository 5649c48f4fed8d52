package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Lesson content (for enrolled users)
	courseGroup.Get("/:course_id/lesson/:lesson_id", middleware.JWTMiddleware, validators.GetLessonContent(), controllers.GetLessonContent)

	// Rating and player preferences
	courseGroup.Post("/:id/rate", middleware.JWTMiddleware, validators.RateCourse(), controllers.RateCourse)
	courseGroup.Patch("/:id/preferences", middleware.JWTMiddleware, validators.UpdatePreferences(), controllers.UpdatePreferences)

	// User enrollments, certificates and analytics
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userGroup.Get("/analytics", middleware.JWTMiddleware, controllers.GetUserAnalytics)
}
