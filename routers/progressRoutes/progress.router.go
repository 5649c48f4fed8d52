package progressRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"
)

// SetupProgressRoutes sets up all progress tracking routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	// Full aggregate for a course, or one lesson's slice of it
	progressGroup.Get("/:course_id", validators.GetProgress(), controllers.GetUserProgress)
	progressGroup.Get("/:course_id/lesson/:lesson_id", validators.LessonParams(), controllers.GetLessonProgress)

	// Lesson-level mutations
	progressGroup.Post("/:course_id/lesson/:lesson_id/watch", validators.WatchTime(), controllers.RecordWatchTime)
	progressGroup.Post("/:course_id/lesson/:lesson_id/bookmark", validators.AddBookmark(), controllers.AddBookmark)
	progressGroup.Post("/:course_id/lesson/:lesson_id/note", validators.AddNote(), controllers.AddNote)
	progressGroup.Post("/:course_id/lesson/:lesson_id/quiz/submit", validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Study sessions
	progressGroup.Post("/:course_id/session/start", validators.StartSession(), controllers.StartStudySession)
	progressGroup.Post("/:course_id/session/end", validators.EndSession(), controllers.EndStudySession)
}
