package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Completion thresholds
const (
	// LessonCompletionPercent marks a lesson completed once watched this far
	LessonCompletionPercent = 90.0

	// QuizPassScore is the minimum score treated as a passing attempt
	QuizPassScore = 70
)

// Tracker applies progress mutations to a Progress record in memory. It never
// touches storage; callers load the record, mutate through the Tracker and
// persist the result themselves.
type Tracker struct {
	clock Clock
}

// NewTracker returns a Tracker on the system clock
func NewTracker() *Tracker {
	return &Tracker{clock: SystemClock()}
}

// NewTrackerWithClock returns a Tracker on a caller-supplied clock
func NewTrackerWithClock(clock Clock) *Tracker {
	return &Tracker{clock: clock}
}

// RecordWatchTime merges a watch-time report for a lesson. Watch time only
// ever grows, the watch percentage is clamped to 100 and the lesson flips to
// completed once the percentage reaches the completion threshold. A lesson
// entry is created on first report.
func (t *Tracker) RecordWatchTime(p *Progress, lessonID uint, watchSeconds, totalDurationSeconds int) error {
	if watchSeconds < 0 {
		return fmt.Errorf("%w: watch time cannot be negative", ErrInvalidInput)
	}
	if totalDurationSeconds < 0 {
		return fmt.Errorf("%w: lesson duration cannot be negative", ErrInvalidInput)
	}

	now := t.clock.Now()
	lp := t.touchLesson(p, lessonID, now)

	if watchSeconds > lp.WatchTimeSeconds {
		lp.WatchTimeSeconds = watchSeconds
	}
	if totalDurationSeconds > 0 {
		lp.TotalDurationSeconds = totalDurationSeconds
	}
	lp.refreshWatchPercentage(now)

	t.afterMutation(p, now, true)
	return nil
}

// AddBookmark appends a bookmark to a lesson, creating the lesson entry if
// needed. Bookmarks do not count as study activity for the streak.
func (t *Tracker) AddBookmark(p *Progress, lessonID uint, timeSeconds int, note string) error {
	if timeSeconds < 0 {
		return fmt.Errorf("%w: bookmark timestamp cannot be negative", ErrInvalidInput)
	}

	now := t.clock.Now()
	lp := t.touchLesson(p, lessonID, now)
	lp.Bookmarks = append(lp.Bookmarks, Bookmark{
		TimeSeconds: timeSeconds,
		Note:        note,
	})

	t.afterMutation(p, now, false)
	return nil
}

// AddNote appends a note to a lesson, creating the lesson entry if needed.
// Notes do not count as study activity for the streak.
func (t *Tracker) AddNote(p *Progress, lessonID uint, content string, timestampSeconds int) error {
	if content == "" {
		return fmt.Errorf("%w: note content cannot be empty", ErrInvalidInput)
	}
	if timestampSeconds < 0 {
		return fmt.Errorf("%w: note timestamp cannot be negative", ErrInvalidInput)
	}

	now := t.clock.Now()
	lp := t.touchLesson(p, lessonID, now)
	lp.Notes = append(lp.Notes, LessonNote{
		Content:          content,
		TimestampSeconds: timestampSeconds,
	})

	t.afterMutation(p, now, false)
	return nil
}

// QuizSubmission is a graded quiz result to be recorded against a lesson
type QuizSubmission struct {
	LessonID         uint
	Score            int
	TotalQuestions   int
	CorrectAnswers   int
	Answers          []QuizAnswer
	TimeSpentSeconds int
}

// RecordQuizAttempt appends a graded quiz attempt to a lesson. Every attempt
// counts towards the overall quiz score, including repeats on the same
// lesson.
func (t *Tracker) RecordQuizAttempt(p *Progress, sub QuizSubmission) (*QuizAttempt, error) {
	if sub.Score < 0 || sub.Score > 100 {
		return nil, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidInput)
	}
	if sub.TotalQuestions <= 0 {
		return nil, fmt.Errorf("%w: quiz must have at least one question", ErrInvalidInput)
	}
	if sub.CorrectAnswers < 0 || sub.CorrectAnswers > sub.TotalQuestions {
		return nil, fmt.Errorf("%w: correct answers out of range", ErrInvalidInput)
	}
	if sub.TimeSpentSeconds < 0 {
		return nil, fmt.Errorf("%w: time spent cannot be negative", ErrInvalidInput)
	}

	answersJSON, err := json.Marshal(sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz answers: %w", err)
	}

	now := t.clock.Now()
	lp := t.touchLesson(p, sub.LessonID, now)
	lp.QuizAttempts = append(lp.QuizAttempts, QuizAttempt{
		Score:            sub.Score,
		TotalQuestions:   sub.TotalQuestions,
		CorrectAnswers:   sub.CorrectAnswers,
		Answers:          answersJSON,
		TimeSpentSeconds: sub.TimeSpentSeconds,
		IsPassed:         sub.Score >= QuizPassScore,
		AttemptedAt:      now,
	})
	attempt := &lp.QuizAttempts[len(lp.QuizAttempts)-1]

	t.afterMutation(p, now, true)
	return attempt, nil
}

// touchLesson returns the lesson entry, creating it on first access
func (t *Tracker) touchLesson(p *Progress, lessonID uint, now time.Time) *LessonProgress {
	if lp := p.Lesson(lessonID); lp != nil {
		lp.LastAccessedAt = now
		return lp
	}
	p.Lessons = append(p.Lessons, LessonProgress{
		LessonID:       lessonID,
		LastAccessedAt: now,
	})
	return &p.Lessons[len(p.Lessons)-1]
}

// refreshWatchPercentage recalculates the derived watch percentage and flips
// the completion flag once the threshold is crossed. Completion is one-way.
func (lp *LessonProgress) refreshWatchPercentage(now time.Time) {
	if lp.TotalDurationSeconds > 0 {
		pct := float64(lp.WatchTimeSeconds) / float64(lp.TotalDurationSeconds) * 100
		lp.WatchPercentage = math.Min(pct, 100)
	}
	if !lp.IsCompleted && lp.WatchPercentage >= LessonCompletionPercent {
		lp.IsCompleted = true
		completedAt := now
		lp.CompletedAt = &completedAt
	}
}

// afterMutation runs the shared post-mutation pipeline: recompute the derived
// aggregates, advance the streak for study actions, evaluate achievements and
// stamp the access time.
func (t *Tracker) afterMutation(p *Progress, now time.Time, studyAction bool) {
	t.recompute(p, now)
	if studyAction {
		p.updateStreak(now)
	}
	p.evaluateAchievements(now)
	p.LastAccessedAt = now
}

// recompute refreshes the course-level derived fields from the lesson
// entries. The completion percentage is over lessons the student has touched,
// the overall quiz score is the mean of every attempt ever made.
func (t *Tracker) recompute(p *Progress, now time.Time) {
	if len(p.Lessons) > 0 {
		completed := p.completedLessonCount()
		p.CompletionPercentage = int(math.Round(float64(completed) / float64(len(p.Lessons)) * 100))
	} else {
		p.CompletionPercentage = 0
	}

	total, attempts := 0, 0
	for i := range p.Lessons {
		for _, a := range p.Lessons[i].QuizAttempts {
			total += a.Score
			attempts++
		}
	}
	if attempts > 0 {
		p.OverallQuizScore = int(math.Round(float64(total) / float64(attempts)))
	} else {
		p.OverallQuizScore = 0
	}

	if !p.IsCompleted && p.CompletionPercentage == 100 {
		p.IsCompleted = true
		completedAt := now
		p.CompletedAt = &completedAt
	}
}
