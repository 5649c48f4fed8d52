package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests pin and advance the tracker's time source
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTracker(start time.Time) (*Tracker, *fakeClock) {
	clock := &fakeClock{now: start}
	return NewTrackerWithClock(clock), clock
}

var testStart = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func TestRecordWatchTimeCreatesLessonEntry(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	err := tracker.RecordWatchTime(p, 10, 120, 600)
	assert.NoError(t, err)
	assert.Len(t, p.Lessons, 1)

	lp := p.Lesson(10)
	assert.NotNil(t, lp)
	assert.Equal(t, 120, lp.WatchTimeSeconds)
	assert.Equal(t, 600, lp.TotalDurationSeconds)
	assert.Equal(t, 20.0, lp.WatchPercentage)
	assert.False(t, lp.IsCompleted)
}

func TestRecordWatchTimeNeverRegresses(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 300, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 100, 600))

	assert.Equal(t, 300, p.Lesson(10).WatchTimeSeconds)
}

func TestRecordWatchTimeClampsPercentage(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 900, 600))

	lp := p.Lesson(10)
	assert.Equal(t, 100.0, lp.WatchPercentage)
	assert.True(t, lp.IsCompleted)
}

func TestRecordWatchTimeCompletesAtThreshold(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 539, 600))
	assert.False(t, p.Lesson(10).IsCompleted)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 540, 600))

	lp := p.Lesson(10)
	assert.Equal(t, 90.0, lp.WatchPercentage)
	assert.True(t, lp.IsCompleted)
	assert.NotNil(t, lp.CompletedAt)
}

func TestLessonCompletionIsOneWay(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 600))
	completedAt := *p.Lesson(10).CompletedAt

	// A later report with a longer duration drops the percentage but the
	// completed flag and timestamp must survive.
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 600, 1200))

	lp := p.Lesson(10)
	assert.Equal(t, 50.0, lp.WatchPercentage)
	assert.True(t, lp.IsCompleted)
	assert.Equal(t, completedAt, *lp.CompletedAt)
}

func TestRecordWatchTimeRejectsNegativeInput(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	err := tracker.RecordWatchTime(p, 10, -5, 600)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = tracker.RecordWatchTime(p, 10, 5, -600)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, p.Lessons)
}

func TestCompletionPercentageOverTouchedLessons(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 60, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 3, 60, 600))

	// 1 of 3 touched lessons completed
	assert.Equal(t, 33, p.CompletionPercentage)
	assert.False(t, p.IsCompleted)
}

func TestCourseCompletionIsOneWay(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.True(t, p.IsCompleted)
	assert.NotNil(t, p.CompletedAt)
	completedAt := *p.CompletedAt

	// Touching a new lesson lowers the percentage but not the flag
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 10, 600))
	assert.Equal(t, 50, p.CompletionPercentage)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, completedAt, *p.CompletedAt)
}

func TestAddBookmark(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.AddBookmark(p, 10, 45, "key formula"))

	lp := p.Lesson(10)
	assert.NotNil(t, lp)
	assert.Len(t, lp.Bookmarks, 1)
	assert.Equal(t, 45, lp.Bookmarks[0].TimeSeconds)
	assert.Equal(t, "key formula", lp.Bookmarks[0].Note)
}

func TestAddBookmarkDoesNotAdvanceStreak(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.AddBookmark(p, 10, 45, ""))

	assert.Equal(t, 0, p.Streak.Current)
	assert.Nil(t, p.Streak.LastStudyDate)
}

func TestAddBookmarkRejectsNegativeTimestamp(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	err := tracker.AddBookmark(p, 10, -1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddNote(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.AddNote(p, 10, "re-watch this part", 90))

	lp := p.Lesson(10)
	assert.Len(t, lp.Notes, 1)
	assert.Equal(t, "re-watch this part", lp.Notes[0].Content)
	assert.Equal(t, 90, lp.Notes[0].TimestampSeconds)
	assert.Equal(t, 0, p.Streak.Current)
}

func TestAddNoteRejectsEmptyContent(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	err := tracker.AddNote(p, 10, "", 90)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordQuizAttempt(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	attempt, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID:       10,
		Score:          80,
		TotalQuestions: 5,
		CorrectAnswers: 4,
		Answers: []QuizAnswer{
			{QuestionID: 1, SelectedAnswer: 2, IsCorrect: true},
			{QuestionID: 2, SelectedAnswer: 0, IsCorrect: false},
		},
		TimeSpentSeconds: 120,
	})
	assert.NoError(t, err)
	assert.True(t, attempt.IsPassed)
	assert.Equal(t, 80, p.OverallQuizScore)

	var answers []QuizAnswer
	assert.NoError(t, json.Unmarshal(attempt.Answers, &answers))
	assert.Len(t, answers, 2)
	assert.Equal(t, uint(1), answers[0].QuestionID)
}

func TestQuizPassThreshold(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	failed, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 69, TotalQuestions: 100, CorrectAnswers: 69,
	})
	assert.NoError(t, err)
	assert.False(t, failed.IsPassed)

	passed, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 70, TotalQuestions: 100, CorrectAnswers: 70,
	})
	assert.NoError(t, err)
	assert.True(t, passed.IsPassed)
}

func TestOverallQuizScoreMeansAllAttempts(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 60, TotalQuestions: 5, CorrectAnswers: 3,
	})
	assert.NoError(t, err)
	_, err = tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 10, Score: 100, TotalQuestions: 5, CorrectAnswers: 5,
	})
	assert.NoError(t, err)
	_, err = tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 20, Score: 75, TotalQuestions: 4, CorrectAnswers: 3,
	})
	assert.NoError(t, err)

	// round((60 + 100 + 75) / 3) = 78
	assert.Equal(t, 78, p.OverallQuizScore)
}

func TestRecordQuizAttemptValidation(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	cases := []QuizSubmission{
		{LessonID: 10, Score: -1, TotalQuestions: 5, CorrectAnswers: 0},
		{LessonID: 10, Score: 101, TotalQuestions: 5, CorrectAnswers: 5},
		{LessonID: 10, Score: 50, TotalQuestions: 0, CorrectAnswers: 0},
		{LessonID: 10, Score: 50, TotalQuestions: 5, CorrectAnswers: 6},
		{LessonID: 10, Score: 50, TotalQuestions: 5, CorrectAnswers: -1},
		{LessonID: 10, Score: 50, TotalQuestions: 5, CorrectAnswers: 2, TimeSpentSeconds: -1},
	}
	for _, sub := range cases {
		_, err := tracker.RecordQuizAttempt(p, sub)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, p.Lessons)
}

func TestLessonProgressFor(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := p.LessonProgressFor(10)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	assert.NoError(t, tracker.RecordWatchTime(p, 10, 60, 600))

	lp, err := p.LessonProgressFor(10)
	assert.NoError(t, err)
	assert.Equal(t, uint(10), lp.LessonID)
}

func TestDerivedFieldsSurviveReload(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	assert.NoError(t, tracker.RecordWatchTime(p, 1, 600, 600))
	assert.NoError(t, tracker.RecordWatchTime(p, 2, 120, 600))
	_, err := tracker.RecordQuizAttempt(p, QuizSubmission{
		LessonID: 1, Score: 80, TotalQuestions: 5, CorrectAnswers: 4,
	})
	assert.NoError(t, err)
	_, err = tracker.StartStudySession(p)
	assert.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = tracker.EndStudySession(p, []uint{1}, 2)
	assert.NoError(t, err)

	// Serialize and reload, standing in for a storage round trip
	raw, err := json.Marshal(p)
	assert.NoError(t, err)
	reloaded := new(Progress)
	assert.NoError(t, json.Unmarshal(raw, reloaded))

	// Derived fields are stored, not rebuilt on load
	assert.Equal(t, p.CompletionPercentage, reloaded.CompletionPercentage)
	assert.Equal(t, p.OverallQuizScore, reloaded.OverallQuizScore)
	assert.Equal(t, p.StudyTimeMinutes, reloaded.StudyTimeMinutes)
	assert.Equal(t, p.IsCompleted, reloaded.IsCompleted)
	assert.Equal(t, p.Streak.Current, reloaded.Streak.Current)
	assert.Equal(t, p.Streak.Longest, reloaded.Streak.Longest)
	assert.True(t, reloaded.Streak.LastStudyDate.Equal(*p.Streak.LastStudyDate))
	assert.Len(t, reloaded.Lessons, len(p.Lessons))

	// Recomputing over the reloaded state changes nothing
	tracker.recompute(reloaded, clock.Now())
	assert.Equal(t, p.CompletionPercentage, reloaded.CompletionPercentage)
	assert.Equal(t, p.OverallQuizScore, reloaded.OverallQuizScore)
	assert.Equal(t, p.IsCompleted, reloaded.IsCompleted)
}

func TestMutationsStampLastAccessed(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	clock.Advance(2 * time.Hour)
	assert.NoError(t, tracker.RecordWatchTime(p, 10, 60, 600))

	assert.Equal(t, clock.Now(), p.LastAccessedAt)
	assert.Equal(t, clock.Now(), p.Lesson(10).LastAccessedAt)
}
