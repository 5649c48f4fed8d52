package progress

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress is the single progress record for one (user, course) pair. It is
// created once at enrollment and owns all nested lesson, quiz, session,
// streak and achievement state. The derived columns (completion percentage,
// overall quiz score, completion flag) are recomputed by the Tracker after
// every mutation and stored as plain columns, so a reloaded record needs no
// recompute.
type Progress struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"index:idx_user_course,unique;not null"`
	CourseID             uint       `json:"course_id" gorm:"index:idx_user_course,unique;not null"`
	EnrolledAt           time.Time  `json:"enrolled_at"`
	StartedAt            *time.Time `json:"started_at"` // Set on the first study session
	CompletedAt          *time.Time `json:"completed_at"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`
	CompletionPercentage int        `json:"completion_percentage" gorm:"default:0"`
	IsCompleted          bool       `json:"is_completed" gorm:"default:false"` // One-way: never reverts to false
	StudyTimeMinutes     int        `json:"study_time_minutes" gorm:"default:0"`
	OverallQuizScore     int        `json:"overall_quiz_score" gorm:"default:0"`

	Lessons       []LessonProgress `json:"lessons_progress" gorm:"foreignKey:ProgressID"`
	Streak        StudyStreak      `json:"study_streak" gorm:"embedded;embeddedPrefix:streak_"`
	Achievements  []Achievement    `json:"achievements" gorm:"foreignKey:ProgressID"`
	StudySessions []StudySession   `json:"study_sessions" gorm:"foreignKey:ProgressID"`

	CertificateIssued bool   `json:"certificate_issued" gorm:"default:false"`
	CertificateNumber string `json:"certificate_number"`

	Rating      CourseRating      `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	Preferences PlayerPreferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`
	IsDeleted   bool              `gorm:"default:false"`
}

// LessonProgress tracks one lesson inside a Progress record. Entries are
// created lazily on first touch and kept in insertion order.
type LessonProgress struct {
	gorm.Model
	ProgressID           uint       `json:"-" gorm:"index;not null"`
	LessonID             uint       `json:"lesson_id" gorm:"index;not null"`
	WatchTimeSeconds     int        `json:"watch_time_seconds" gorm:"default:0"` // Monotonic: never regresses
	TotalDurationSeconds int        `json:"total_duration_seconds" gorm:"default:0"`
	WatchPercentage      float64    `json:"watch_percentage" gorm:"default:0"` // Derived, clamped to [0,100]
	IsCompleted          bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt          *time.Time `json:"completed_at"`
	LastAccessedAt       time.Time  `json:"last_accessed_at"`

	Bookmarks    []Bookmark    `json:"bookmarks" gorm:"foreignKey:LessonProgressID"`
	Notes        []LessonNote  `json:"notes" gorm:"foreignKey:LessonProgressID"`
	QuizAttempts []QuizAttempt `json:"quiz_attempts" gorm:"foreignKey:LessonProgressID"`
}

// Bookmark marks a point in a lesson video
type Bookmark struct {
	gorm.Model
	LessonProgressID uint   `json:"-" gorm:"index;not null"`
	TimeSeconds      int    `json:"time_seconds"` // Video timestamp in seconds
	Note             string `json:"note"`
}

// LessonNote is a free-form note attached to a video timestamp
type LessonNote struct {
	gorm.Model
	LessonProgressID uint   `json:"-" gorm:"index;not null"`
	Content          string `json:"content" gorm:"type:text"`
	TimestampSeconds int    `json:"timestamp_seconds"` // Video timestamp in seconds
}

// QuizAttempt is one graded attempt at a lesson quiz. Attempts are immutable
// once recorded; repeated attempts on the same lesson each count towards the
// overall quiz score.
type QuizAttempt struct {
	gorm.Model
	LessonProgressID uint           `json:"-" gorm:"index;not null"`
	Score            int            `json:"score"` // 0-100
	TotalQuestions   int            `json:"total_questions"`
	CorrectAnswers   int            `json:"correct_answers"`
	Answers          datatypes.JSON `json:"answers"` // Per-question answer records
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	IsPassed         bool           `json:"is_passed"` // score >= QuizPassScore
	AttemptedAt      time.Time      `json:"attempted_at"`
}

// QuizAnswer is the per-question record serialized into QuizAttempt.Answers
type QuizAnswer struct {
	QuestionID       uint `json:"question_id"`
	SelectedAnswer   int  `json:"selected_answer"` // Option index chosen by the student
	IsCorrect        bool `json:"is_correct"`
	TimeSpentSeconds int  `json:"time_spent_seconds"`
}

// StudySession is a bounded interval of study activity. At most one session
// per Progress record may be open (EndTime == nil) at a time.
type StudySession struct {
	gorm.Model
	ProgressID          uint           `json:"-" gorm:"index;not null"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             *time.Time     `json:"end_time"`
	DurationMinutes     int            `json:"duration_minutes" gorm:"default:0"` // Derived on close
	LessonsStudied      datatypes.JSON `json:"lessons_studied"`                   // Lesson ID list
	ActivitiesCompleted int            `json:"activities_completed" gorm:"default:0"`
}

// Achievement is a one-time milestone flag, earned at most once per type
type Achievement struct {
	gorm.Model
	ProgressID uint      `json:"-" gorm:"index;not null"`
	Type       string    `json:"type" gorm:"index"`
	EarnedAt   time.Time `json:"earned_at"`
}

// StudyStreak counts consecutive calendar days with at least one study action
type StudyStreak struct {
	Current       int        `json:"current" gorm:"default:0"`
	Longest       int        `json:"longest" gorm:"default:0"`
	LastStudyDate *time.Time `json:"last_study_date"`
}

// CourseRating is the student's rating of the course
type CourseRating struct {
	Score   *int       `json:"score"` // 1-5, nil while unrated
	Review  string     `json:"review"`
	RatedAt *time.Time `json:"rated_at"`
}

// PlayerPreferences holds per-course video player settings
type PlayerPreferences struct {
	PlaybackSpeed float64 `json:"playback_speed" gorm:"default:1.0"` // 0.5 - 2.0
	Autoplay      bool    `json:"autoplay" gorm:"default:true"`
	Subtitles     bool    `json:"subtitles" gorm:"default:false"`
	Language      string  `json:"language" gorm:"default:'en'"`
}

// DefaultPlayerPreferences returns the player settings applied at enrollment
func DefaultPlayerPreferences() PlayerPreferences {
	return PlayerPreferences{
		PlaybackSpeed: 1.0,
		Autoplay:      true,
		Subtitles:     false,
		Language:      "en",
	}
}

// NewProgress creates the aggregate at enrollment time with all derived
// fields at their zero defaults.
func NewProgress(userID, courseID uint, now time.Time) *Progress {
	return &Progress{
		UserID:         userID,
		CourseID:       courseID,
		EnrolledAt:     now,
		LastAccessedAt: now,
		Preferences:    DefaultPlayerPreferences(),
	}
}

// Lesson returns the tracked entry for lessonID, or nil if the lesson has
// never been touched.
func (p *Progress) Lesson(lessonID uint) *LessonProgress {
	for i := range p.Lessons {
		if p.Lessons[i].LessonID == lessonID {
			return &p.Lessons[i]
		}
	}
	return nil
}

// LessonProgressFor returns the tracked entry for lessonID, or
// ErrLessonNotFound if the lesson has never been touched.
func (p *Progress) LessonProgressFor(lessonID uint) (*LessonProgress, error) {
	if lp := p.Lesson(lessonID); lp != nil {
		return lp, nil
	}
	return nil, ErrLessonNotFound
}

// OpenSession returns the currently open study session, or nil
func (p *Progress) OpenSession() *StudySession {
	for i := range p.StudySessions {
		if p.StudySessions[i].EndTime == nil {
			return &p.StudySessions[i]
		}
	}
	return nil
}

// HasAchievement reports whether the achievement type has been earned
func (p *Progress) HasAchievement(kind string) bool {
	for _, a := range p.Achievements {
		if a.Type == kind {
			return true
		}
	}
	return false
}

func (p *Progress) completedLessonCount() int {
	count := 0
	for i := range p.Lessons {
		if p.Lessons[i].IsCompleted {
			count++
		}
	}
	return count
}

func (p *Progress) hasPerfectQuiz() bool {
	for i := range p.Lessons {
		for _, a := range p.Lessons[i].QuizAttempts {
			if a.Score == 100 {
				return true
			}
		}
	}
	return false
}

// lessonCompletedInOpenSession reports whether some lesson reached completion
// while the currently open study session was running.
func (p *Progress) lessonCompletedInOpenSession() bool {
	open := p.OpenSession()
	if open == nil {
		return false
	}
	for i := range p.Lessons {
		lp := &p.Lessons[i]
		if lp.IsCompleted && lp.CompletedAt != nil && !lp.CompletedAt.Before(open.StartTime) {
			return true
		}
	}
	return false
}
