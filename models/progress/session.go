package progress

import (
	"encoding/json"
	"fmt"
	"math"
)

// StartStudySession opens a new study session. Only one session may be open
// at a time. The first session ever also stamps the course StartedAt.
func (t *Tracker) StartStudySession(p *Progress) (*StudySession, error) {
	if p.OpenSession() != nil {
		return nil, ErrSessionAlreadyOpen
	}

	now := t.clock.Now()
	if p.StartedAt == nil {
		startedAt := now
		p.StartedAt = &startedAt
	}

	p.StudySessions = append(p.StudySessions, StudySession{
		StartTime: now,
	})
	session := &p.StudySessions[len(p.StudySessions)-1]

	t.afterMutation(p, now, true)
	return session, nil
}

// EndStudySession closes the open session, records which lessons were studied
// and how many activities were completed, and adds the rounded session
// duration to the course study time.
func (t *Tracker) EndStudySession(p *Progress, lessonsStudied []uint, activitiesCompleted int) (*StudySession, error) {
	if activitiesCompleted < 0 {
		return nil, fmt.Errorf("%w: activities completed cannot be negative", ErrInvalidInput)
	}

	session := p.OpenSession()
	if session == nil {
		return nil, ErrNoOpenSession
	}

	now := t.clock.Now()
	endTime := now
	session.EndTime = &endTime
	session.DurationMinutes = int(math.Round(now.Sub(session.StartTime).Minutes()))
	session.ActivitiesCompleted = activitiesCompleted

	if lessonsStudied == nil {
		lessonsStudied = []uint{}
	}
	lessonsJSON, err := json.Marshal(lessonsStudied)
	if err != nil {
		return nil, fmt.Errorf("marshal studied lessons: %w", err)
	}
	session.LessonsStudied = lessonsJSON

	p.StudyTimeMinutes += session.DurationMinutes

	t.afterMutation(p, now, true)
	return session, nil
}
