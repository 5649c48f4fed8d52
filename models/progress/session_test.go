package progress

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartStudySession(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	session, err := tracker.StartStudySession(p)
	assert.NoError(t, err)
	assert.Equal(t, testStart, session.StartTime)
	assert.Nil(t, session.EndTime)
	assert.NotNil(t, p.OpenSession())
}

func TestFirstSessionSetsStartedAt(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)
	assert.Nil(t, p.StartedAt)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)
	assert.NotNil(t, p.StartedAt)
	assert.Equal(t, testStart, *p.StartedAt)

	// Later sessions do not move it
	_, err = tracker.EndStudySession(p, nil, 0)
	assert.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = tracker.StartStudySession(p)
	assert.NoError(t, err)
	assert.Equal(t, testStart, *p.StartedAt)
}

func TestStartStudySessionRejectsDoubleOpen(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)

	_, err = tracker.StartStudySession(p)
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
	assert.Len(t, p.StudySessions, 1)
}

func TestEndStudySessionRequiresOpenSession(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.EndStudySession(p, nil, 0)
	assert.ErrorIs(t, err, ErrNoOpenSession)
}

func TestEndStudySessionRecordsDuration(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)

	clock.Advance(30 * time.Minute)
	session, err := tracker.EndStudySession(p, []uint{10, 20}, 3)
	assert.NoError(t, err)
	assert.Equal(t, 30, session.DurationMinutes)
	assert.Equal(t, 3, session.ActivitiesCompleted)
	assert.NotNil(t, session.EndTime)
	assert.Nil(t, p.OpenSession())

	var studied []uint
	assert.NoError(t, json.Unmarshal(session.LessonsStudied, &studied))
	assert.Equal(t, []uint{10, 20}, studied)
}

func TestSessionDurationsAccumulate(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)
	clock.Advance(30 * time.Minute)
	_, err = tracker.EndStudySession(p, nil, 1)
	assert.NoError(t, err)

	_, err = tracker.StartStudySession(p)
	assert.NoError(t, err)
	clock.Advance(45 * time.Minute)
	_, err = tracker.EndStudySession(p, nil, 2)
	assert.NoError(t, err)

	assert.Equal(t, 75, p.StudyTimeMinutes)
	assert.Len(t, p.StudySessions, 2)
}

func TestEndStudySessionRoundsToMinutes(t *testing.T) {
	tracker, clock := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)

	clock.Advance(10*time.Minute + 40*time.Second)
	session, err := tracker.EndStudySession(p, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, 11, session.DurationMinutes)
}

func TestEndStudySessionRejectsNegativeActivities(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)

	_, err = tracker.EndStudySession(p, nil, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotNil(t, p.OpenSession())
}

func TestSessionsAdvanceStreak(t *testing.T) {
	tracker, _ := newTestTracker(testStart)
	p := NewProgress(1, 1, testStart)

	_, err := tracker.StartStudySession(p)
	assert.NoError(t, err)

	assert.Equal(t, 1, p.Streak.Current)
	assert.NotNil(t, p.Streak.LastStudyDate)
}
