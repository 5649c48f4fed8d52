package progress

import "errors"

var (
	// ErrInvalidInput rejects out-of-range or malformed mutation arguments
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionAlreadyOpen is returned when starting a session while one is open
	ErrSessionAlreadyOpen = errors.New("a study session is already in progress")

	// ErrNoOpenSession is returned when ending a session and none is open
	ErrNoOpenSession = errors.New("no study session in progress")

	// ErrLessonNotFound is returned when an operation targets an untouched lesson
	ErrLessonNotFound = errors.New("lesson not found in progress record")
)
