// Package exam sequences learners through question content: the timed exam
// simulator and practice quizzes, the linear acronym drill, and the sequencing,
// matching and configuration PBQ exercises.
//
// Controllers are owned by one exercise instance and are driven by discrete UI
// events; none of them is safe for concurrent use.
package exam

import "errors"

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
)

var (
	ErrNotStarted      = errors.New("exam: not started")
	ErrStarted         = errors.New("exam: already started")
	ErrSubmitted       = errors.New("exam: already submitted")
	ErrIncomplete      = errors.New("exam: answer incomplete")
	ErrUnknownQuestion = errors.New("exam: unknown question")
	ErrInvalidOption   = errors.New("exam: invalid option")
	ErrWrongPhase      = errors.New("exam: not accepting answers in this phase")
)
