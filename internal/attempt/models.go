// Package attempt records PBQ attempts against anonymous sessions. The server
// side is Store/SQLStore/Service; the client side is HTTPRecorder, a best-effort
// Notifier that posts finished exercises to the recorder endpoint.
package attempt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("attempt: not found")
	ErrInvalid  = errors.New("attempt: invalid submission")
)

// Session is the anonymous identity carried by the session cookie.
type Session struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type Attempt struct {
	ID         string          `json:"id"`
	SessionID  string          `json:"session_id"`
	PBQNumber  int             `json:"pbqNumber,omitempty"`
	PBQType    string          `json:"pbqType"`
	UserAnswer json.RawMessage `json:"userAnswer"`
	Score      int             `json:"score"`
	IsCorrect  bool            `json:"isCorrect"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Submission is the recorder request body. PBQNumber and IsCorrect may be
// omitted by older clients; a missing IsCorrect is derived from Score.
type Submission struct {
	PBQNumber  int             `json:"pbqNumber,omitempty"`
	PBQType    string          `json:"pbqType"`
	UserAnswer json.RawMessage `json:"userAnswer"`
	Score      int             `json:"score"`
	IsCorrect  *bool           `json:"isCorrect,omitempty"`
}

func (s Submission) Validate() error {
	if strings.TrimSpace(s.PBQType) == "" {
		return fmt.Errorf("%w: pbqType required", ErrInvalid)
	}
	if len(s.UserAnswer) == 0 || !json.Valid(s.UserAnswer) {
		return fmt.Errorf("%w: userAnswer must be JSON", ErrInvalid)
	}
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("%w: score out of range", ErrInvalid)
	}
	if s.PBQNumber < 0 {
		return fmt.Errorf("%w: negative pbqNumber", ErrInvalid)
	}
	return nil
}

// Correct resolves the correctness flag.
func (s Submission) Correct() bool {
	if s.IsCorrect != nil {
		return *s.IsCorrect
	}
	return s.Score == 100
}

// Stats aggregates attempts of one PBQ type.
type Stats struct {
	PBQType  string  `json:"pbqType"`
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	AvgScore float64 `json:"avgScore"`
}

type ListFilter struct {
	SessionID string
	PBQType   string
	Limit     int
}
