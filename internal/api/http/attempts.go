package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/auth"
	syncx "github.com/mind-engage/certprep/internal/sync"
)

const maxAttemptBody = 1 << 20

// POST /api/pbq-attempts  {pbqNumber?, pbqType, userAnswer, score, isCorrect?}
//
// The session cookie is created on the first valid submission; rejected bodies
// never create a session.
func RecordAttemptHandler(svc *attempt.Service, sessions *auth.Sessions, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub attempt.Submission
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAttemptBody)).Decode(&sub); err != nil {
			respondError(w, http.StatusBadRequest, "bad json")
			return
		}
		if err := sub.Validate(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		sess, err := sessions.Ensure(w, r)
		if err != nil {
			log.Error("resolve session", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
		a, err := svc.Record(r.Context(), sess.ID, sub)
		if errors.Is(err, attempt.ErrInvalid) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			log.Error("record attempt", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to save attempt")
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{
			"success":   true,
			"attemptId": a.ID,
			"score":     a.Score,
		})
	}
}

// GET /api/session/attempts
//
// Never creates a session: callers without a cookie simply have no attempts.
func SessionAttemptsHandler(svc *attempt.Service, sessions *auth.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := sessions.Token(r)
		if tok == "" {
			respondJSON(w, http.StatusOK, []attempt.Attempt{})
			return
		}
		list, err := svc.SessionAttempts(r.Context(), tok)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /api/admin/attempts?session_id=&pbq_type=&limit=50
func AdminListAttemptsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := svc.ListAttempts(r.Context(), attempt.ListFilter{
			SessionID: strings.TrimSpace(q.Get("session_id")),
			PBQType:   strings.TrimSpace(q.Get("pbq_type")),
			Limit:     parseIntDefault(q.Get("limit"), 50),
		})
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// EventSource pages through the event log.
type EventSource interface {
	Since(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

// GET /api/admin/events?after=0&limit=100
func AdminEventsHandler(src EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		after, err := strconv.ParseInt(q.Get("after"), 10, 64)
		if q.Get("after") != "" && (err != nil || after < 0) {
			respondError(w, http.StatusBadRequest, "after must be a non-negative sequence number")
			return
		}
		evs, err := src.Since(r.Context(), after, parseIntDefault(q.Get("limit"), 100))
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if evs == nil {
			evs = []syncx.Event{}
		}
		respondJSON(w, http.StatusOK, evs)
	}
}

// GET /api/admin/stats
func AdminStatsHandler(svc *attempt.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, st)
	}
}
