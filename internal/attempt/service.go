package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	syncx "github.com/mind-engage/certprep/internal/sync"
)

// StatsCache caches the aggregate returned by Service.Stats.
type StatsCache interface {
	Get(ctx context.Context) ([]Stats, bool, error)
	Set(ctx context.Context, stats []Stats) error
	Invalidate(ctx context.Context) error
}

type ServiceOption func(*Service)

func WithEvents(s syncx.Sink) ServiceOption { return func(svc *Service) { svc.events = s } }

func WithStatsCache(c StatsCache) ServiceOption { return func(svc *Service) { svc.cache = c } }

func WithLogger(l *zap.Logger) ServiceOption { return func(svc *Service) { svc.log = l } }

func WithClock(now func() time.Time) ServiceOption { return func(svc *Service) { svc.now = now } }

// Service is the server side of the attempt recorder.
type Service struct {
	store  Store
	events syncx.Sink
	cache  StatsCache
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ResolveSession returns the session for token, creating a fresh one when the
// token is empty or unknown. created reports whether a new cookie must be set.
func (s *Service) ResolveSession(ctx context.Context, token string) (sess Session, created bool, err error) {
	now := s.now()
	if token != "" {
		sess, err = s.store.GetSession(ctx, token)
		switch {
		case err == nil:
			if err := s.store.TouchSession(ctx, token, now); err != nil {
				s.log.Warn("touch session", zap.String("session", token), zap.Error(err))
			}
			sess.LastSeenAt = now
			return sess, false, nil
		case !errors.Is(err, ErrNotFound):
			return Session{}, false, err
		}
	}
	sess = Session{ID: uuid.NewString(), CreatedAt: now, LastSeenAt: now}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

// Record validates and stores one attempt. Event and cache side effects are
// best effort.
func (s *Service) Record(ctx context.Context, sessionID string, sub Submission) (Attempt, error) {
	if err := sub.Validate(); err != nil {
		return Attempt{}, err
	}
	a := Attempt{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		PBQNumber:  sub.PBQNumber,
		PBQType:    sub.PBQType,
		UserAnswer: append(json.RawMessage(nil), sub.UserAnswer...),
		Score:      sub.Score,
		IsCorrect:  sub.Correct(),
		CreatedAt:  s.now(),
	}
	if err := s.store.InsertAttempt(ctx, a); err != nil {
		return Attempt{}, err
	}

	if s.events != nil {
		data, _ := json.Marshal(a)
		ev := syncx.Event{Type: syncx.TypeAttemptRecorded, Key: a.ID, DataJSON: string(data), CreatedAt: a.CreatedAt.Unix()}
		if err := s.events.Append(ctx, ev); err != nil {
			s.log.Warn("append attempt event", zap.String("attempt", a.ID), zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("invalidate stats cache", zap.Error(err))
		}
	}
	s.log.Info("attempt recorded",
		zap.String("attempt", a.ID),
		zap.String("pbq_type", a.PBQType),
		zap.Int("score", a.Score),
		zap.Bool("correct", a.IsCorrect))
	return a, nil
}

func (s *Service) SessionAttempts(ctx context.Context, sessionID string) ([]Attempt, error) {
	return s.store.ListAttempts(ctx, ListFilter{SessionID: sessionID})
}

func (s *Service) ListAttempts(ctx context.Context, f ListFilter) ([]Attempt, error) {
	return s.store.ListAttempts(ctx, f)
}

// Stats serves from the cache when present and fills it on a miss.
func (s *Service) Stats(ctx context.Context) ([]Stats, error) {
	if s.cache != nil {
		if st, ok, err := s.cache.Get(ctx); err != nil {
			s.log.Warn("read stats cache", zap.Error(err))
		} else if ok {
			return st, nil
		}
	}
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, st); err != nil {
			s.log.Warn("fill stats cache", zap.Error(err))
		}
	}
	return st, nil
}
