package attempt

import (
	"context"
	"time"
)

type Store interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	InsertAttempt(ctx context.Context, a Attempt) error
	ListAttempts(ctx context.Context, f ListFilter) ([]Attempt, error)
	Stats(ctx context.Context) ([]Stats, error)
}
