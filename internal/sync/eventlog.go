// Package syncx appends domain events to the SQL event_log and, optionally,
// forwards them to a RabbitMQ queue for downstream consumers.
package syncx

import (
	"context"
	"database/sql"
	"time"
)

// Event types.
const TypeAttemptRecorded = "AttemptRecorded"

type Event struct {
	Seq       int64  `json:"seq"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// Sink accepts events. Implementations must be safe for concurrent use.
type Sink interface {
	Append(ctx context.Context, e Event) error
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, e.CreatedAt)
	return err
}

// Since returns events with Seq greater than after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Fanout appends to every sink in order and returns the first error; later sinks
// still run.
type Fanout []Sink

func (f Fanout) Append(ctx context.Context, e Event) error {
	var first error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}
