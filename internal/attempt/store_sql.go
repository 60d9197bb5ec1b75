package attempt

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

const defaultListLimit = 200

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at, last_seen_at) VALUES ($1,$2,$3)`,
		sess.ID, sess.CreatedAt.Unix(), sess.LastSeenAt.Unix())
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	var created, seen int64
	sess := Session{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, last_seen_at FROM sessions WHERE id=$1`, id).Scan(&created, &seen)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	sess.CreatedAt, sess.LastSeenAt = time.Unix(created, 0), time.Unix(seen, 0)
	return sess, nil
}

func (s *SQLStore) TouchSession(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_seen_at=$1 WHERE id=$2`, at.Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	correct := 0
	if a.IsCorrect {
		correct = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, session_id, pbq_number, pbq_type, user_answer, score, is_correct, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.SessionID, a.PBQNumber, a.PBQType, string(a.UserAnswer), a.Score, correct, a.CreatedAt.Unix())
	return err
}

// ListAttempts returns newest first.
func (s *SQLStore) ListAttempts(ctx context.Context, f ListFilter) ([]Attempt, error) {
	var (
		where []string
		args  []any
	)
	if f.SessionID != "" {
		args = append(args, f.SessionID)
		where = append(where, "session_id=$"+strconv.Itoa(len(args)))
	}
	if f.PBQType != "" {
		args = append(args, f.PBQType)
		where = append(where, "pbq_type=$"+strconv.Itoa(len(args)))
	}
	limit := f.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	q := `SELECT id, session_id, pbq_number, pbq_type, user_answer, score, is_correct, created_at FROM attempts`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	q += " ORDER BY created_at DESC, id DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		var (
			a       Attempt
			answer  string
			correct int
			created int64
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.PBQNumber, &a.PBQType, &answer, &a.Score, &correct, &created); err != nil {
			return nil, err
		}
		a.UserAnswer = []byte(answer)
		a.IsCorrect = correct != 0
		a.CreatedAt = time.Unix(created, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) Stats(ctx context.Context) ([]Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pbq_type, COUNT(*), SUM(is_correct), CAST(AVG(score) AS DOUBLE PRECISION)
		FROM attempts GROUP BY pbq_type ORDER BY pbq_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Stats{}
	for rows.Next() {
		var st Stats
		if err := rows.Scan(&st.PBQType, &st.Attempts, &st.Correct, &st.AvgScore); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
