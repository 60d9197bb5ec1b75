package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

type backend struct {
	sqlName    string // database/sql driver name
	defaultDSN string
	schema     string
}

var backends = map[Driver]backend{
	DriverSQLite: {
		sqlName:    "sqlite",
		defaultDSN: "file:certprep.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)",
		schema:     schemaSQLite,
	},
	DriverPostgres: {
		sqlName:    "pgx",
		defaultDSN: "postgres://localhost:5432/certprep?sslmode=disable",
		schema:     schemaPostgres,
	},
}

// Open connects to the attempt database and creates missing tables. An empty
// dsn selects the driver's local default.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	b, ok := backends[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	if dsn == "" {
		dsn = b.defaultDSN
	}

	db, err := sql.Open(b.sqlName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; in-memory databases also vanish once their last connection closes
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, b.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  created_at INTEGER NOT NULL,
  last_seen_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  pbq_number INTEGER NOT NULL DEFAULT 0,
  pbq_type TEXT NOT NULL,
  user_answer TEXT NOT NULL,
  score INTEGER NOT NULL,
  is_correct INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS attempts_session_idx ON attempts(session_id, created_at);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,  -- e.g. AttemptRecorded
  key TEXT NOT NULL,  -- attempt id
  data TEXT NOT NULL, -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  created_at BIGINT NOT NULL,
  last_seen_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  pbq_number INTEGER NOT NULL DEFAULT 0,
  pbq_type TEXT NOT NULL,
  user_answer TEXT NOT NULL,
  score INTEGER NOT NULL,
  is_correct INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS attempts_session_idx ON attempts(session_id, created_at);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
