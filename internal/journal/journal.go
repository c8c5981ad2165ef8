// Package journal persists stream lifecycle transitions in SQLite so
// operators can audit what happened to a stream after the fact.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go driver

	"github.com/ottkit/streamd/internal/stream"
)

// Config defines SQLite operational parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// DefaultConfig returns the recommended journal configuration.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}

// Entry is one recorded lifecycle transition.
type Entry struct {
	StreamID   string
	StreamType stream.Type
	State      stream.State
	At         time.Time
}

// Journal is a SQLite-backed lifecycle journal.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS lifecycle (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	stream_id   TEXT NOT NULL,
	stream_type TEXT NOT NULL,
	state       TEXT NOT NULL,
	at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lifecycle_stream ON lifecycle(stream_id, id);
`

// Open initialises the journal database. The DSN carries the PRAGMAs so
// they apply to every connection in the pool.
func Open(path string, cfg Config) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open failed: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: ping failed: %w", err)
	}

	// Gate startup on a quick structural check; a corrupt journal must
	// surface at open, not as scan errors mid-request.
	problems, err := integrityCheck(db, VerifyQuick)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(problems) > 0 {
		_ = db.Close()
		return nil, fmt.Errorf("journal: database corrupt: %s", strings.Join(problems, "; "))
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one lifecycle transition.
func (j *Journal) Record(ctx context.Context, id string, typ stream.Type, state stream.State) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO lifecycle (stream_id, stream_type, state, at) VALUES (?, ?, ?, ?)`,
		id, typ.String(), state.String(), time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("journal: record %s/%s: %w", id, state, err)
	}
	return nil
}

// History returns the recorded transitions of one stream, oldest first.
func (j *Journal) History(ctx context.Context, id string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT stream_id, stream_type, state, at FROM lifecycle WHERE stream_id = ? ORDER BY id`,
		id)
	if err != nil {
		return nil, fmt.Errorf("journal: history %s: %w", id, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			typ  string
			st   string
			unix int64
		)
		if err := rows.Scan(&e.StreamID, &typ, &st, &unix); err != nil {
			return nil, fmt.Errorf("journal: scan history row: %w", err)
		}
		e.StreamType = stream.Type(typ)
		e.State = stream.State(st)
		e.At = time.Unix(unix, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
