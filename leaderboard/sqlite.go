package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scores (
	id         TEXT PRIMARY KEY,
	nickname   TEXT NOT NULL,
	score      INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS scores_rank ON scores (score DESC, created_at ASC);
`

// sqliteTime is fixed-width so text order matches time order.
const sqliteTime = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore persists records in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is empty", ErrUnavailable)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", ErrUnavailable, err)
	}
	// A single connection keeps ":memory:" databases shared and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %v", ErrUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (id, nickname, score, created_at) VALUES (?, ?, ?, ?)`,
		r.ID.String(), r.Nickname, r.Score, r.CreatedAt.UTC().Format(sqliteTime))
	if err != nil {
		return fmt.Errorf("%w: insert score: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return []Record{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, nickname, score, created_at FROM scores
		 ORDER BY score DESC, created_at ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("%w: query scores: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	records := make([]Record, 0, n)
	for rows.Next() {
		var (
			r         Record
			id, stamp string
		)
		if err := rows.Scan(&id, &r.Nickname, &r.Score, &stamp); err != nil {
			return nil, fmt.Errorf("%w: scan score: %v", ErrUnavailable, err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%w: bad id %q: %v", ErrUnavailable, id, err)
		}
		if r.CreatedAt, err = time.Parse(sqliteTime, stamp); err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", ErrUnavailable, stamp, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read scores: %v", ErrUnavailable, err)
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
