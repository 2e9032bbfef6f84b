package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ryosukesatoh/feed-digest/internal/digest"
)

// SQLiteStore persists digests in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS digest (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	kind TEXT NOT NULL,
	items TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_state (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", path, err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent upserts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) UpsertByTitle(ctx context.Context, d *digest.Digest) (*digest.Digest, error) {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return nil, fmt.Errorf("store: marshal items: %w", err)
	}

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO digest (id, title, content, created_at, kind, items)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			content = excluded.content,
			created_at = excluded.created_at,
			kind = excluded.kind,
			items = excluded.items`,
		uuid.NewString(), d.Title, d.Content, createdAt.Unix(), string(d.Kind), string(items),
	)
	if err != nil {
		return nil, fmt.Errorf("store: upsert digest %q: %w", d.Title, err)
	}

	return s.GetByTitle(ctx, d.Title)
}

func (s *SQLiteStore) GetByTitle(ctx context.Context, title string) (*digest.Digest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, kind, items FROM digest WHERE title = ?`, title)

	var d digest.Digest
	var createdAt int64
	var kind, items string
	if err := row.Scan(&d.ID, &d.Title, &d.Content, &createdAt, &kind, &items); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get digest %q: %w", title, err)
	}

	d.CreatedAt = time.Unix(createdAt, 0)
	d.Kind = digest.Kind(kind)
	if err := json.Unmarshal([]byte(items), &d.Items); err != nil {
		return nil, fmt.Errorf("store: unmarshal items for %q: %w", title, err)
	}

	return &d, nil
}

func (s *SQLiteStore) LastRun(ctx context.Context) (time.Time, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM run_state WHERE key = 'last_run'`)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("store: get last run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("store: parse last run: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) SetLastRun(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_state (key, value) VALUES ('last_run', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		t.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: set last run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
