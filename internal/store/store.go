package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/config"
	"github.com/ryosukesatoh/feed-digest/internal/digest"
)

// Store persists digests with upsert-by-title semantics: the first upsert
// for a title allocates an identity, later upserts for the same title
// replace content in place and never create a second digest.
type Store interface {
	UpsertByTitle(ctx context.Context, d *digest.Digest) (*digest.Digest, error)
	GetByTitle(ctx context.Context, title string) (*digest.Digest, error)
	Close() error
}

// Checkpoint is the injected last-run state shared across scheduled runs.
type Checkpoint interface {
	LastRun(ctx context.Context) (time.Time, error)
	SetLastRun(ctx context.Context, t time.Time) error
}

// ErrNotFound is returned by GetByTitle when no digest has the title.
var ErrNotFound = fmt.Errorf("store: digest not found")

// New creates a store based on the configuration.
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("store: unsupported store type %q", cfg.Type)
	}
}
