package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ryosukesatoh/feed-digest/internal/digest"
)

// MemoryStore keeps digests in memory, keyed by title.
type MemoryStore struct {
	mu      sync.Mutex
	byTitle map[string]*digest.Digest
	lastRun time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTitle: make(map[string]*digest.Digest)}
}

func (s *MemoryStore) UpsertByTitle(_ context.Context, d *digest.Digest) (*digest.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := *d
	if existing, ok := s.byTitle[d.Title]; ok {
		merged.ID = existing.ID
	} else {
		merged.ID = uuid.NewString()
	}
	if merged.CreatedAt.IsZero() {
		merged.CreatedAt = time.Now()
	}

	s.byTitle[d.Title] = &merged

	out := merged
	return &out, nil
}

func (s *MemoryStore) GetByTitle(_ context.Context, title string) (*digest.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.byTitle[title]
	if !ok {
		return nil, ErrNotFound
	}
	out := *d
	return &out, nil
}

func (s *MemoryStore) LastRun(_ context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, nil
}

func (s *MemoryStore) SetLastRun(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = t
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
