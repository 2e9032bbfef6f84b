package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/config"
)

// Fetcher retrieves one feed's items.
type Fetcher interface {
	Fetch(ctx context.Context, feed config.FeedConfig) ([]Item, error)
}

// Item is one raw feed entry as fetched, before normalization.
type Item struct {
	Link      string
	Title     string
	Published time.Time
	Creator   string
	Content   string
	FeedTitle string
	FeedURL   string
}

// FetchError reports a failed feed fetch (unreachable, malformed, or timed
// out). One FetchError fails the whole run unless the runner is configured
// to skip failed feeds.
type FetchError struct {
	Feed string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher: feed %q: %v", e.Feed, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
