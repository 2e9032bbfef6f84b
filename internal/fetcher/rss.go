package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/ryosukesatoh/feed-digest/internal/config"
)

// defaultFeedTimeout bounds a single feed fetch. The deadline cancels the
// underlying HTTP request, not just the wait for it.
const defaultFeedTimeout = 30 * time.Second

// RSSFetcher fetches and parses RSS/Atom feeds.
type RSSFetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{
		client:  &http.Client{Timeout: defaultFeedTimeout},
		timeout: defaultFeedTimeout,
	}
}

// Fetch retrieves one feed and returns its parsed items.
func (f *RSSFetcher) Fetch(ctx context.Context, feed config.FeedConfig) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, &FetchError{Feed: feed.Title, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Feed: feed.Title, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Feed: feed.Title, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, &FetchError{Feed: feed.Title, Err: fmt.Errorf("parse feed: %w", err)}
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		var published time.Time
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		content := entry.Content
		if content == "" {
			content = entry.Description
		}

		var creator string
		if len(entry.Authors) > 0 {
			creator = entry.Authors[0].Name
		}

		items = append(items, Item{
			Link:      entry.Link,
			Title:     entry.Title,
			Published: published,
			Creator:   creator,
			Content:   content,
			FeedTitle: feed.Title,
			FeedURL:   feed.URL,
		})
	}

	return items, nil
}

// FetchAll fetches every feed in parallel, one goroutine per feed. The
// result slice is indexed like feeds. The first failure cancels the
// remaining fetches and fails the whole batch.
func FetchAll(ctx context.Context, f Fetcher, feeds []config.FeedConfig) ([][]Item, error) {
	results := make([][]Item, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, feed := range feeds {
		g.Go(func() error {
			items, err := f.Fetch(ctx, feed)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
