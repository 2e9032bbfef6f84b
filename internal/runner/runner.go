package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/config"
	"github.com/ryosukesatoh/feed-digest/internal/digest"
	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
	"github.com/ryosukesatoh/feed-digest/internal/normalize"
	"github.com/ryosukesatoh/feed-digest/internal/scheduler"
	"github.com/ryosukesatoh/feed-digest/internal/store"
	"github.com/ryosukesatoh/feed-digest/internal/summarizer"
)

// ErrNoFeeds is returned before any network call when zero feeds qualify
// for the run, so callers can distinguish "nothing configured for today"
// from a fetch failure.
var ErrNoFeeds = errors.New("runner: no feeds qualify for this run")

// Runner orchestrates one fetch -> normalize -> summarize -> assemble ->
// persist pipeline run.
type Runner struct {
	cfg        *config.Config
	fetcher    fetcher.Fetcher
	summarizer summarizer.Summarizer
	store      store.Store
	checkpoint store.Checkpoint
	now        func() time.Time
}

func New(cfg *config.Config, f fetcher.Fetcher, s summarizer.Summarizer, st store.Store, cp store.Checkpoint) *Runner {
	return &Runner{
		cfg:        cfg,
		fetcher:    f,
		summarizer: s,
		store:      st,
		checkpoint: cp,
		now:        time.Now,
	}
}

// Run executes the full pipeline once and returns the persisted digest.
// A feed fetch failure fails the run unless skip_failed_feeds is set;
// per-item summarization failures only degrade the affected items.
func (r *Runner) Run(ctx context.Context, kind digest.Kind) (*digest.Digest, error) {
	now := r.now()

	feeds := qualifyingFeeds(r.cfg.Feeds, now)
	if len(feeds) == 0 {
		return nil, ErrNoFeeds
	}
	log.Printf("Starting %s run with %d feed(s)", kind, len(feeds))

	perFeed, err := r.fetchFeeds(ctx, feeds)
	if err != nil {
		return nil, err
	}

	var items []fetcher.Item
	for i, feedItems := range perFeed {
		cleaned := normalize.Normalize(feedItems, feeds[i].MaxItems)
		windowed := normalize.FilterWindow(cleaned, now, feeds[i].LookbackDays)
		log.Printf("Feed %q: %d fetched, %d after normalize, %d in window",
			feeds[i].Title, len(feedItems), len(cleaned), len(windowed))
		items = append(items, windowed...)
	}

	results, err := scheduler.Run(ctx, items, scheduler.Options{
		Summarizer:     r.summarizer,
		Translator:     r.translator(),
		TargetLang:     r.cfg.TranslateTitlesTo,
		Concurrency:    r.cfg.Provider.Concurrency,
		RetryCount:     r.cfg.Provider.RetryCount,
		RetryDelay:     r.cfg.Provider.RetryDelay(),
		RequestTimeout: r.cfg.Provider.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("runner: summarization batch: %w", err)
	}

	content := digest.Assemble(results, digest.AssembleOptions{
		Date:                now,
		ProviderUnavailable: !r.summarizer.Available(),
	})

	d := &digest.Digest{
		Title:     digest.TitleFor(now),
		Content:   content,
		CreatedAt: now,
		Kind:      kind,
		Items:     digest.Outcomes(results),
	}

	persisted, err := r.store.UpsertByTitle(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("runner: persist digest: %w", err)
	}

	if r.checkpoint != nil {
		if err := r.checkpoint.SetLastRun(ctx, now); err != nil {
			log.Printf("WARNING: failed to record run checkpoint: %v", err)
		}
	}

	log.Printf("Digest %q persisted with %d item(s)", persisted.Title, len(persisted.Items))
	return persisted, nil
}

// fetchFeeds retrieves all feeds in parallel. With skip_failed_feeds a
// failure empties that feed's slot instead of failing the run.
func (r *Runner) fetchFeeds(ctx context.Context, feeds []config.FeedConfig) ([][]fetcher.Item, error) {
	if !r.cfg.SkipFailedFeeds {
		return fetcher.FetchAll(ctx, r.fetcher, feeds)
	}

	results := make([][]fetcher.Item, len(feeds))
	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := r.fetcher.Fetch(ctx, feed)
			if err != nil {
				log.Printf("WARNING: skipping feed %q: %v", feed.Title, err)
				return
			}
			results[i] = items
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// translator returns the provider's batch translator when it has one.
func (r *Runner) translator() summarizer.Translator {
	if t, ok := r.summarizer.(summarizer.Translator); ok {
		return t
	}
	return nil
}

// qualifyingFeeds keeps feeds that have a URL and are scheduled for the
// run date's weekday.
func qualifyingFeeds(feeds []config.FeedConfig, now time.Time) []config.FeedConfig {
	day := strings.ToLower(now.Weekday().String()[:3])

	out := make([]config.FeedConfig, 0, len(feeds))
	for _, f := range feeds {
		if f.URL == "" {
			continue
		}
		if len(f.Days) > 0 && !containsDay(f.Days, day) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if strings.ToLower(d) == day {
			return true
		}
	}
	return false
}
