package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
	"github.com/ryosukesatoh/feed-digest/internal/retry"
	"github.com/ryosukesatoh/feed-digest/internal/summarizer"
)

// Outcome classifies how an item's summary was produced.
type Outcome string

const (
	// OutcomeAISummarized means the provider returned a summary.
	OutcomeAISummarized Outcome = "ai-summarized"
	// OutcomeRawFallback means summarization was intentionally skipped
	// (short content or unavailable provider) and truncated raw content
	// was used instead.
	OutcomeRawFallback Outcome = "raw-fallback"
	// OutcomeSummarizeFailed means every summarization attempt failed and
	// truncated raw content was used instead.
	OutcomeSummarizeFailed Outcome = "summarize-failed"
)

// Result pairs an input item with its summary. Result i of Run corresponds
// to input item i.
type Result struct {
	Item    fetcher.Item
	Summary string
	Outcome Outcome
}

// Options tunes one summarization batch.
type Options struct {
	Summarizer     summarizer.Summarizer
	Translator     summarizer.Translator
	TargetLang     string
	Concurrency    int
	RetryCount     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

// Content at or below this length skips summarization outright.
const minSummarizeLen = 100

// Length cap for fallback excerpts.
const fallbackMaxLen = 200

// Run summarizes every item under a fixed pool of Concurrency workers and
// returns one result per input item, in input order. Summarization failures
// degrade the item to a truncated excerpt; they never drop it. The only
// error Run returns is ctx cancellation, in which case the batch result is
// discarded.
func Run(ctx context.Context, items []fetcher.Item, opts Options) ([]Result, error) {
	if opts.Translator != nil && opts.TargetLang != "" {
		items = translateTitles(ctx, items, opts)
	}

	// Results are index-addressed so completion order cannot reorder the
	// batch. Each index is written by exactly one worker.
	results := make([]Result, len(items))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = summarizeOne(ctx, items[i], opts)
			}
		}()
	}

	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func summarizeOne(ctx context.Context, item fetcher.Item, opts Options) Result {
	if len([]rune(item.Content)) <= minSummarizeLen || !opts.Summarizer.Available() {
		return Result{
			Item:    item,
			Summary: truncate(item.Content, fallbackMaxLen),
			Outcome: OutcomeRawFallback,
		}
	}

	var summary string
	retryCfg := retry.Config{MaxRetries: opts.RetryCount, Delay: opts.RetryDelay}
	err := retry.WithFixedDelay(ctx, retryCfg, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()

		var callErr error
		summary, callErr = opts.Summarizer.Summarize(callCtx, item.Content)
		return callErr
	})
	if err != nil {
		log.Printf("scheduler: summarize %q failed: %v", item.Title, err)
		return Result{
			Item:    item,
			Summary: truncate(item.Content, fallbackMaxLen),
			Outcome: OutcomeSummarizeFailed,
		}
	}

	return Result{
		Item:    item,
		Summary: summary,
		Outcome: OutcomeAISummarized,
	}
}

// translateTitles runs the batch title translation pre-step. Failure keeps
// the original titles and the run proceeds.
func translateTitles(ctx context.Context, items []fetcher.Item, opts Options) []fetcher.Item {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	translated, err := opts.Translator.TranslateTitles(ctx, titles, opts.TargetLang)
	if err != nil || len(translated) != len(items) {
		log.Printf("scheduler: title translation failed, keeping originals: %v", err)
		return items
	}

	out := make([]fetcher.Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Title = translated[i]
	}
	return out
}

// truncate caps s at max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
