package normalize

import (
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
)

// FilterWindow keeps items published within the lookback span ending at now.
// The boundary is inclusive. Items without a parsable publish time have a
// zero Published and are always kept rather than silently dropped.
func FilterWindow(items []fetcher.Item, now time.Time, lookbackDays int) []fetcher.Item {
	cutoff := now.Add(-time.Duration(lookbackDays) * 24 * time.Hour)

	out := make([]fetcher.Item, 0, len(items))
	for _, item := range items {
		if item.Published.IsZero() || !item.Published.Before(cutoff) {
			out = append(out, item)
		}
	}
	return out
}
