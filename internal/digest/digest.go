package digest

import (
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/scheduler"
)

// Kind distinguishes user-triggered runs from cron-triggered ones.
type Kind string

const (
	KindManual    Kind = "manual"
	KindScheduled Kind = "scheduled"
)

// Digest is the aggregated, rendered output document for one run. Title is
// the upsert key: one digest per date, replaced in place on regeneration.
type Digest struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	Kind      Kind
	Items     []ItemOutcome
}

// ItemOutcome records how one item's summary was produced.
type ItemOutcome struct {
	Title   string
	Link    string
	Outcome scheduler.Outcome
}

// TitleFor derives the deterministic digest title for a run date.
func TitleFor(date time.Time) string {
	return "Daily Digest " + date.Format("2006-01-02")
}
