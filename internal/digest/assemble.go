package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/ryosukesatoh/feed-digest/internal/scheduler"
)

// AssembleOptions controls rendering of one digest document.
type AssembleOptions struct {
	Date                time.Time
	ProviderUnavailable bool
}

// Assemble renders the summarized items into a single markdown document,
// one subsection per item in input order. An empty batch renders an
// explicit placeholder instead of an empty document.
func Assemble(results []scheduler.Result, opts AssembleOptions) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", TitleFor(opts.Date))

	if opts.ProviderUnavailable {
		sb.WriteString("> Note: AI summarization was unavailable for this run; items show raw excerpts.\n\n")
	}

	if len(results) == 0 {
		sb.WriteString("No new items were found in any configured feed for this period.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "%d item(s) across your feeds.\n\n", len(results))

	for _, r := range results {
		fmt.Fprintf(&sb, "## %s\n\n", r.Item.Title)
		fmt.Fprintf(&sb, "Source: [%s](%s)\n\n", r.Item.FeedTitle, r.Item.Link)
		if r.Summary != "" {
			fmt.Fprintf(&sb, "%s\n\n", r.Summary)
		}
		if !r.Item.Published.IsZero() {
			fmt.Fprintf(&sb, "Published: %s\n\n", r.Item.Published.Format("2006-01-02 15:04"))
		}
		fmt.Fprintf(&sb, "<!-- outcome: %s -->\n\n", r.Outcome)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// Outcomes extracts the per-item outcome records for persistence.
func Outcomes(results []scheduler.Result) []ItemOutcome {
	out := make([]ItemOutcome, len(results))
	for i, r := range results {
		out[i] = ItemOutcome{
			Title:   r.Item.Title,
			Link:    r.Item.Link,
			Outcome: r.Outcome,
		}
	}
	return out
}
