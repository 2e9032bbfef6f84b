package normalize

import (
	"html"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
)

// Normalize cleans raw feed items: unescapes HTML entities, strips markup
// from content, deduplicates by title within the feed (first occurrence
// wins), and caps the list at maxItems. Idempotent.
func Normalize(items []fetcher.Item, maxItems int) []fetcher.Item {
	out := make([]fetcher.Item, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, item := range items {
		if seen[item.Title] {
			continue
		}
		seen[item.Title] = true

		item.Content = CleanContent(item.Content)
		out = append(out, item)

		if maxItems > 0 && len(out) >= maxItems {
			break
		}
	}

	return out
}

// CleanContent unescapes common HTML entities and, when the content looks
// like markup, extracts the visible text with script/style/noscript dropped.
func CleanContent(content string) string {
	content = html.UnescapeString(content)

	if !looksLikeMarkup(content) {
		return strings.TrimSpace(content)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Unparsable markup: keep the unescaped text rather than drop the item.
		log.Printf("normalize: failed to parse markup, keeping raw content: %v", err)
		return strings.TrimSpace(content)
	}

	doc.Find("script, style, noscript").Remove()

	return collapseWhitespace(doc.Text())
}

// looksLikeMarkup reports whether content starts with optional whitespace
// followed by an opening angle bracket.
func looksLikeMarkup(content string) bool {
	return strings.HasPrefix(strings.TrimLeft(content, " \t\r\n"), "<")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
