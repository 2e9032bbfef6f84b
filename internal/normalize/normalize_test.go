package normalize

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
)

func TestCleanContentUnescapesEntities(t *testing.T) {
	got := CleanContent("Ben &amp; Jerry&#39;s")
	if got != "Ben & Jerry's" {
		t.Errorf("Expected unescaped entities, got %q", got)
	}
}

func TestCleanContentStripsMarkup(t *testing.T) {
	content := `  <div>
	<p>Visible text.</p>
	<script>alert("no")</script>
	<style>p{}</style>
	<noscript>off</noscript>
	<p>More text.</p>
	</div>`
	got := CleanContent(content)

	if got != "Visible text. More text." {
		t.Errorf("Expected visible text only, got %q", got)
	}
	if strings.Contains(got, "alert") {
		t.Error("Expected script content to be dropped")
	}
}

func TestCleanContentLeavesPlainTextAlone(t *testing.T) {
	got := CleanContent("Just a plain sentence, 2 < 3 is fine mid-text.")
	if got != "Just a plain sentence, 2 < 3 is fine mid-text." {
		t.Errorf("Plain text changed: %q", got)
	}
}

func TestNormalizeDeduplicatesByTitle(t *testing.T) {
	items := []fetcher.Item{
		{Title: "Same", Link: "first", Content: "one"},
		{Title: "Same", Link: "second", Content: "two"},
		{Title: "Other", Content: "three"},
	}

	out := Normalize(items, 10)
	if len(out) != 2 {
		t.Fatalf("Expected 2 items after dedup, got %d", len(out))
	}
	// First occurrence wins.
	if out[0].Link != "first" {
		t.Errorf("Expected first occurrence kept, got link %q", out[0].Link)
	}
}

func TestNormalizeCapsItems(t *testing.T) {
	items := []fetcher.Item{
		{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
	}

	out := Normalize(items, 2)
	if len(out) != 2 {
		t.Fatalf("Expected cap of 2 items, got %d", len(out))
	}
	if out[0].Title != "a" || out[1].Title != "b" {
		t.Errorf("Expected first items kept in order, got %+v", out)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	items := []fetcher.Item{
		{Title: "One", Content: "<p>Hello world, this is content.</p>"},
		{Title: "Two", Content: "Plain text content."},
		{Title: "One", Content: "duplicate"},
	}

	once := Normalize(items, 5)
	twice := Normalize(once, 5)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
