package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryosukesatoh/feed-digest/internal/config"
	"github.com/ryosukesatoh/feed-digest/internal/digest"
	"github.com/ryosukesatoh/feed-digest/internal/fetcher"
	"github.com/ryosukesatoh/feed-digest/internal/runner"
	"github.com/ryosukesatoh/feed-digest/internal/store"
	"github.com/ryosukesatoh/feed-digest/internal/summarizer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestComponentWiringFromConfig(t *testing.T) {
	t.Setenv("FEED_DIGEST_TEST_KEY", "wired-key")

	path := writeConfig(t, `
schedule: "0 7 * * *"
translate_titles_to: "ja"
feeds:
  - title: "Example"
    url: "https://example.com/feed.xml"
    lookback_days: 2
    max_items: 3
provider:
  type: "openai"
  api_key: "${FEED_DIGEST_TEST_KEY}"
store:
  type: "sqlite"
  path: "` + filepath.Join(t.TempDir(), "digests.db") + `"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	s, err := summarizer.New(cfg.Provider)
	if err != nil {
		t.Fatalf("Failed to build summarizer: %v", err)
	}
	if !s.Available() {
		t.Error("Expected provider with key to be available")
	}
	if _, ok := s.(summarizer.Translator); !ok {
		t.Error("Expected openai provider to support title translation")
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	if _, ok := st.(store.Checkpoint); !ok {
		t.Error("Expected sqlite store to implement Checkpoint")
	}
}

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, feed config.FeedConfig) ([]fetcher.Item, error) {
	return []fetcher.Item{{
		Title:     "One item",
		Link:      "https://example.com/one",
		FeedTitle: feed.Title,
		Content:   "Short body.",
	}}, nil
}

func TestOnceModePipeline(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - title: "Example"
    url: "https://example.com/feed.xml"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	s, err := summarizer.New(cfg.Provider)
	if err != nil {
		t.Fatalf("Failed to build summarizer: %v", err)
	}

	st := store.NewMemoryStore()
	r := runner.New(cfg, staticFetcher{}, s, st, st)

	d, err := r.Run(context.Background(), digest.KindManual)
	if err != nil {
		t.Fatalf("Pipeline run failed: %v", err)
	}
	if !strings.Contains(d.Content, "## One item") {
		t.Errorf("Expected rendered item subsection, got:\n%s", d.Content)
	}
	if d.Kind != digest.KindManual {
		t.Errorf("Expected manual kind, got %q", d.Kind)
	}
}
