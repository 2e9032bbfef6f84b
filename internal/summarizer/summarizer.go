package summarizer

import (
	"context"
	"fmt"

	"github.com/ryosukesatoh/feed-digest/internal/config"
)

// Summarizer condenses one item's content into a short summary. Available
// reports whether the backend is minimally configured (e.g. a credential is
// present); when it is false the scheduler bypasses Summarize entirely.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
	Available() bool
}

// Translator batch-translates item titles. The call covers the whole batch;
// failure is never fatal to a run.
type Translator interface {
	TranslateTitles(ctx context.Context, titles []string, lang string) ([]string, error)
}

// New creates a summarizer based on the configuration.
func New(cfg config.ProviderConfig) (Summarizer, error) {
	switch cfg.Type {
	case "openai":
		return NewOpenAISummarizer(cfg), nil
	case "anthropic":
		return NewAnthropicSummarizer(cfg), nil
	case "none":
		return NewNoneSummarizer(), nil
	default:
		return nil, fmt.Errorf("summarizer: unsupported provider type %q", cfg.Type)
	}
}

const summarySystemPrompt = `You are an editor for a daily content digest. Summarize the article the user provides in 2-3 plain sentences. Mention concrete names, numbers, and outcomes where present. Respond with the summary only, no preamble and no markdown.`
