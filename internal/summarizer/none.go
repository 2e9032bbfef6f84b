package summarizer

import "context"

// NoneSummarizer is the provider used when no backend is configured. It is
// never available, so the scheduler falls back to truncated raw content for
// every item without making a call.
type NoneSummarizer struct{}

func NewNoneSummarizer() *NoneSummarizer {
	return &NoneSummarizer{}
}

func (n *NoneSummarizer) Available() bool {
	return false
}

func (n *NoneSummarizer) Summarize(_ context.Context, content string) (string, error) {
	return content, nil
}
