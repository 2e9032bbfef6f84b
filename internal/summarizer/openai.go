package summarizer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ryosukesatoh/feed-digest/internal/config"
)

// OpenAISummarizer reaches any OpenAI-compatible chat completion endpoint.
// It also implements Translator.
type OpenAISummarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
	apiKey    string
}

func NewOpenAISummarizer(cfg config.ProviderConfig) *OpenAISummarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAISummarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		apiKey:    cfg.APIKey,
	}
}

func (s *OpenAISummarizer) Available() bool {
	return s.apiKey != ""
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, content string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// TranslateTitles translates all titles in one call. Titles are sent and
// returned as a numbered list so order and count survive the round trip.
func (s *OpenAISummarizer) TranslateTitles(ctx context.Context, titles []string, lang string) ([]string, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for i, title := range titles {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, title)
	}

	prompt := fmt.Sprintf(
		"Translate the following numbered titles into %s. Respond with the same numbered list, one translated title per line, nothing else.\n\n%s",
		lang, sb.String(),
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: translate titles: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty response")
	}

	translated, err := parseNumberedList(resp.Choices[0].Message.Content, len(titles))
	if err != nil {
		return nil, fmt.Errorf("openai: translate titles: %w", err)
	}
	return translated, nil
}

// parseNumberedList extracts exactly want entries from a "1. ..." list.
func parseNumberedList(body string, want int) ([]string, error) {
	out := make([]string, 0, want)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		dot := strings.Index(line, ".")
		if dot <= 0 {
			continue
		}
		if _, err := fmt.Sscanf(line[:dot], "%d", new(int)); err != nil {
			continue
		}
		out = append(out, strings.TrimSpace(line[dot+1:]))
	}
	if len(out) != want {
		return nil, fmt.Errorf("expected %d entries, got %d", want, len(out))
	}
	return out, nil
}
