package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryosukesatoh/feed-digest/internal/config"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		providerType string
		want         string
	}{
		{"openai", "*summarizer.OpenAISummarizer"},
		{"anthropic", "*summarizer.AnthropicSummarizer"},
		{"none", "*summarizer.NoneSummarizer"},
	}

	for _, tt := range tests {
		s, err := New(config.ProviderConfig{Type: tt.providerType, APIKey: "k"})
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", tt.providerType, err)
		}
		if got := fmt.Sprintf("%T", s); got != tt.want {
			t.Errorf("New(%q) = %s, want %s", tt.providerType, got, tt.want)
		}
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(config.ProviderConfig{Type: "bard"}); err == nil {
		t.Fatal("Expected error for unknown provider type")
	}
}

func TestAvailability(t *testing.T) {
	withKey := config.ProviderConfig{Type: "openai", APIKey: "k"}
	withoutKey := config.ProviderConfig{Type: "openai"}

	if !NewOpenAISummarizer(withKey).Available() {
		t.Error("Expected openai summarizer with key to be available")
	}
	if NewOpenAISummarizer(withoutKey).Available() {
		t.Error("Expected openai summarizer without key to be unavailable")
	}
	if !NewAnthropicSummarizer(config.ProviderConfig{Type: "anthropic", APIKey: "k"}).Available() {
		t.Error("Expected anthropic summarizer with key to be available")
	}
	if NewNoneSummarizer().Available() {
		t.Error("Expected none summarizer to always be unavailable")
	}
}

func TestParseNumberedList(t *testing.T) {
	body := "1. First title\n2. Second title\n\n3. Third title\n"
	got, err := parseNumberedList(body, 3)
	if err != nil {
		t.Fatalf("parseNumberedList returned error: %v", err)
	}
	want := []string{"First title", "Second title", "Third title"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseNumberedListCountMismatch(t *testing.T) {
	if _, err := parseNumberedList("1. Only one", 2); err == nil {
		t.Fatal("Expected error for missing entries")
	}
}

func TestAnthropicSummarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected single user message, got %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{{Type: "text", Text: "  A tidy summary.  "}},
		})
	}))
	defer ts.Close()

	s := NewAnthropicSummarizer(config.ProviderConfig{
		Type:    "anthropic",
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-20250514",
		BaseURL: ts.URL,
	})

	got, err := s.Summarize(context.Background(), "Some article content.")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "A tidy summary." {
		t.Errorf("Expected trimmed summary, got %q", got)
	}
}

func TestAnthropicSummarizeAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(anthropicResponse{
			Error: &anthropicError{Type: "overloaded_error", Message: "try later"},
		})
	}))
	defer ts.Close()

	s := NewAnthropicSummarizer(config.ProviderConfig{
		Type:    "anthropic",
		APIKey:  "test-key",
		BaseURL: ts.URL,
	})

	if _, err := s.Summarize(context.Background(), "content"); err == nil {
		t.Fatal("Expected API error to surface")
	}
}

// writeOpenAIResponse writes the minimal chat completion shape the client reads.
func writeOpenAIResponse(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestOpenAISummarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", r.Header.Get("Authorization"))
		}
		writeOpenAIResponse(w, "A concise summary.")
	}))
	defer ts.Close()

	s := NewOpenAISummarizer(config.ProviderConfig{
		Type:    "openai",
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: ts.URL + "/v1",
	})

	got, err := s.Summarize(context.Background(), "Some article content.")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "A concise summary." {
		t.Errorf("Expected summary, got %q", got)
	}
}

func TestOpenAITranslateTitles(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeOpenAIResponse(w, "1. Premier titre\n2. Deuxieme titre")
	}))
	defer ts.Close()

	s := NewOpenAISummarizer(config.ProviderConfig{
		Type:    "openai",
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: ts.URL + "/v1",
	})

	got, err := s.TranslateTitles(context.Background(), []string{"First title", "Second title"}, "French")
	if err != nil {
		t.Fatalf("TranslateTitles returned error: %v", err)
	}
	if got[0] != "Premier titre" || got[1] != "Deuxieme titre" {
		t.Errorf("Unexpected translations: %v", got)
	}
}
