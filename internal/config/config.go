package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Schedule          string         `yaml:"schedule"`
	RunOnStart        bool           `yaml:"run_on_start"`
	SkipFailedFeeds   bool           `yaml:"skip_failed_feeds"`
	TranslateTitlesTo string         `yaml:"translate_titles_to"`
	Feeds             []FeedConfig   `yaml:"feeds"`
	Provider          ProviderConfig `yaml:"provider"`
	Store             StoreConfig    `yaml:"store"`
}

// FeedConfig describes one content source. Days limits the feed to the
// named weekdays (mon..sun); empty means the feed qualifies every day.
type FeedConfig struct {
	Title        string   `yaml:"title"`
	URL          string   `yaml:"url"`
	LookbackDays int      `yaml:"lookback_days"`
	MaxItems     int      `yaml:"max_items"`
	Days         []string `yaml:"days"`
}

type ProviderConfig struct {
	Type                  string `yaml:"type"`
	APIKey                string `yaml:"api_key"`
	BaseURL               string `yaml:"base_url"`
	Model                 string `yaml:"model"`
	MaxTokens             int    `yaml:"max_tokens"`
	Concurrency           int    `yaml:"concurrency"`
	RetryCount            int    `yaml:"retry_count"`
	RetryDelaySeconds     int    `yaml:"retry_delay_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// RetryDelay returns the fixed delay between summarization attempts.
func (p ProviderConfig) RetryDelay() time.Duration {
	return time.Duration(p.RetryDelaySeconds) * time.Second
}

// RequestTimeout returns the per-call summarization timeout.
func (p ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(p.RequestTimeoutSeconds) * time.Second
}

type StoreConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

var weekdays = map[string]bool{
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

func setDefaults(cfg *Config) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 8 * * *"
	}
	for i := range cfg.Feeds {
		if cfg.Feeds[i].LookbackDays == 0 {
			cfg.Feeds[i].LookbackDays = 1
		}
		if cfg.Feeds[i].MaxItems == 0 {
			cfg.Feeds[i].MaxItems = 5
		}
	}
	if cfg.Provider.Type == "" {
		cfg.Provider.Type = "none"
	}
	if cfg.Provider.Model == "" {
		switch cfg.Provider.Type {
		case "openai":
			cfg.Provider.Model = "gpt-4o-mini"
		case "anthropic":
			cfg.Provider.Model = "claude-sonnet-4-20250514"
		}
	}
	if cfg.Provider.MaxTokens == 0 {
		cfg.Provider.MaxTokens = 1024
	}
	if cfg.Provider.Concurrency == 0 {
		cfg.Provider.Concurrency = 3
	}
	if cfg.Provider.RetryCount == 0 {
		cfg.Provider.RetryCount = 2
	}
	if cfg.Provider.RetryDelaySeconds == 0 {
		cfg.Provider.RetryDelaySeconds = 5
	}
	if cfg.Provider.RequestTimeoutSeconds == 0 {
		cfg.Provider.RequestTimeoutSeconds = 30
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
}

func validate(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("config: at least one feed is required")
	}
	for i, f := range cfg.Feeds {
		if f.URL == "" {
			return fmt.Errorf("config: feeds[%d] (%q) has no url", i, f.Title)
		}
		if f.LookbackDays < 1 || f.LookbackDays > 7 {
			return fmt.Errorf("config: feeds[%d] lookback_days must be 1-7, got %d", i, f.LookbackDays)
		}
		for _, d := range f.Days {
			if !weekdays[strings.ToLower(d)] {
				return fmt.Errorf("config: feeds[%d] has unknown day %q", i, d)
			}
		}
	}
	switch cfg.Provider.Type {
	case "openai", "anthropic", "none":
	default:
		return fmt.Errorf("config: unsupported provider type %q (supported: openai, anthropic, none)", cfg.Provider.Type)
	}
	switch cfg.Store.Type {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: unsupported store type %q (supported: memory, sqlite)", cfg.Store.Type)
	}
	if cfg.Store.Type == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("config: store.path is required for sqlite store")
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
