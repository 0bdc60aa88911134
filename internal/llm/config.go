package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config selects and configures one LLM provider.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter", "mock".
	Provider string

	// Model is a friendly name ("gemini-flash") or a provider model ID.
	// Empty selects the provider default.
	Model string

	APIKey string

	// BaseURL overrides the endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transport failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// defaultModels is the model used when Config.Model is empty.
var defaultModels = map[string]string{
	"gemini":     "gemini-flash",
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-haiku",
	"openrouter": "google/gemini-2.0-flash-exp",
	"mock":       "mock",
}

// nativeKeys lists provider-native API key variables in discovery order.
var nativeKeys = []struct {
	provider string
	env      string
}{
	{"gemini", "GEMINI_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// DefaultConfig returns a Config with the retry and timeout defaults and no
// provider selected. A quiz round is waiting on the answer, so the budget
// is short.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// ConfigFromEnv builds a Config from MATHPOP_LLM_* variables, falling back
// to the provider-native key variables. It reports false when no provider
// could be selected.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv("MATHPOP_LLM_PROVIDER")
	cfg.APIKey = os.Getenv("MATHPOP_LLM_API_KEY")
	cfg.Model = os.Getenv("MATHPOP_LLM_MODEL")
	cfg.BaseURL = os.Getenv("MATHPOP_LLM_BASE_URL")

	if cfg.Provider == "" {
		for _, k := range nativeKeys {
			if v := os.Getenv(k.env); v != "" {
				cfg.Provider = k.provider
				if cfg.APIKey == "" {
					cfg.APIKey = v
				}
				break
			}
		}
	} else if cfg.APIKey == "" {
		for _, k := range nativeKeys {
			if k.provider == cfg.Provider {
				cfg.APIKey = os.Getenv(k.env)
			}
		}
	}
	if cfg.Provider == "" {
		return Config{}, false
	}

	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if n, err := strconv.Atoi(os.Getenv("MATHPOP_LLM_MAX_RETRIES")); err == nil && n >= 0 {
		cfg.Retry.MaxAttempts = n + 1
	}
	if d, err := time.ParseDuration(os.Getenv("MATHPOP_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg, true
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Provider != "mock" && c.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider (set MATHPOP_LLM_API_KEY)", c.Provider)
	}
	return nil
}
