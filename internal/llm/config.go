package llm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned when no provider is selected and none can be
// discovered from the environment.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config selects and configures the provider behind parent summaries.
// An empty Provider disables LLM features.
type Config struct {
	Provider string        `env:"LDSCREEN_LLM_PROVIDER"`
	Timeout  time.Duration `env:"LDSCREEN_LLM_TIMEOUT" envDefault:"30s"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

type AnthropicConfig struct {
	APIKey string `env:"LDSCREEN_ANTHROPIC_API_KEY"`
	Model  string `env:"LDSCREEN_ANTHROPIC_MODEL" envDefault:"claude-haiku"`
}

type OpenAIConfig struct {
	APIKey  string `env:"LDSCREEN_OPENAI_API_KEY"`
	Model   string `env:"LDSCREEN_OPENAI_MODEL"    envDefault:"gpt-4o-mini"`
	BaseURL string `env:"LDSCREEN_OPENAI_BASE_URL"`
}

type GeminiConfig struct {
	APIKey string `env:"LDSCREEN_GEMINI_API_KEY"`
	Model  string `env:"LDSCREEN_GEMINI_MODEL" envDefault:"gemini-flash"`
}

type OpenRouterConfig struct {
	APIKey  string `env:"LDSCREEN_OPENROUTER_API_KEY"`
	Model   string `env:"LDSCREEN_OPENROUTER_MODEL"    envDefault:"google/gemini-2.0-flash-001"`
	BaseURL string `env:"LDSCREEN_OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
}

// RetryConfig controls backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts int           `env:"LDSCREEN_LLM_RETRY_ATTEMPTS"     envDefault:"3"`
	InitialWait time.Duration `env:"LDSCREEN_LLM_RETRY_INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"LDSCREEN_LLM_RETRY_MAX_WAIT"     envDefault:"10s"`
	Multiplier  float64       `env:"LDSCREEN_LLM_RETRY_MULTIPLIER"   envDefault:"2"`
}

// LoadConfig reads the LLM configuration from LDSCREEN_* variables. When no
// provider is named it falls back to the first vendor key found in the
// environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse LLM config: %w", err)
	}
	if cfg.Provider == "" {
		discover(&cfg)
	}
	return cfg, nil
}

// vendorKeys lists the conventional API key variables in probe order.
var vendorKeys = []struct {
	variable string
	provider string
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

func discover(cfg *Config) {
	for _, vk := range vendorKeys {
		key := os.Getenv(vk.variable)
		if key == "" {
			continue
		}
		cfg.Provider = vk.provider
		cfg.setKey(key)
		return
	}
}

func (c *Config) setKey(key string) {
	switch c.Provider {
	case ProviderAnthropic:
		c.Anthropic.APIKey = key
	case ProviderOpenAI:
		c.OpenAI.APIKey = key
	case ProviderGemini:
		c.Gemini.APIKey = key
	case ProviderOpenRouter:
		c.OpenRouter.APIKey = key
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	var key, variable string
	switch c.Provider {
	case "":
		return ErrNotConfigured
	case ProviderMock:
		return nil
	case ProviderAnthropic:
		key, variable = c.Anthropic.APIKey, "LDSCREEN_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, variable = c.OpenAI.APIKey, "LDSCREEN_OPENAI_API_KEY"
	case ProviderGemini:
		key, variable = c.Gemini.APIKey, "LDSCREEN_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, variable = c.OpenRouter.APIKey, "LDSCREEN_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", variable, c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
