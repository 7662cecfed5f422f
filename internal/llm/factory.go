package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/store"
)

// New builds the provider selected by cfg. Calls flow through a per-call
// timeout, then retry, then journaling, then the vendor client, so every
// attempt is journaled separately.
func New(ctx context.Context, cfg Config, events store.EventRepo, c clock.Clock, log *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	var p Provider = WithLogging(base, events, c, log)
	p = WithRetry(p, cfg.Retry, log)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{Provider: p, timeout: cfg.Timeout}
	}
	return p, nil
}

// timeoutProvider bounds a whole Generate call, retries included.
type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}
