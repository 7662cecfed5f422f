package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/store"
)

// LoggingProvider journals every request, successful or not.
type LoggingProvider struct {
	inner  Provider
	events store.EventRepo
	clock  clock.Clock
	log    *slog.Logger
}

// WithLogging wraps p so each Generate call is appended to events. A nil
// logger uses slog.Default.
func WithLogging(p Provider, events store.EventRepo, c clock.Clock, log *slog.Logger) Provider {
	if log == nil {
		log = slog.Default()
	}
	return &LoggingProvider{inner: p, events: events, clock: c, log: log}
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.clock.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.clock.Now().Sub(start)

	ev := store.LLMRequestEventData{
		Provider:    l.inner.Name(),
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	l.log.Debug("llm request",
		"provider", ev.Provider, "model", ev.Model, "purpose", ev.Purpose,
		"latency", latency, "ok", ev.Success)
	if jerr := l.events.AppendLLMRequest(ctx, ev); jerr != nil {
		l.log.Warn("journal llm request", "error", jerr)
	}
	return resp, err
}

// renderRequest flattens req into the text stored with the event.
func renderRequest(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", title, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
