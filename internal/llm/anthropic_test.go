package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
	}
}

func TestAnthropicProviderGenerate(t *testing.T) {
	var got map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"headline":"Steady reader"}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), UserPrompt("Be kind.", "Summarize.", summarySchema(), 256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"headline":"Steady reader"}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 52 || resp.StopReason != StopEnd {
		t.Errorf("usage = %+v stop = %s", resp.Usage, resp.StopReason)
	}
	if got["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("alias not resolved: model = %v", got["model"])
	}
	if p.Name() != ProviderAnthropic {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestAnthropicProviderTruncated(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"headline":"Ste`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "Summarize.", summarySchema(), 8))
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("got %v, want ErrMaxTokensExceeded", err)
	}
}

func TestAnthropicProviderErrors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{http.StatusInternalServerError, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"nope"}}`))
			})
			_, err := p.Generate(context.Background(), UserPrompt("", "hi", nil, 16))
			if !tt.check(err) {
				t.Fatalf("unexpected error type: %v", err)
			}
		})
	}
}

func TestAnthropicProviderRequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error for missing key")
	}
}
