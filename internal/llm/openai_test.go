package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestChatProvider(t *testing.T, name string, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newChatProvider(name, "test-key", server.URL+"/v1", "gpt-4o-mini")
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
	}
}

func TestChatProviderGenerate(t *testing.T) {
	var got struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name string `json:"name"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	p := newTestChatProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"headline":"On track"}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), UserPrompt("Be kind.", "Summarize.", summarySchema(), 256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"headline":"On track"}` || resp.Usage.TotalTokens != 40 {
		t.Errorf("resp = %s %+v", resp.Content, resp.Usage)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "Summarize." {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat.Type != "json_schema" || got.ResponseFormat.JSONSchema.Name != "test-summary" {
		t.Errorf("response_format = %+v", got.ResponseFormat)
	}
}

func TestChatProviderFinishLength(t *testing.T) {
	p := newTestChatProvider(t, ProviderOpenRouter, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"headline":`, "length"))
	})
	_, err := p.Generate(context.Background(), UserPrompt("", "x", summarySchema(), 4))
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("got %v, want ErrMaxTokensExceeded", err)
	}
	if p.Name() != ProviderOpenRouter {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestChatProviderNoChoices(t *testing.T) {
	p := newTestChatProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","choices":[]}`))
	})
	_, err := p.Generate(context.Background(), UserPrompt("", "x", nil, 4))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidResponse", err)
	}
}

func TestChatProviderRateLimited(t *testing.T) {
	p := newTestChatProvider(t, ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	})
	_, err := p.Generate(context.Background(), UserPrompt("", "x", nil, 4))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("got %v, want ErrRateLimit", err)
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-001"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Error("expected error for missing key")
	}
}
