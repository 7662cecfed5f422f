// Package llm is a small provider-neutral layer over the hosted language
// models used for parent-facing summaries. Every provider returns JSON that
// has been checked against the caller's schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured completion.
type Provider interface {
	// Generate runs req. When req.Schema is set the returned Content is
	// JSON that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider name, e.g. "anthropic".
	Name() string

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int

	// Temperature in [0,1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a request with one user message.
func UserPrompt(system, prompt string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Schema is a named JSON Schema. Name doubles as the structured-output
// name on providers that require one, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons normalized across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a completed generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks shared by every provider: truncated output is
// an error and structured output must match its schema.
func finish(req Request, content json.RawMessage, stop string) error {
	if stop == StopMaxTokens {
		return &ErrMaxTokensExceeded{Content: content}
	}
	return validateResponse(req.Schema, content)
}

// resolveModel maps a short alias to a full model id. Unknown names pass
// through unchanged.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
