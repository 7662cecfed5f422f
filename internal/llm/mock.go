package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJSON scripts a reply whose content is v encoded as JSON.
func MockJSON(v any) MockResponse {
	raw, err := json.Marshal(v)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: raw, Usage: Usage{InputTokens: 10, OutputTokens: len(raw), TotalTokens: 10 + len(raw)}}
}

// MockProvider replays scripted replies in order and records requests.
// Scripted content is validated against the request schema like a real
// provider's output.
type MockProvider struct {
	mu      sync.Mutex
	replies []MockResponse
	calls   []Request
}

// NewMockProvider returns a provider that will answer with replies.
func NewMockProvider(replies ...MockResponse) *MockProvider {
	return &MockProvider{replies: replies}
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return ProviderMock }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.replies) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	if err := finish(req, next.Content, StopEnd); err != nil {
		return nil, err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: ProviderMock, StopReason: StopEnd}, nil
}

// Push appends replies to the script.
func (m *MockProvider) Push(replies ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Calls returns the requests received so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
