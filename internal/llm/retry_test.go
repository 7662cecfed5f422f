package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestRetry(p Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     250 * time.Millisecond,
		Multiplier:  2,
	}, nil)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func ok() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func TestRetryRecovers(t *testing.T) {
	m := NewMockProvider(down(), down(), ok())
	r, waits := newTestRetry(m, 3)

	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Calls()) != 3 {
		t.Fatalf("calls = %d, want 3", len(m.Calls()))
	}
	if len(*waits) != 2 {
		t.Fatalf("waits = %v", *waits)
	}
	// Second wait is 200ms ±20%.
	if w := (*waits)[1]; w < 160*time.Millisecond || w > 240*time.Millisecond {
		t.Errorf("second wait = %s", w)
	}
}

func TestRetryGivesUp(t *testing.T) {
	m := NewMockProvider(down(), down(), ok())
	r, _ := newTestRetry(m, 2)

	_, err := r.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("got %v, want last error", err)
	}
	if len(m.Calls()) != 2 {
		t.Fatalf("calls = %d, want 2", len(m.Calls()))
	}
}

func TestRetryNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"truncated", &ErrMaxTokensExceeded{}},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockProvider(MockResponse{Err: tt.err}, ok())
			r, _ := newTestRetry(m, 3)
			if _, err := r.Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if n := len(m.Calls()); n != 1 {
				t.Fatalf("calls = %d, want 1", n)
			}
		})
	}
}

func TestRetryInvalidOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("schema")}}
	m := NewMockProvider(bad, bad, ok())
	r, _ := newTestRetry(m, 5)

	_, err := r.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want ErrInvalidResponse", err)
	}
	if n := len(m.Calls()); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}}, ok())
	r, waits := newTestRetry(m, 3)
	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
	if len(*waits) != 1 || (*waits)[0] != 3*time.Second {
		t.Fatalf("waits = %v", *waits)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	m := NewMockProvider(down(), ok())
	r, _ := newTestRetry(m, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
