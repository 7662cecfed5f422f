package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"complete", `{"headline":"Good progress","tips":["read daily"]}`, true},
		{"optional omitted", `{"headline":"Good progress"}`, true},
		{"missing required", `{"tips":[]}`, false},
		{"wrong type", `{"headline":5}`, false},
		{"extra field", `{"headline":"x","mood":"happy"}`, false},
		{"empty headline", `{"headline":""}`, false},
		{"not json", `headline: x`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(summarySchema(), json.RawMessage(tt.raw))
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("got %v, want ErrInvalidResponse", err)
			}
			if string(invalid.Content) != tt.raw {
				t.Errorf("Content = %s", invalid.Content)
			}
		})
	}
}

func TestValidateNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything: %v", err)
	}
}

func TestValidateBadSchema(t *testing.T) {
	s := &Schema{Name: "test-broken", Definition: map[string]any{"type": 12}}
	var invalid *ErrInvalidResponse
	if err := validateResponse(s, json.RawMessage(`{}`)); !errors.As(err, &invalid) {
		t.Fatalf("got %v", err)
	}
}
