// Package insights turns screening results into plain-language text through
// an LLM provider.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/scoring"
)

// Purposes recorded with each LLM request.
const (
	PurposeSummary  = "parent-summary"
	PurposeFeedback = "reading-feedback"
)

// Config holds generation settings.
type Config struct {
	SummaryMaxTokens  int
	FeedbackMaxTokens int
	Temperature       float64
}

// DefaultConfig returns the generation settings used by the CLI and TUI.
func DefaultConfig() Config {
	return Config{
		SummaryMaxTokens:  768,
		FeedbackMaxTokens: 384,
		Temperature:       0.4,
	}
}

// Summary is a parent-facing explanation of a dashboard.
type Summary struct {
	Headline   string   `json:"headline"`
	Paragraphs []string `json:"paragraphs"`
	Activities []string `json:"activities"`
}

// Reading is one read-aloud attempt to be assessed.
type Reading struct {
	AgeGroup   string
	Target     string
	Transcript string
	Elapsed    time.Duration
}

// WPM returns the words per minute of the transcript, rounded.
func (r Reading) WPM() int {
	if r.Elapsed <= 0 {
		return 0
	}
	words := len(strings.Fields(r.Transcript))
	return int(math.Round(float64(words) / r.Elapsed.Minutes()))
}

// Feedback is the specialist's view of a read-aloud attempt.
type Feedback struct {
	SpeedWPM       int      `json:"reading_speed_wpm"`
	AccuracyScore  int      `json:"accuracy_score"`
	EmotionalState string   `json:"emotional_state"`
	StruggleWords  []string `json:"struggle_words"`
	Summary        string   `json:"assessment_summary"`
	RiskFlag       bool     `json:"risk_flag"`
	Recommendation string   `json:"recommended_solution"`
}

// Narrator generates text for parents and read-aloud feedback.
type Narrator struct {
	provider llm.Provider
	cfg      Config
}

// NewNarrator returns a Narrator backed by provider.
func NewNarrator(provider llm.Provider, cfg Config) *Narrator {
	return &Narrator{provider: provider, cfg: cfg}
}

// Explain summarizes a finished dashboard for a parent.
func (n *Narrator) Explain(ctx context.Context, d scoring.Dashboard) (*Summary, error) {
	var out Summary
	err := n.generate(llm.WithPurpose(ctx, PurposeSummary), llm.Request{
		System:      summarySystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildSummaryMessage(d)}},
		Schema:      SummarySchema,
		MaxTokens:   n.cfg.SummaryMaxTokens,
		Temperature: n.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("parent summary: %w", err)
	}
	return &out, nil
}

// ReadingFeedback assesses one read-aloud attempt.
func (n *Narrator) ReadingFeedback(ctx context.Context, in Reading) (*Feedback, error) {
	if strings.TrimSpace(in.Target) == "" {
		return nil, fmt.Errorf("reading feedback: empty passage")
	}
	var out Feedback
	err := n.generate(llm.WithPurpose(ctx, PurposeFeedback), llm.Request{
		System:      feedbackSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildFeedbackMessage(in)}},
		Schema:      FeedbackSchema,
		MaxTokens:   n.cfg.FeedbackMaxTokens,
		Temperature: n.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("reading feedback: %w", err)
	}
	return &out, nil
}

func (n *Narrator) generate(ctx context.Context, req llm.Request, out any) error {
	resp, err := n.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
