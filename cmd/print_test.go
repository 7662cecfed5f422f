package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/history"
	"github.com/brightpath/ldscreen/internal/scoring"
	"github.com/brightpath/ldscreen/internal/store"
)

func TestPrintHistoryGroupsDays(t *testing.T) {
	entries := []history.Entry{
		{SessionID: "a", DateTime: "2026-03-01T09:00:00", DyslexiaScore: 0.25, RiskLabel: scoring.RiskLow},
		{SessionID: "b", DateTime: "2026-03-01T16:30:00", DyscalculiaScore: 0.5, RiskLabel: scoring.RiskLow},
		{SessionID: "c", DateTime: "2026-03-03T10:00:00", AttentionScore: 0.75, RiskLabel: scoring.RiskAttention},
	}
	var buf bytes.Buffer
	printHistory(&buf, history.Group(entries, time.Local))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6, buf.String())
	assert.True(t, strings.HasPrefix(lines[2], "Mar 1"))
	assert.Contains(t, lines[2], "25%")
	assert.False(t, strings.HasPrefix(lines[3], "Mar"), "second session of a day has no label")
	assert.True(t, strings.HasPrefix(lines[4], "┄"))
	assert.Contains(t, lines[5], "Possible Attention-related Risk")
}

func TestPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Equal(t, "No past sessions yet.\n", buf.String())
}

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	printDashboard(&buf, scoring.Dashboard{
		StudentID:  "STU-1",
		AgeGroup:   "9-11",
		FinalRisk:  "Low Risk - No Significant Concerns",
		Confidence: "Low",
		RiskLevel:  30,
		Patterns: map[string]scoring.DomainPattern{
			scoring.PatternMath: {Accuracy: 80, AvgTime: 2500, CommonMistake: "calculation error"},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Risk level:  30%")
	assert.Contains(t, out, "math           80%       2.5s  calculation error")
	assert.NotContains(t, out, "reading")
}

func TestPrintLLMUsageMarksUnpricedModels(t *testing.T) {
	var buf bytes.Buffer
	printLLMUsage(&buf,
		[]store.PurposeUsage{
			{Purpose: "parent-summary", Calls: 2, InputTokens: 1_000_000, OutputTokens: 100, AvgLatencyMs: 900},
			{Purpose: "reading-feedback", Calls: 1, InputTokens: 50, OutputTokens: 10, AvgLatencyMs: 400},
		},
		[]store.ModelUsage{
			{Provider: "anthropic", Model: "claude-haiku-4-5", Calls: 2, InputTokens: 1_000_000},
			{Provider: "openrouter", Model: "mystery-model", Calls: 1, InputTokens: 50, OutputTokens: 10},
		})

	out := buf.String()
	assert.Contains(t, out, "total               3       1000050")
	assert.Contains(t, out, "$1.00")
	assert.Contains(t, out, "estimated total (partial)")
	assert.Contains(t, out, "No pricing for mystery-model")
}

func TestPrintLLMEventsFiltersPurpose(t *testing.T) {
	events := []store.LLMEvent{
		{ID: 2, LLMRequestEventData: store.LLMRequestEventData{Purpose: "reading-feedback", Model: "m", Success: true}},
		{ID: 1, LLMRequestEventData: store.LLMRequestEventData{Purpose: "parent-summary", Model: "m"}},
	}
	var buf bytes.Buffer
	printLLMEvents(&buf, filterPurpose(events, "parent-summary"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "1 "))
	assert.True(t, strings.HasSuffix(lines[2], "✗"))

	buf.Reset()
	printLLMEvents(&buf, nil)
	assert.Equal(t, "No LLM calls recorded.\n", buf.String())
}
