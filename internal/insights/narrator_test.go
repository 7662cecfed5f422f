package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/llm"
	"github.com/brightpath/ldscreen/internal/scoring"
)

func testDashboard() scoring.Dashboard {
	return scoring.Dashboard{
		StudentID:   "STU-101",
		AgeGroup:    "9-11",
		FinalRisk:   "Possible Dyslexia-related Risk",
		Confidence:  "Moderate",
		Summary:     "Some reading patterns suggest follow-up.",
		KeyInsights: []string{"Frequent letter reversals (b/d, p/q)"},
		Patterns: map[string]scoring.DomainPattern{
			scoring.PatternMath:    {Accuracy: 80, AvgTime: 2100, CommonMistake: "None"},
			scoring.PatternReading: {Accuracy: 45.5, AvgTime: 3900, CommonMistake: "Letter Reversal"},
		},
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(Summary{
		Headline:   "Reading needs a closer look; math is on track.",
		Paragraphs: []string{"Your child mixed up similar letters."},
		Activities: []string{"Play letter bingo with b and d."},
	}))
	n := NewNarrator(mock, DefaultConfig())

	s, err := n.Explain(context.Background(), testDashboard())
	require.NoError(t, err)
	assert.Equal(t, "Reading needs a closer look; math is on track.", s.Headline)
	assert.Len(t, s.Activities, 1)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, SummarySchema, req.Schema)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Letter Reversal")
	assert.Contains(t, msg, "45.5% accuracy")
	assert.Less(t, strings.Index(msg, "- reading:"), strings.Index(msg, "- math:"))
}

func TestExplainRejectsInvalidOutput(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]any{"headline": "x"}))
	_, err := NewNarrator(mock, DefaultConfig()).Explain(context.Background(), testDashboard())

	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestReadingFeedback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(Feedback{
		SpeedWPM:       60,
		AccuracyScore:  91,
		EmotionalState: "Neutral",
		StruggleWords:  []string{"sat"},
		Summary:        "Read smoothly with one substitution.",
		Recommendation: "Practice short-vowel word families.",
	}))
	n := NewNarrator(mock, DefaultConfig())

	fb, err := n.ReadingFeedback(context.Background(), Reading{
		AgeGroup:   "6-8",
		Target:     "the cat sat",
		Transcript: "the cat sit",
		Elapsed:    3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 91, fb.AccuracyScore)
	assert.Equal(t, []string{"sat"}, fb.StruggleWords)
	assert.False(t, fb.RiskFlag)

	msg := mock.Calls()[0].Messages[0].Content
	assert.Contains(t, msg, "(60 words per minute)")
	assert.Contains(t, msg, "6-8 year old")
}

func TestReadingFeedbackEmptyPassage(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := NewNarrator(mock, DefaultConfig()).ReadingFeedback(context.Background(), Reading{Target: "  "})
	require.Error(t, err)
	assert.Empty(t, mock.Calls())
}

func TestProviderErrorWrapped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})
	_, err := NewNarrator(mock, DefaultConfig()).Explain(context.Background(), testDashboard())

	var rl *llm.ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.True(t, strings.HasPrefix(err.Error(), "parent summary:"))
}

func TestWPM(t *testing.T) {
	assert.Equal(t, 0, Reading{Transcript: "a b"}.WPM())
	assert.Equal(t, 120, Reading{Transcript: "one two three four", Elapsed: 2 * time.Second}.WPM())
}
