package components

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/history"
)

func chartPoints() []history.Point {
	return history.Group([]history.Entry{
		{SessionID: "a", DateTime: "2026-01-01T09:00:00Z", DyslexiaScore: 1, DyscalculiaScore: 0.5},
		{SessionID: "b", DateTime: "2026-01-01T15:00:00Z", AttentionScore: 0.25},
		{SessionID: "c", DateTime: "2026-01-03T10:00:00Z", DyslexiaScore: 0.1},
	}, time.UTC)
}

func TestBarGlyphs(t *testing.T) {
	assert.Equal(t, "█", bar(1, 3, 4))
	assert.Equal(t, " ", bar(0, 0, 4))
	assert.Equal(t, "█", bar(0.5, 1, 4))
	assert.Equal(t, " ", bar(0.5, 2, 4))
	assert.Equal(t, "▄", bar(0.125, 0, 4))
	assert.Equal(t, "█", bar(7, 3, 4), "values are clamped")
}

func TestHistoryChartLayout(t *testing.T) {
	c := HistoryChart{Points: chartPoints(), Height: 4}
	lines := strings.Split(c.View(80), "\n")
	require.Len(t, lines, 4+1+2)

	assert.Contains(t, lines[0], "100%")
	assert.Contains(t, lines[3], "0%")
	assert.Contains(t, lines[0], "┊", "spacer between days")
	assert.Contains(t, lines[4], "Jan 1")
	assert.Contains(t, lines[4], "Jan 3")
	assert.Contains(t, lines[6], "Dyscalculia")
}

func TestHistoryChartKeepsRecent(t *testing.T) {
	c := HistoryChart{Points: chartPoints(), Height: 4}
	got := c.visible(groupWidth())
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Entry.SessionID)
}

func TestHistoryChartEmpty(t *testing.T) {
	assert.Contains(t, HistoryChart{}.View(80), "No past sessions yet")
}

func TestFitCell(t *testing.T) {
	assert.Equal(t, "ab  ", FitCell("ab", 4))
	assert.Equal(t, "abc…", FitCell("abcdef", 4))
	assert.Equal(t, 4, runewidth.StringWidth(FitCell("日本語", 4)))
}
