package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/ldscreen/internal/clock"
)

func TestScoreEcho(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		typed    string
		accuracy float64
		mistakes int
	}{
		{"exact", "the cat sat", "the cat sat", 1, 0},
		{"case and spaces", "The Cat Sat", "  the cat SAT ", 1, 0},
		{"empty typed", "the cat sat", "", 0, 11},
		{"one substitution", "the cat sat", "the cat sit", 10.0 / 11.0, 1},
		{"two substitutions", "the cat sat", "the bat sit", 9.0 / 11.0, 2},
		{"shorter typed", "reading", "read", 4.0 / 7.0, 3},
		{"longer typed", "dog", "dogs", 1, 0},
		{"shifted", "abc", "xabc", 0, 3},
		{"empty target", "", "anything", 0, 0},
		{"multibyte", "niño", "nino", 0.75, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, mistakes := ScoreEcho(tt.target, tt.typed)
			assert.InDelta(t, tt.accuracy, acc, 1e-9)
			assert.Equal(t, tt.mistakes, mistakes)
		})
	}
}

func TestScoreEchoIdempotent(t *testing.T) {
	a1, m1 := ScoreEcho("butterfly", "buterfly")
	a2, m2 := ScoreEcho("butterfly", "buterfly")
	assert.Equal(t, a1, a2)
	assert.Equal(t, m1, m2)
}

func TestEchoTrialAnswersOnce(t *testing.T) {
	c := clock.NewFake(time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC))
	var got []EchoResult
	e := NewEchoTrial(c, func(r EchoResult) { got = append(got, r) })

	assert.False(t, e.Submit("early"), "submit before a target is shown")

	e.Present("the cat sat")
	c.Advance(4200 * time.Millisecond)
	assert.True(t, e.Submit("the cat sat"))
	assert.False(t, e.Submit("the cat sat"))

	require.Len(t, got, 1)
	assert.Equal(t, EchoResult{Accuracy: 1, Mistakes: 0, ResponseTimeMs: 4200}, got[0])

	e.Present("big red bus")
	c.Advance(time.Second)
	assert.True(t, e.Submit(""))
	require.Len(t, got, 2)
	assert.Equal(t, 11, got[1].Mistakes)
	assert.Equal(t, int64(1000), got[1].ResponseTimeMs)
}
