package games

import (
	"sort"

	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/tasks"
)

// Tally accumulates the results of a round.
type Tally struct {
	trials   int
	score    float64
	correct  int
	timedOut int
	totalMs  int64
	mistakes map[diagnosis.Tag]int
	chars    int
}

// Add records one choice or tap result.
func (t *Tally) Add(r tasks.Result) {
	t.trials++
	t.totalMs += r.ResponseTimeMs
	if r.TimedOut {
		t.timedOut++
	}
	if r.Correct {
		t.correct++
		t.score++
		return
	}
	if r.MistakeType != "" {
		if t.mistakes == nil {
			t.mistakes = make(map[diagnosis.Tag]int)
		}
		t.mistakes[r.MistakeType]++
	}
}

// AddEcho records one read-aloud result. Its accuracy counts as a partial
// score.
func (t *Tally) AddEcho(r tasks.EchoResult) {
	t.trials++
	t.totalMs += r.ResponseTimeMs
	t.score += r.Accuracy
	t.chars += r.Mistakes
	if r.Mistakes == 0 {
		t.correct++
	}
}

// MistakeCount is one tag and how often it occurred.
type MistakeCount struct {
	Tag   diagnosis.Tag
	Count int
}

// Summary describes a finished round.
type Summary struct {
	Trials         int
	Correct        int
	TimedOut       int
	Accuracy       float64 // in [0,1]
	MeanResponseMs float64
	Mistakes       []MistakeCount // most frequent first
	CharMistakes   int
}

// Summary reports the round so far. An empty tally reports zero values.
func (t *Tally) Summary() Summary {
	s := Summary{
		Trials:       t.trials,
		Correct:      t.correct,
		TimedOut:     t.timedOut,
		CharMistakes: t.chars,
	}
	if t.trials > 0 {
		s.Accuracy = t.score / float64(t.trials)
		s.MeanResponseMs = float64(t.totalMs) / float64(t.trials)
	}
	for tag, n := range t.mistakes {
		s.Mistakes = append(s.Mistakes, MistakeCount{Tag: tag, Count: n})
	}
	sort.Slice(s.Mistakes, func(i, j int) bool {
		if s.Mistakes[i].Count != s.Mistakes[j].Count {
			return s.Mistakes[i].Count > s.Mistakes[j].Count
		}
		return s.Mistakes[i].Tag < s.Mistakes[j].Tag
	})
	return s
}
