package tasks

import (
	"math"
	"strings"
	"sync"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/timing"
)

// EchoResult is the outcome of a read-aloud transcription.
type EchoResult struct {
	Accuracy       float64
	ResponseTimeMs int64
	Mistakes       int
}

// ScoreEcho compares typed against target position by position, ignoring
// case and surrounding whitespace. Accuracy is the fraction of target
// characters matched at the same position; an empty target scores zero with
// no mistakes.
func ScoreEcho(target, typed string) (accuracy float64, mistakes int) {
	want := []rune(strings.ToLower(strings.TrimSpace(target)))
	got := []rune(strings.ToLower(strings.TrimSpace(typed)))
	if len(want) == 0 {
		return 0, 0
	}

	matches := 0
	for i := range min(len(want), len(got)) {
		if want[i] == got[i] {
			matches++
		}
	}
	accuracy = float64(matches) / float64(len(want))
	mistakes = len(want) - int(math.Round(accuracy*float64(len(want))))
	return accuracy, mistakes
}

// EchoTrial is the read-aloud task: the subject hears or reads a target
// phrase and types it back. It follows the same present/answer-once
// protocol as Trial but reports a continuous score.
type EchoTrial struct {
	mu       sync.Mutex
	watch    *timing.Stopwatch
	onAnswer func(EchoResult)
	target   string
	answered bool
	shown    bool
}

// NewEchoTrial returns a read-aloud trial reporting to onAnswer.
func NewEchoTrial(c clock.Clock, onAnswer func(EchoResult)) *EchoTrial {
	return &EchoTrial{watch: timing.NewStopwatch(c), onAnswer: onAnswer}
}

// Present shows a new target phrase.
func (e *EchoTrial) Present(target string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = target
	e.answered = false
	e.shown = true
	e.watch.Reset()
}

// Submit scores typed against the current target. Only the first submission
// per target is recorded.
func (e *EchoTrial) Submit(typed string) bool {
	e.mu.Lock()
	if !e.shown || e.answered {
		e.mu.Unlock()
		return false
	}
	e.answered = true
	acc, mistakes := ScoreEcho(e.target, typed)
	res := EchoResult{
		Accuracy:       acc,
		Mistakes:       mistakes,
		ResponseTimeMs: e.watch.ElapsedMs(),
	}
	e.mu.Unlock()

	e.onAnswer(res)
	return true
}

// Target returns the phrase on display.
func (e *EchoTrial) Target() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}
