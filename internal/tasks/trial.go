// Package tasks implements the response contract shared by every
// interactive task. Each presented stimulus produces exactly one timed
// outcome.
package tasks

import (
	"sync"

	"github.com/brightpath/ldscreen/internal/clock"
	"github.com/brightpath/ldscreen/internal/diagnosis"
	"github.com/brightpath/ldscreen/internal/timing"
)

// Result is the outcome of one stimulus.
type Result struct {
	Kind           Kind
	Correct        bool
	ResponseTimeMs int64
	MistakeType    diagnosis.Tag
	TimedOut       bool
}

// Trial runs the timed single-response protocol for one task. It owns the
// stopwatch, the answered guard and the timeout of the current stimulus.
// Trial is safe for use from multiple goroutines; onAnswer is never called
// with the internal lock held, so it may call Present.
type Trial struct {
	mu       sync.Mutex
	clock    clock.Clock
	watch    *timing.Stopwatch
	onAnswer func(Result)

	stimulus Stimulus
	answered bool
	closed   bool
	gen      uint64
	timer    clock.Timer
}

// NewTrial returns a trial that reports each outcome to onAnswer.
func NewTrial(c clock.Clock, onAnswer func(Result)) *Trial {
	return &Trial{
		clock:    c,
		watch:    timing.NewStopwatch(c),
		onAnswer: onAnswer,
	}
}

// Present shows a new stimulus. It restarts the stopwatch, clears the
// answered guard and re-arms the timeout when the stimulus needs one.
func (t *Trial) Present(s Stimulus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	t.stopTimer()
	t.gen++
	t.stimulus = s
	t.answered = false
	t.watch.Reset()

	if s != nil && s.ArmsTimeout() {
		gen := t.gen
		t.timer = t.clock.AfterFunc(timing.TaskTimeout, func() { t.expire(gen) })
	}
}

// Act records the subject's action on the current stimulus. It returns false
// and does nothing when the stimulus was already answered, none is shown, or
// the trial is closed.
func (t *Trial) Act(a Action) bool {
	t.mu.Lock()
	if t.closed || t.answered || t.stimulus == nil {
		t.mu.Unlock()
		return false
	}
	t.answered = true
	t.stopTimer()

	s := t.stimulus
	res := Result{
		Kind:           s.Kind(),
		Correct:        s.Accepts(a),
		ResponseTimeMs: t.watch.ElapsedMs(),
	}
	if !res.Correct {
		res.MistakeType = diagnosis.Classify(diagnosis.ClassifyInput{
			Task:    s.Kind(),
			Outcome: diagnosis.OutcomeWrongAction,
		})
	}
	t.mu.Unlock()

	t.onAnswer(res)
	return true
}

// expire fires the timeout armed for stimulus generation gen. A timer that
// lost the race with Act, Present or Close finds a different generation or
// the guard set, and does nothing.
func (t *Trial) expire(gen uint64) {
	t.mu.Lock()
	if t.closed || t.answered || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.answered = true
	t.timer = nil

	kind := t.stimulus.Kind()
	res := Result{
		Kind:           kind,
		Correct:        false,
		ResponseTimeMs: timing.Millis(timing.TaskTimeout),
		TimedOut:       true,
		MistakeType: diagnosis.Classify(diagnosis.ClassifyInput{
			Task:    kind,
			Outcome: diagnosis.OutcomeTimeout,
		}),
	}
	t.mu.Unlock()

	t.onAnswer(res)
}

// Close cancels any pending timeout. Later calls to Present and Act are
// ignored.
func (t *Trial) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.stopTimer()
}

// Answered reports whether the current stimulus already has an outcome.
func (t *Trial) Answered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.answered
}

// Current returns the stimulus on display, or nil.
func (t *Trial) Current() Stimulus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stimulus
}

func (t *Trial) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
