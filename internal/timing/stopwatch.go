// Package timing measures how long a subject takes to respond to a stimulus.
package timing

import (
	"time"

	"github.com/brightpath/ldscreen/internal/clock"
)

// TaskTimeout is the window a withholding task waits before recording a
// missed response.
const TaskTimeout = 3000 * time.Millisecond

// Stopwatch records when a stimulus was presented.
type Stopwatch struct {
	clock   clock.Clock
	started time.Time
}

// NewStopwatch returns a stopwatch started at the clock's current time.
func NewStopwatch(c clock.Clock) *Stopwatch {
	return &Stopwatch{clock: c, started: c.Now()}
}

// Reset restarts the stopwatch at the clock's current time.
func (s *Stopwatch) Reset() {
	s.started = s.clock.Now()
}

// Started returns the time of the last reset.
func (s *Stopwatch) Started() time.Time { return s.started }

// ElapsedMs returns whole milliseconds since the last reset. A clock that
// moved backwards yields zero.
func (s *Stopwatch) ElapsedMs() int64 {
	return Millis(s.clock.Now().Sub(s.started))
}

// Millis converts d to whole milliseconds, clamped at zero.
func Millis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
