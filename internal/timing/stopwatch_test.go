package timing

import (
	"testing"
	"time"

	"github.com/brightpath/ldscreen/internal/clock"
)

func TestStopwatchElapsed(t *testing.T) {
	c := clock.NewFake(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	sw := NewStopwatch(c)

	c.Advance(1234 * time.Millisecond)
	if got := sw.ElapsedMs(); got != 1234 {
		t.Errorf("ElapsedMs() = %d, want 1234", got)
	}

	sw.Reset()
	c.Advance(250 * time.Millisecond)
	if got := sw.ElapsedMs(); got != 250 {
		t.Errorf("ElapsedMs() after reset = %d, want 250", got)
	}
}

func TestMillisClampsNegative(t *testing.T) {
	if got := Millis(-5 * time.Second); got != 0 {
		t.Errorf("Millis(-5s) = %d, want 0", got)
	}
	if got := Millis(TaskTimeout); got != 3000 {
		t.Errorf("Millis(TaskTimeout) = %d, want 3000", got)
	}
}
