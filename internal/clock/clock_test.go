package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	c := NewFake(epoch)
	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

	c.Advance(3 * time.Second)

	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, epoch.Add(3*time.Second), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestFakeTimerSeesDeadlineAsNow(t *testing.T) {
	c := NewFake(epoch)
	var at time.Time
	c.AfterFunc(1500*time.Millisecond, func() { at = c.Now() })

	c.Advance(10 * time.Second)

	assert.Equal(t, epoch.Add(1500*time.Millisecond), at)
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFakeTimerArmedFromCallback(t *testing.T) {
	c := NewFake(epoch)
	count := 0
	var rearm func()
	rearm = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, rearm)
		}
	}
	c.AfterFunc(time.Second, rearm)

	c.Advance(10 * time.Second)

	assert.Equal(t, 3, count)
}
