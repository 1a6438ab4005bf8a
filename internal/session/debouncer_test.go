package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsOnceAfterQuietPeriod(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(500*time.Millisecond, clock.AfterFunc)

	runs := 0
	for i := 0; i < 5; i++ {
		d.Schedule(func() { runs++ })
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, runs)
	assert.True(t, d.Pending())
	assert.Equal(t, 1, clock.Armed())

	clock.Advance(399 * time.Millisecond)
	assert.Equal(t, 0, runs)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, runs)
	assert.False(t, d.Pending())
}

func TestDebouncerLastScheduleWins(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(500*time.Millisecond, clock.AfterFunc)

	var got string
	d.Schedule(func() { got = "first" })
	d.Schedule(func() { got = "second" })
	clock.Advance(time.Second)

	assert.Equal(t, "second", got)
}

func TestDebouncerCancel(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(500*time.Millisecond, clock.AfterFunc)

	runs := 0
	d.Schedule(func() { runs++ })
	d.Cancel()
	clock.Advance(time.Second)
	assert.Equal(t, 0, runs)

	d.Schedule(func() { runs++ })
	clock.Advance(time.Second)
	assert.Equal(t, 1, runs)
}

func TestDebouncerStopIgnoresNewWork(t *testing.T) {
	clock := newFakeClock()
	d := NewDebouncer(500*time.Millisecond, clock.AfterFunc)

	runs := 0
	d.Schedule(func() { runs++ })
	d.Stop()
	d.Schedule(func() { runs++ })
	clock.Advance(time.Second)

	assert.Equal(t, 0, runs)
	assert.False(t, d.Pending())
	assert.Equal(t, 0, clock.Armed())
}

func TestDebouncerStaleTimerIsIgnored(t *testing.T) {
	d := NewDebouncer(time.Second, nil)

	var stale func()
	d.afterFunc = func(_ time.Duration, f func()) Timer {
		stale = f
		return stubTimer{}
	}
	runs := 0
	d.Schedule(func() { runs++ })
	d.Cancel()

	// The timer fired concurrently with Cancel and still runs its callback.
	stale()
	assert.Equal(t, 0, runs)
}

type stubTimer struct{}

func (stubTimer) Stop() bool { return false }
