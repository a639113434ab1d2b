package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualRunsDueTasksInOrder(t *testing.T) {
	m := NewManual()
	var ran []string

	m.Schedule(2*time.Second, func() { ran = append(ran, "b") })
	m.Schedule(time.Second, func() { ran = append(ran, "a") })
	m.Schedule(5*time.Second, func() { ran = append(ran, "c") })

	m.Advance(1999 * time.Millisecond)
	assert.Equal(t, []string{"a"}, ran)
	assert.Equal(t, 2, m.Pending())

	m.Advance(time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, ran)

	m.Advance(time.Hour)
	assert.Equal(t, []string{"a", "b", "c"}, ran)
	assert.Zero(t, m.Pending())
}

func TestManualCancel(t *testing.T) {
	m := NewManual()
	fired := false
	h := m.Schedule(time.Second, func() { fired = true })
	h.Cancel()

	assert.Zero(t, m.Pending())
	m.Advance(time.Minute)
	assert.False(t, fired)

	// cancelling after the fact is harmless
	h.Cancel()
}

func TestManualTaskMayReschedule(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.Schedule(time.Second, tick)
		}
	}
	m.Schedule(time.Second, tick)

	m.Advance(time.Second)
	m.Advance(time.Second)
	m.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestTimerCancel(t *testing.T) {
	done := make(chan struct{}, 1)
	h := Timer{}.Schedule(time.Hour, func() { done <- struct{}{} })
	h.Cancel()

	Timer{}.Schedule(time.Millisecond, func() { done <- struct{}{} })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer task did not run")
	}
}
