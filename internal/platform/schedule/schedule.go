// Package schedule provides cancellable deferred tasks.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled task. Cancel after the task ran is a no-op.
type Handle interface {
	Cancel()
}

type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// Timer runs tasks on the runtime timer.
type Timer struct{}

func (Timer) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(delay, fn)}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() {
	h.t.Stop()
}

// Manual is a virtual-clock scheduler: tasks only run when Advance moves past their deadline.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m        *Manual
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Schedule(delay time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, at: m.now + delay, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.canceled = true
}

// Advance moves the clock forward and runs every due task in deadline order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due, rest []*manualTask
	for _, t := range m.tasks {
		switch {
		case t.canceled:
		case t.at <= m.now:
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	m.tasks = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		m.mu.Lock()
		canceled := t.canceled
		m.mu.Unlock()
		if !canceled {
			t.fn()
		}
	}
}

// Pending counts live tasks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}
