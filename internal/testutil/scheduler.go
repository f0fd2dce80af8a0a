package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/cloo-solutions/movierec/internal/loop"
)

// ManualScheduler is a deterministic loop.Scheduler for tests. Nothing runs
// until the test calls Flush, Advance, or completes a Task, and everything
// runs on the test goroutine.
type ManualScheduler struct {
	now    time.Duration
	queue  []func()
	timers []*ManualTimer
	tasks  []*Task
}

var _ loop.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates a scheduler at virtual time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ManualTimer is returned by ManualScheduler.AfterFunc
type ManualTimer struct {
	at      time.Duration
	fn      func()
	fired   bool
	stopped bool
}

// Stop implements loop.Timer
func (t *ManualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Task is a unit of off-loop work started with Go
type Task struct {
	s    *ManualScheduler
	work func(ctx context.Context) func()
	done bool
}

// Complete runs the work, then posts and flushes its continuation
func (t *Task) Complete() {
	if t.done {
		return
	}
	t.done = true
	if next := t.work(context.Background()); next != nil {
		t.s.Post(next)
	}
	t.s.Flush()
}

func (s *ManualScheduler) Post(fn func()) {
	if fn != nil {
		s.queue = append(s.queue, fn)
	}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) loop.Timer {
	t := &ManualTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *ManualScheduler) Go(work func(ctx context.Context) func()) {
	s.tasks = append(s.tasks, &Task{s: s, work: work})
}

// Flush runs queued functions, including ones they post, until the queue is empty
func (s *ManualScheduler) Flush() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}

// Advance moves virtual time forward, firing due timers in deadline order
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	s.Flush()
	for {
		next := s.nextTimer(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		s.Post(next.fn)
		s.Flush()
	}
	s.now = target
}

func (s *ManualScheduler) nextTimer(limit time.Duration) *ManualTimer {
	var due []*ManualTimer
	for _, t := range s.timers {
		if !t.fired && !t.stopped && t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	return due[0]
}

// ActiveTimers returns the number of timers that have neither fired nor been stopped
func (s *ManualScheduler) ActiveTimers() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// PendingTasks returns started work that has not been completed, oldest first
func (s *ManualScheduler) PendingTasks() []*Task {
	var pending []*Task
	for _, t := range s.tasks {
		if !t.done {
			pending = append(pending, t)
		}
	}
	return pending
}

// CompleteAll completes pending tasks, including tasks they start, oldest first
func (s *ManualScheduler) CompleteAll() {
	for {
		pending := s.PendingTasks()
		if len(pending) == 0 {
			return
		}
		pending[0].Complete()
	}
}
