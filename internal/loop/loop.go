// Package loop runs a session's state machines on a single goroutine.
//
// Components never lock. They mutate their state only inside functions
// executed by the loop, and reach the network through Scheduler.Go, whose
// continuation is posted back onto the loop when the work completes.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Run when the loop was stopped with Stop.
var ErrStopped = errors.New("loop stopped")

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from being posted. It reports false if the
	// callback was already posted; the callback still runs in that case, so
	// callers guard it with a generation check.
	Stop() bool
}

// Scheduler is the loop as seen by the components it drives.
type Scheduler interface {
	// Post enqueues fn to run on the loop. It never blocks.
	Post(fn func())
	// AfterFunc posts fn onto the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Go runs work on its own goroutine and posts the continuation it
	// returns, if non-nil, back onto the loop.
	Go(work func(ctx context.Context) func())
}

// Loop is an unbounded FIFO of functions drained by Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	stop   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

var _ Scheduler = (*Loop)(nil)

// New creates a loop. Work started with Go receives a context that is
// cancelled when the loop exits.
func New() *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		stop:   make(chan struct{}),
	}
}

// Run drains the queue until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	for {
		for _, fn := range l.take() {
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return ErrStopped
		case <-l.wake:
		}
	}
}

// Stop makes Run return once the functions it has already dequeued have run.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Wait blocks until all work started with Go has returned.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

func (l *Loop) Go(work func(ctx context.Context) func()) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if next := work(l.ctx); next != nil {
			l.Post(next)
		}
	}()
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()
	l.cancel()
}
