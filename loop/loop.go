// Package loop provides the completion queue that asynchronous engines post
// their callbacks onto. Whichever goroutine drives the loop is the only one
// that ever runs those callbacks.
package loop

import (
	"context"
	"sync"

	"github.com/mwantia/aio/log"
)

type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool

	log *log.Logger
}

func New(logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &Loop{
		wake: make(chan struct{}, 1),
		log:  logger.Named("loop"),
	}
}

// Post enqueues fn to run on the loop goroutine. It is safe to call from any goroutine.
// Posting after Close drops fn.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.log.Warn("Post: dropping callback, loop already closed")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue)
}

// RunOnce runs every callback queued at the time of the call and returns how many ran.
// Callbacks posted while running are left for the next iteration.
func (l *Loop) RunOnce() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range batch {
		fn()
	}

	return len(batch)
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunOnce()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunUntil drives the loop until done reports true or ctx is done.
// done is evaluated on the loop goroutine after every batch.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	for {
		l.RunOnce()
		if done() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting callbacks and runs whatever is still queued.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	if n := l.RunOnce(); n > 0 {
		l.log.Debug("Close: ran %d pending callbacks", n)
	}
}
