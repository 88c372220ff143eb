// Package async implements the asynchronous engine: operations run on a pool of
// worker goroutines ordered by priority, and their callbacks are posted to a loop.
package async

import (
	"sync"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/log"
	"github.com/mwantia/aio/loop"
	"github.com/tidwall/btree"
)

// Work runs on a worker goroutine and returns the completion to post on the loop.
type Work func() (complete func())

type request struct {
	id       string
	seq      uint64
	priority data.Priority
	work     Work
}

// requests with higher priority come first, equal priorities in submission order.
func lessRequest(a, b *request) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.seq < b.seq
}

type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  *btree.BTreeG[*request]
	seq    uint64
	closed bool
	wg     sync.WaitGroup

	loop *loop.Loop
	log  *log.Logger
}

func NewPool(l *loop.Loop, workers int, logger *log.Logger) *Pool {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		queue: btree.NewBTreeG(lessRequest),
		loop:  l,
		log:   logger.Named("pool"),
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// Loop returns the loop completions are posted to.
func (p *Pool) Loop() *loop.Loop {
	return p.loop
}

// Submit queues work. It fails with data.ErrEngineClosed once Close was called.
func (p *Pool) Submit(pri data.Priority, work Work) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return data.ErrEngineClosed
	}

	p.seq++
	req := &request{
		seq:      p.seq,
		priority: pri.Clamp(),
		work:     work,
	}
	if p.log.Enabled(log.Debug) {
		req.id = data.NewID()
		p.log.Debug("Submit: request %s with priority %d, %d pending", req.id, req.priority, p.queue.Len())
	}

	p.queue.Set(req)
	p.cond.Signal()

	return nil
}

// Pending returns the number of requests not yet picked up by a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.queue.Len()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.queue.Len() == 0 && !p.closed {
			p.cond.Wait()
		}
		req, ok := p.queue.PopMin()
		p.mu.Unlock()

		if !ok {
			// closed and drained
			return
		}

		complete := req.work()
		if req.id != "" {
			p.log.Debug("Worker: request %s done", req.id)
		}
		if complete != nil {
			p.loop.Post(complete)
		}
	}
}

// Close stops accepting work, lets the workers drain the queue and waits for them.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pending := p.queue.Len()
	p.cond.Broadcast()
	p.mu.Unlock()

	p.log.Debug("Close: draining %d pending requests", pending)
	p.wg.Wait()
}
