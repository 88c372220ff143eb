package async

import (
	"os"
	"sync"

	"github.com/mwantia/aio/data"
)

// inflight counts the submitted requests of every descriptor so a close only
// releases the descriptor once they have all run.
type inflight struct {
	mu    sync.Mutex
	files map[*os.File]*fileRequests
}

type fileRequests struct {
	wg      sync.WaitGroup
	closing bool
}

func newInflight() *inflight {
	return &inflight{files: make(map[*os.File]*fileRequests)}
}

func (t *inflight) entry(f *os.File) *fileRequests {
	r, ok := t.files[f]
	if !ok {
		r = &fileRequests{}
		t.files[f] = r
	}
	return r
}

// acquire registers one request for f. It fails once a close was requested.
func (t *inflight) acquire(f *os.File) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.entry(f)
	if r.closing {
		return nil, data.ErrClosed
	}
	r.wg.Add(1)
	return sync.OnceFunc(r.wg.Done), nil
}

// close marks f as closing and returns a wait for the requests registered so far.
func (t *inflight) close(f *os.File) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.entry(f)
	if r.closing {
		return nil, data.ErrClosed
	}
	r.closing = true
	return r.wg.Wait, nil
}

func (t *inflight) forget(f *os.File) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.files, f)
}

func (t *inflight) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.files)
}
