package data

import (
	"errors"
	"sync"
)

var (
	// Caller errors
	ErrInvalidMode    = errors.New("aio: invalid mode token")
	ErrInvalid        = errors.New("aio: invalid argument")
	ErrNoReadCallback = errors.New("aio: no read callback registered")

	// Engine errors
	ErrUnsupported  = errors.New("aio: operation unsupported by engine")
	ErrEngineClosed = errors.New("aio: engine already closed")

	// File errors
	ErrClosed   = errors.New("aio: file already closed")
	ErrNotExist = errors.New("aio: file does not exist")
	ErrExist    = errors.New("aio: file already exists")
)

// Errors collects independent failures, e.g. while shutting down several workers.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
