package aio

import (
	"os"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/log"
)

type Options struct {
	Engine    engine.Engine
	Logger    *log.Logger
	ChunkSize int
	Priority  data.Priority
	Perm      os.FileMode

	OnRead  ReadCallback
	OnEOF   EOFCallback
	OnReady ReadyCallback
}

type Option func(*Options) error

func newDefaultOptions() *Options {
	chunkSize := DefaultChunkSize
	if cfg := defaultConfig(); cfg != nil && cfg.ChunkSize > 0 {
		chunkSize = cfg.ChunkSize
	}

	return &Options{
		ChunkSize: chunkSize,
		Priority:  data.PriorityDefault,
		Perm:      0644,
	}
}

// WithEngine runs every operation of the file through e instead of DefaultEngine.
func WithEngine(e engine.Engine) Option {
	return func(opts *Options) error {
		if e == nil {
			return data.ErrInvalid
		}
		opts.Engine = e
		return nil
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(opts *Options) error {
		opts.Logger = logger
		return nil
	}
}

func WithChunkSize(size int) Option {
	return func(opts *Options) error {
		if size < 1 {
			return data.ErrInvalid
		}
		opts.ChunkSize = size
		return nil
	}
}

func WithPriority(pri data.Priority) Option {
	return func(opts *Options) error {
		opts.Priority = pri.Clamp()
		return nil
	}
}

// WithPerm sets the permission bits used when Open creates the file.
func WithPerm(perm os.FileMode) Option {
	return func(opts *Options) error {
		opts.Perm = perm.Perm()
		return nil
	}
}

// WithOnRead registers the read callback used when Read is called without one.
func WithOnRead(cb ReadCallback) Option {
	return func(opts *Options) error {
		opts.OnRead = cb
		return nil
	}
}

// WithOnEOF registers the handler fired once when end of stream latches.
func WithOnEOF(cb EOFCallback) Option {
	return func(opts *Options) error {
		opts.OnEOF = cb
		return nil
	}
}

// WithOnReady registers the handler fired by Eof while data remains.
func WithOnReady(cb ReadyCallback) Option {
	return func(opts *Options) error {
		opts.OnReady = cb
		return nil
	}
}
