package cmd

import (
	"context"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/log"
	"github.com/mwantia/aio/loop"
)

type runtime struct {
	engine engine.Engine
	loop   *loop.Loop
	log    *log.Logger
}

// NewRuntime runs commands on e. Completions of asynchronous engines are
// expected on l; blocking engines never need it.
func NewRuntime(e engine.Engine, l *loop.Loop, logger *log.Logger) Runtime {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}
	if l == nil {
		l = loop.New(logger)
	}

	return &runtime{
		engine: e,
		loop:   l,
		log:    logger,
	}
}

func (r *runtime) Open(ctx context.Context, path, mode string, opts ...aio.Option) (*aio.File, error) {
	opts = append([]aio.Option{
		aio.WithEngine(r.engine),
		aio.WithLogger(r.log),
	}, opts...)

	var file *aio.File
	var openErr error
	done := false

	if err := aio.Open(path, mode, func(f *aio.File, err error) {
		file, openErr, done = f, err, true
	}, opts...); err != nil {
		return nil, err
	}

	if err := r.Wait(ctx, func() bool { return done }); err != nil {
		return nil, err
	}
	return file, openErr
}

func (r *runtime) Wait(ctx context.Context, done func() bool) error {
	return r.loop.RunUntil(ctx, done)
}
