package aio

import (
	"context"
	"sync"

	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/engine/async"
	"github.com/mwantia/aio/engine/blocking"
	"github.com/mwantia/aio/engine/objstore"
	"github.com/mwantia/aio/log"
	"github.com/mwantia/aio/loop"
)

var (
	defaultConfig = sync.OnceValue(func() *Config {
		cfg, err := LoadConfig()
		if err != nil {
			log.NewLogger("aio", log.Warn, "", false).Warn("Config: ignoring invalid settings - %v", err)
		}
		return cfg
	})

	defaultLogger = sync.OnceValue(func() *log.Logger {
		return defaultConfig().Logger()
	})

	defaultLoop = sync.OnceValue(func() *loop.Loop {
		return loop.New(defaultLogger())
	})

	supported = sync.OnceValue(func() bool {
		return selectAsync(defaultConfig().Engine, async.Available())
	})

	defaultEngine = sync.OnceValue(func() engine.Engine {
		return newEngine(defaultConfig(), Supported(), defaultLoop(), defaultLogger())
	})
)

// Supported reports whether files without WithEngine run asynchronously.
// It is determined once per process from the platform and AIO_ENGINE.
func Supported() bool {
	return supported()
}

// DefaultLoop returns the loop receiving completions of DefaultEngine.
// The caller is responsible for driving it.
func DefaultLoop() *loop.Loop {
	return defaultLoop()
}

// DefaultEngine returns the engine shared by all files without WithEngine.
func DefaultEngine() engine.Engine {
	return defaultEngine()
}

func selectAsync(choice string, available bool) bool {
	switch choice {
	case EngineBlocking:
		return false
	case EngineObjStore:
		return true
	default:
		return available
	}
}

func newEngine(cfg *Config, useAsync bool, l *loop.Loop, logger *log.Logger) engine.Engine {
	if !useAsync {
		return blocking.New(logger)
	}

	pool := async.NewPool(l, cfg.Workers, logger)
	if cfg.Engine == EngineObjStore {
		e, err := objstore.New(context.Background(), pool, cfg.ObjStore, logger)
		if err == nil {
			return e
		}

		logger.Error("Engine: unable to create objstore engine, falling back to blocking - %v", err)
		pool.Close()
		return blocking.New(logger)
	}

	return async.New(pool, logger)
}
