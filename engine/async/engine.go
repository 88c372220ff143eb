package async

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/mwantia/aio/data"
	aioerrors "github.com/mwantia/aio/data/errors"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/log"
)

// Engine runs posix file operations on a Pool. Descriptors are *os.File values
// that are only touched from worker goroutines through positional syscalls, so
// the descriptor's own cursor is never used.
type Engine struct {
	pool     *Pool
	inflight *inflight
	log      *log.Logger
}

var _ engine.Engine = (*Engine)(nil)

func New(pool *Pool, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &Engine{
		pool:     pool,
		inflight: newInflight(),
		log:      logger.Named("async"),
	}
}

// Returns the identifier name defined for this engine
func (*Engine) Name() string {
	return "async"
}

// GetCapabilities returns a list of capabilities supported by this engine.
func (*Engine) GetCapabilities() *engine.Capabilities {
	return engine.NewCapabilities(
		engine.CapabilityAsync,
		engine.CapabilityStatFs,
		engine.CapabilityFlush,
		engine.CapabilityTruncate,
		engine.CapabilityChown,
		engine.CapabilityTouch,
	)
}

// Pool returns the pool the engine submits to.
func (e *Engine) Pool() *Pool {
	return e.pool
}

// submit queues work; if the pool refuses it, fail is posted to the loop instead
// so the caller still receives exactly one callback.
func (e *Engine) submit(op string, pri data.Priority, work Work, fail func(error)) {
	if err := e.pool.Submit(pri, work); err != nil {
		e.log.Warn("%s: request rejected - %v", op, err)
		e.pool.Loop().Post(func() { fail(err) })
	}
}

// submitFile queues work that uses f. Requests issued after Close fail with
// data.ErrClosed.
func (e *Engine) submitFile(op string, f *os.File, pri data.Priority, work Work, fail func(error)) {
	release, err := e.inflight.acquire(f)
	if err != nil {
		err = aioerrors.OperationFailed(err, op, f.Name())
		e.pool.Loop().Post(func() { fail(err) })
		return
	}

	e.submit(op, pri, func() func() {
		defer release()
		return work()
	}, func(err error) {
		release()
		fail(err)
	})
}

func (e *Engine) file(fd engine.Descriptor) (*os.File, error) {
	f, ok := fd.(*os.File)
	if !ok || f == nil {
		return nil, aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	return f, nil
}

func (e *Engine) Open(path string, flags data.VirtualAccessMode, perm os.FileMode, pri data.Priority, cb engine.OpenFunc) {
	e.submit("Open", pri, func() func() {
		f, err := os.OpenFile(path, flags.OSFlags(), perm)
		if err != nil {
			err = aioerrors.OperationFailed(err, "open", path)
			return func() { cb(nil, err) }
		}
		return func() { cb(f, nil) }
	}, func(err error) { cb(nil, err) })
}

func (e *Engine) Read(fd engine.Descriptor, length int, offset int64, pri data.Priority, cb engine.ReadFunc) {
	f, err := e.file(fd)
	if err != nil {
		e.pool.Loop().Post(func() { cb(nil, err) })
		return
	}

	e.submitFile("Read", f, pri, func() func() {
		buf := make([]byte, length)
		n, err := f.ReadAt(buf, offset)
		if err != nil && !errors.Is(err, io.EOF) {
			e.log.Error("Read: failed to read %d bytes at %d from %s - %v", length, offset, f.Name(), err)
			err = aioerrors.OperationFailed(err, "read", f.Name())
			return func() { cb(nil, err) }
		}
		return func() { cb(buf[:n], nil) }
	}, func(err error) { cb(nil, err) })
}

func (e *Engine) Stat(fd engine.Descriptor, pri data.Priority, cb engine.StatFunc) {
	f, err := e.file(fd)
	if err != nil {
		e.pool.Loop().Post(func() { cb(nil, err) })
		return
	}

	e.submitFile("Stat", f, pri, func() func() {
		info, err := f.Stat()
		if err != nil {
			err = aioerrors.OperationFailed(err, "stat", f.Name())
			return func() { cb(nil, err) }
		}
		stat := data.NewFileStat(info)
		return func() { cb(stat, nil) }
	}, func(err error) { cb(nil, err) })
}

func (e *Engine) StatFs(fd engine.Descriptor, pri data.Priority, cb engine.StatFsFunc) {
	f, err := e.file(fd)
	if err != nil {
		e.pool.Loop().Post(func() { cb(nil, err) })
		return
	}

	e.submitFile("StatFs", f, pri, func() func() {
		stat, err := fstatfs(f)
		if err != nil {
			err = aioerrors.OperationFailed(err, "statfs", f.Name())
			return func() { cb(nil, err) }
		}
		return func() { cb(stat, nil) }
	}, func(err error) { cb(nil, err) })
}

// result runs a descriptor operation that only reports an error.
func (e *Engine) result(op string, fd engine.Descriptor, pri data.Priority, cb engine.ResultFunc, run func(f *os.File) error) {
	if cb == nil {
		cb = func(error) {}
	}

	f, err := e.file(fd)
	if err != nil {
		e.pool.Loop().Post(func() { cb(err) })
		return
	}

	e.submitFile(op, f, pri, func() func() {
		err := aioerrors.OperationFailed(run(f), op, f.Name())
		if err != nil {
			e.log.Error("%s: %v", op, err)
		}
		return func() { cb(err) }
	}, cb)
}

func (e *Engine) Sync(fd engine.Descriptor, pri data.Priority, cb engine.ResultFunc) {
	e.result("fsync", fd, pri, cb, func(f *os.File) error {
		return f.Sync()
	})
}

func (e *Engine) DataSync(fd engine.Descriptor, pri data.Priority, cb engine.ResultFunc) {
	e.result("fdatasync", fd, pri, cb, fdatasync)
}

func (e *Engine) Truncate(fd engine.Descriptor, size int64, pri data.Priority, cb engine.ResultFunc) {
	e.result("ftruncate", fd, pri, cb, func(f *os.File) error {
		return f.Truncate(size)
	})
}

func (e *Engine) Chown(fd engine.Descriptor, uid, gid int, pri data.Priority, cb engine.ResultFunc) {
	e.result("fchown", fd, pri, cb, func(f *os.File) error {
		return f.Chown(uid, gid)
	})
}

func (e *Engine) Touch(fd engine.Descriptor, mtime, atime time.Time, pri data.Priority, cb engine.ResultFunc) {
	e.result("futime", fd, pri, cb, func(f *os.File) error {
		return futimes(f, mtime, atime)
	})
}

// Seek is not supported, files keep their own logical cursor.
func (e *Engine) Seek(engine.Descriptor, int64) (int64, error) {
	return 0, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "seek")
}

// Tell is not supported, files keep their own logical cursor.
func (e *Engine) Tell(engine.Descriptor) (int64, error) {
	return 0, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "tell")
}

// EOF compares position against the current size. The fstat runs inline since
// the caller expects an immediate answer.
func (e *Engine) EOF(fd engine.Descriptor, position int64) (bool, error) {
	f, err := e.file(fd)
	if err != nil {
		return true, err
	}

	info, err := f.Stat()
	if err != nil {
		return true, aioerrors.OperationFailed(err, "stat", f.Name())
	}
	return position >= info.Size(), nil
}

// Close queues behind every request already submitted for the descriptor and
// waits for those still running on other workers before releasing it.
func (e *Engine) Close(fd engine.Descriptor, cb engine.ResultFunc) {
	if cb == nil {
		cb = func(error) {}
	}

	f, err := e.file(fd)
	if err != nil {
		e.pool.Loop().Post(func() { cb(err) })
		return
	}

	wait, err := e.inflight.close(f)
	if err != nil {
		err = aioerrors.OperationFailed(err, "close", f.Name())
		e.pool.Loop().Post(func() { cb(err) })
		return
	}

	e.submit("close", data.PriorityMin, func() func() {
		wait()
		err := aioerrors.OperationFailed(f.Close(), "close", f.Name())
		e.inflight.forget(f)
		if err != nil {
			e.log.Error("close: %v", err)
		}
		return func() { cb(err) }
	}, cb)
}
