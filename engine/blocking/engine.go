// Package blocking implements the fallback engine: every operation is a plain
// syscall and its callback fires before the method returns.
package blocking

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

type Engine struct {
	log *log.Logger
}

var _ engine.Engine = (*Engine)(nil)

func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &Engine{
		log: logger.Named("blocking"),
	}
}

// Returns the identifier name defined for this engine
func (*Engine) Name() string {
	return "blocking"
}

// GetCapabilities returns a list of capabilities supported by this engine.
// Sync and statfs are not listed: sync reports success without flushing and
// statfs is never attempted.
func (*Engine) GetCapabilities() *engine.Capabilities {
	return engine.NewCapabilities(
		engine.CapabilityKernelCursor,
		engine.CapabilityTruncate,
		engine.CapabilityChown,
		engine.CapabilityTouch,
	)
}

func (e *Engine) file(fd engine.Descriptor) (*os.File, error) {
	f, ok := fd.(*os.File)
	if !ok || f == nil {
		return nil, aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	return f, nil
}

func (e *Engine) Open(path string, flags data.VirtualAccessMode, perm os.FileMode, _ data.Priority, cb engine.OpenFunc) {
	f, err := os.OpenFile(path, flags.OSFlags(), perm)
	if err != nil {
		e.log.Debug("Open: failed to open %s - %v", path, err)
		cb(nil, aioerrors.OperationFailed(err, "open", path))
		return
	}
	cb(f, nil)
}

func (e *Engine) Read(fd engine.Descriptor, length int, offset int64, _ data.Priority, cb engine.ReadFunc) {
	f, err := e.file(fd)
	if err != nil {
		cb(nil, err)
		return
	}

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		e.log.Error("Read: failed to read %d bytes at %d from %s - %v", length, offset, f.Name(), err)
		cb(nil, aioerrors.OperationFailed(err, "read", f.Name()))
		return
	}

	cb(buf[:n], nil)
}

// Stat fetches fresh metadata on every call.
func (e *Engine) Stat(fd engine.Descriptor, _ data.Priority, cb engine.StatFunc) {
	f, err := e.file(fd)
	if err != nil {
		cb(nil, err)
		return
	}

	info, err := f.Stat()
	if err != nil {
		cb(nil, aioerrors.OperationFailed(err, "stat", f.Name()))
		return
	}
	cb(data.NewFileStat(info), nil)
}

// StatFs is only available through asynchronous engines.
func (e *Engine) StatFs(_ engine.Descriptor, _ data.Priority, cb engine.StatFsFunc) {
	cb(nil, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "statfs"))
}

// Sync reports success without flushing.
func (e *Engine) Sync(_ engine.Descriptor, _ data.Priority, cb engine.ResultFunc) {
	cb(nil)
}

// DataSync reports success without flushing.
func (e *Engine) DataSync(_ engine.Descriptor, _ data.Priority, cb engine.ResultFunc) {
	cb(nil)
}

// Truncate reopens the path read-write, since fd may have been opened read-only.
func (e *Engine) Truncate(fd engine.Descriptor, size int64, _ data.Priority, cb engine.ResultFunc) {
	f, err := e.file(fd)
	if err != nil {
		cb(err)
		return
	}

	rw, err := os.OpenFile(f.Name(), os.O_RDWR, 0)
	if err != nil {
		cb(aioerrors.OperationFailed(err, "truncate", f.Name()))
		return
	}
	defer rw.Close()

	cb(aioerrors.OperationFailed(rw.Truncate(size), "truncate", f.Name()))
}

// Chown changes the owner first and the group in a second call.
func (e *Engine) Chown(fd engine.Descriptor, uid, gid int, _ data.Priority, cb engine.ResultFunc) {
	f, err := e.file(fd)
	if err != nil {
		cb(err)
		return
	}

	if err := os.Chown(f.Name(), uid, -1); err != nil {
		cb(aioerrors.OperationFailed(err, "chown", f.Name()))
		return
	}
	if gid != -1 {
		if err := os.Chown(f.Name(), -1, gid); err != nil {
			cb(aioerrors.OperationFailed(err, "chgrp", f.Name()))
			return
		}
	}
	cb(nil)
}

func (e *Engine) Touch(fd engine.Descriptor, mtime, atime time.Time, _ data.Priority, cb engine.ResultFunc) {
	f, err := e.file(fd)
	if err != nil {
		cb(err)
		return
	}

	// Chtimes leaves a zero atime unchanged.
	cb(aioerrors.OperationFailed(os.Chtimes(f.Name(), atime, mtime), "touch", f.Name()))
}

func (e *Engine) Seek(fd engine.Descriptor, offset int64) (int64, error) {
	f, err := e.file(fd)
	if err != nil {
		return 0, err
	}
	return f.Seek(offset, io.SeekStart)
}

func (e *Engine) Tell(fd engine.Descriptor) (int64, error) {
	f, err := e.file(fd)
	if err != nil {
		return 0, err
	}
	return f.Seek(0, io.SeekCurrent)
}

// EOF compares the kernel cursor against the current size; position is ignored.
func (e *Engine) EOF(fd engine.Descriptor, _ int64) (bool, error) {
	f, err := e.file(fd)
	if err != nil {
		return true, err
	}

	info, err := f.Stat()
	if err != nil {
		return true, aioerrors.OperationFailed(err, "stat", f.Name())
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return true, aioerrors.OperationFailed(err, "seek", f.Name())
	}

	return pos >= info.Size(), nil
}

func (e *Engine) Close(fd engine.Descriptor, cb engine.ResultFunc) {
	f, err := e.file(fd)
	if err == nil {
		err = aioerrors.OperationFailed(f.Close(), "close", f.Name())
	}

	if err != nil {
		e.log.Warn("Close: %v", err)
	}
	if cb != nil {
		cb(err)
	}
}
