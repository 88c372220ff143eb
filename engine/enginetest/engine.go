// Package enginetest provides an in-memory engine for tests of code built on
// engine.Engine. Completions either run before the call returns, like the
// blocking engine, or are deferred until Flush, like an async engine.
package enginetest

import (
	"os"
	"slices"
	"time"

	"github.com/mwantia/aio/data"
	aioerrors "github.com/mwantia/aio/data/errors"
	"github.com/mwantia/aio/engine"
)

// Operation names used by Calls and Fail.
const (
	OpOpen     = "open"
	OpRead     = "read"
	OpStat     = "stat"
	OpStatFs   = "statfs"
	OpSync     = "sync"
	OpDataSync = "datasync"
	OpTruncate = "truncate"
	OpChown    = "chown"
	OpTouch    = "touch"
	OpEOF      = "eof"
	OpClose    = "close"
)

// ReadCall records the arguments of a single Read.
type ReadCall struct {
	Offset int64
	Length int
}

// Owner records the last Chown applied to a path.
type Owner struct {
	Uid int
	Gid int
}

// Handle is the descriptor type of the engine.
type Handle struct {
	path   string
	cursor int64
	closed bool
}

func (h *Handle) Name() string {
	return h.path
}

func (h *Handle) Closed() bool {
	return h.closed
}

type Engine struct {
	files    map[string][]byte
	mtimes   map[string]time.Time
	atimes   map[string]time.Time
	owners   map[string]Owner
	failures map[string]error
	calls    map[string]int
	reads    []ReadCall
	queue    []func()
	caps     []engine.Capability
	deferred bool
}

var _ engine.Engine = (*Engine)(nil)

type Option func(*Engine)

// WithDeferred queues every completion until Flush and reports CapabilityAsync.
func WithDeferred() Option {
	return func(e *Engine) {
		e.deferred = true
	}
}

// WithCapabilities replaces the default capability set.
func WithCapabilities(caps ...engine.Capability) Option {
	return func(e *Engine) {
		e.caps = slices.Clone(caps)
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		files:    make(map[string][]byte),
		mtimes:   make(map[string]time.Time),
		atimes:   make(map[string]time.Time),
		owners:   make(map[string]Owner),
		failures: make(map[string]error),
		calls:    make(map[string]int),
		caps: []engine.Capability{
			engine.CapabilityStatFs,
			engine.CapabilityFlush,
			engine.CapabilityTruncate,
			engine.CapabilityChown,
			engine.CapabilityTouch,
		},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.deferred {
		e.caps = append(e.caps, engine.CapabilityAsync)
	}
	return e
}

func (e *Engine) Name() string {
	if e.deferred {
		return "enginetest-deferred"
	}
	return "enginetest"
}

func (e *Engine) GetCapabilities() *engine.Capabilities {
	return engine.NewCapabilities(e.caps...)
}

// SetFile stores content under path, replacing any previous content.
func (e *Engine) SetFile(path string, content []byte) {
	e.files[path] = append([]byte(nil), content...)
}

// Content returns the current content of path and whether it exists.
func (e *Engine) Content(path string) ([]byte, bool) {
	content, ok := e.files[path]
	return content, ok
}

func (e *Engine) ModifyTime(path string) time.Time {
	return e.mtimes[path]
}

func (e *Engine) AccessTime(path string) time.Time {
	return e.atimes[path]
}

func (e *Engine) Owner(path string) (Owner, bool) {
	owner, ok := e.owners[path]
	return owner, ok
}

// Fail makes every following call of op fail with err. A nil err clears it.
func (e *Engine) Fail(op string, err error) {
	if err == nil {
		delete(e.failures, op)
		return
	}
	e.failures[op] = err
}

// Calls returns how often op was invoked.
func (e *Engine) Calls(op string) int {
	return e.calls[op]
}

// Reads returns every Read in invocation order.
func (e *Engine) Reads() []ReadCall {
	return append([]ReadCall(nil), e.reads...)
}

// Pending returns the number of queued completions.
func (e *Engine) Pending() int {
	return len(e.queue)
}

// Flush runs queued completions, including those queued while flushing,
// and returns how many ran.
func (e *Engine) Flush() int {
	count := 0
	for len(e.queue) > 0 {
		fn := e.queue[0]
		e.queue = e.queue[1:]
		fn()
		count++
	}
	return count
}

func (e *Engine) complete(fn func()) {
	if e.deferred {
		e.queue = append(e.queue, fn)
		return
	}
	fn()
}

func (e *Engine) begin(op string) error {
	e.calls[op]++
	return e.failures[op]
}

func (e *Engine) handle(op string, fd engine.Descriptor) (*Handle, error) {
	if err := e.begin(op); err != nil {
		return nil, err
	}

	h, ok := fd.(*Handle)
	if !ok || h == nil {
		return nil, aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	if h.closed {
		return nil, aioerrors.OperationFailed(os.ErrClosed, op, h.path)
	}
	if _, exists := e.files[h.path]; !exists {
		return nil, aioerrors.OperationFailed(data.ErrNotExist, op, h.path)
	}
	return h, nil
}

func (e *Engine) result(op string, fd engine.Descriptor, cb engine.ResultFunc, run func(h *Handle) error) {
	h, err := e.handle(op, fd)
	if err == nil && run != nil {
		err = run(h)
	}
	if cb != nil {
		e.complete(func() { cb(err) })
	}
}

func (e *Engine) Open(path string, flags data.VirtualAccessMode, _ os.FileMode, _ data.Priority, cb engine.OpenFunc) {
	if err := e.begin(OpOpen); err != nil {
		e.complete(func() { cb(nil, err) })
		return
	}

	_, exists := e.files[path]
	var err error
	switch {
	case exists && flags.HasExcl():
		err = data.ErrExist
	case exists && flags.HasTrunc():
		e.files[path] = []byte{}
	case !exists && flags.HasCreate():
		e.files[path] = []byte{}
	case !exists:
		err = data.ErrNotExist
	}

	if err != nil {
		err = aioerrors.OperationFailed(err, OpOpen, path)
		e.complete(func() { cb(nil, err) })
		return
	}

	h := &Handle{path: path}
	e.complete(func() { cb(h, nil) })
}

func (e *Engine) Read(fd engine.Descriptor, length int, offset int64, _ data.Priority, cb engine.ReadFunc) {
	h, err := e.handle(OpRead, fd)
	if err != nil {
		e.complete(func() { cb(nil, err) })
		return
	}

	e.reads = append(e.reads, ReadCall{Offset: offset, Length: length})

	// Content is captured at submission, the way a real read snapshots the file.
	content := e.files[h.path]
	buf := []byte{}
	if offset < int64(len(content)) && length > 0 {
		end := min(offset+int64(length), int64(len(content)))
		buf = append(buf, content[offset:end]...)
	}
	e.complete(func() { cb(buf, nil) })
}

func (e *Engine) Stat(fd engine.Descriptor, _ data.Priority, cb engine.StatFunc) {
	h, err := e.handle(OpStat, fd)
	if err != nil {
		e.complete(func() { cb(nil, err) })
		return
	}

	stat := &data.VirtualFileStat{
		Mode:       0644,
		Nlink:      1,
		Size:       int64(len(e.files[h.path])),
		Blksize:    4096,
		AccessTime: e.atimes[h.path],
		ModifyTime: e.mtimes[h.path],
	}
	e.complete(func() { cb(stat, nil) })
}

func (e *Engine) StatFs(fd engine.Descriptor, _ data.Priority, cb engine.StatFsFunc) {
	_, err := e.handle(OpStatFs, fd)
	if err == nil && !e.GetCapabilities().Contains(engine.CapabilityStatFs) {
		err = aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), OpStatFs)
	}
	if err != nil {
		e.complete(func() { cb(nil, err) })
		return
	}

	stat := &data.VirtualFsStat{
		BlockSize:       4096,
		FragmentSize:    4096,
		Blocks:          1024,
		BlocksFree:      512,
		BlocksAvailable: 256,
		Files:           128,
		FilesFree:       64,
		NameMax:         255,
	}
	e.complete(func() { cb(stat, nil) })
}

func (e *Engine) Sync(fd engine.Descriptor, _ data.Priority, cb engine.ResultFunc) {
	e.result(OpSync, fd, cb, nil)
}

func (e *Engine) DataSync(fd engine.Descriptor, _ data.Priority, cb engine.ResultFunc) {
	e.result(OpDataSync, fd, cb, nil)
}

func (e *Engine) Truncate(fd engine.Descriptor, size int64, _ data.Priority, cb engine.ResultFunc) {
	e.result(OpTruncate, fd, cb, func(h *Handle) error {
		if size < 0 {
			return data.ErrInvalid
		}
		content := make([]byte, size)
		copy(content, e.files[h.path])
		e.files[h.path] = content
		return nil
	})
}

func (e *Engine) Chown(fd engine.Descriptor, uid, gid int, _ data.Priority, cb engine.ResultFunc) {
	e.result(OpChown, fd, cb, func(h *Handle) error {
		owner := e.owners[h.path]
		owner.Uid = uid
		if gid != -1 {
			owner.Gid = gid
		}
		e.owners[h.path] = owner
		return nil
	})
}

func (e *Engine) Touch(fd engine.Descriptor, mtime, atime time.Time, _ data.Priority, cb engine.ResultFunc) {
	e.result(OpTouch, fd, cb, func(h *Handle) error {
		e.mtimes[h.path] = mtime
		if !atime.IsZero() {
			e.atimes[h.path] = atime
		}
		return nil
	})
}

func (e *Engine) kernelCursor(fd engine.Descriptor) (*Handle, error) {
	if !e.GetCapabilities().Contains(engine.CapabilityKernelCursor) {
		return nil, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "cursor")
	}
	h, ok := fd.(*Handle)
	if !ok || h == nil {
		return nil, aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	return h, nil
}

func (e *Engine) Seek(fd engine.Descriptor, offset int64) (int64, error) {
	h, err := e.kernelCursor(fd)
	if err != nil {
		return 0, err
	}
	if offset < 0 {
		return h.cursor, data.ErrInvalid
	}
	h.cursor = offset
	return h.cursor, nil
}

func (e *Engine) Tell(fd engine.Descriptor) (int64, error) {
	h, err := e.kernelCursor(fd)
	if err != nil {
		return 0, err
	}
	return h.cursor, nil
}

func (e *Engine) EOF(fd engine.Descriptor, position int64) (bool, error) {
	h, err := e.handle(OpEOF, fd)
	if err != nil {
		return true, err
	}
	if e.GetCapabilities().Contains(engine.CapabilityKernelCursor) {
		position = h.cursor
	}
	return position >= int64(len(e.files[h.path])), nil
}

func (e *Engine) Close(fd engine.Descriptor, cb engine.ResultFunc) {
	e.calls[OpClose]++
	err := e.failures[OpClose]

	h, ok := fd.(*Handle)
	if err == nil && (!ok || h == nil) {
		err = aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	if err == nil {
		h.closed = true
	}
	if cb != nil {
		e.complete(func() { cb(err) })
	}
}
