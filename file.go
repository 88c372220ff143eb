// Package aio provides file handles whose operations complete through
// callbacks, either asynchronously on a completion loop or immediately
// through blocking syscalls. Callers must be correct in both cases.
package aio

import (
	"github.com/mwantia/aio/data"
	aioerrors "github.com/mwantia/aio/data/errors"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/log"
)

const (
	// DefaultChunkSize bounds every read issued by ReadAll and ReadAllChunked.
	DefaultChunkSize = 4096

	// CurrentPosition as read offset reads at the logical cursor of the file.
	CurrentPosition int64 = -1
)

type (
	OpenCallback   func(f *File, err error)
	ReadCallback   func(f *File, data []byte, err error)
	ChunkCallback  func(f *File, data []byte)
	StatCallback   func(f *File, stat *data.VirtualFileStat, err error)
	StatFsCallback func(f *File, stat *data.VirtualFsStat, err error)
	ResultCallback func(f *File, err error)
	EOFCallback    func(f *File)
	ReadyCallback  func(f *File)
)

// File owns one descriptor of an engine. It is not safe for concurrent use;
// with an async engine all callbacks run on the goroutine driving the loop.
type File struct {
	id   string
	path string
	mode string

	flags  data.VirtualAccessMode
	opts   *Options
	engine engine.Engine
	caps   *engine.Capabilities

	descriptor engine.Descriptor
	position   int64
	chunkSize  int
	priority   data.Priority

	stat   *data.VirtualFileStat
	statfs *data.VirtualFsStat
	eof    bool
	inited bool

	onRead  ReadCallback
	onEOF   EOFCallback
	onReady ReadyCallback

	log *log.Logger
}

// New creates a handle for path without opening it. The handle becomes
// usable once a descriptor is attached with SetDescriptor.
func New(path, mode string, opts ...Option) (*File, error) {
	flags, err := data.ParseAccessMode(mode)
	if err != nil {
		return nil, err
	}

	options := newDefaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if options.Engine == nil {
		options.Engine = DefaultEngine()
	}
	if options.Logger == nil {
		options.Logger = defaultLogger()
	}

	return &File{
		id:        data.NewID(),
		path:      path,
		mode:      mode,
		flags:     flags,
		opts:      options,
		engine:    options.Engine,
		caps:      options.Engine.GetCapabilities(),
		chunkSize: options.ChunkSize,
		priority:  options.Priority,
		onRead:    options.OnRead,
		onEOF:     options.OnEOF,
		onReady:   options.OnReady,
		log:       options.Logger.Named("file"),
	}, nil
}

// Open creates a handle and opens path through its engine. The returned error
// only covers construction; open failures are reported through cb.
func Open(path, mode string, cb OpenCallback, opts ...Option) error {
	f, err := New(path, mode, opts...)
	if err != nil {
		return err
	}

	f.log.Debug("Open: %s '%s' with %s (%s)", f.path, f.flags, f.engine.Name(), f.id)
	f.engine.Open(f.path, f.flags, f.opts.Perm, f.priority, func(fd engine.Descriptor, err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		f.SetDescriptor(fd)
		cb(f, nil)
	})
	return nil
}

// SetDescriptor attaches fd. The first attach initializes the handle.
func (f *File) SetDescriptor(fd engine.Descriptor) {
	f.descriptor = fd
	if !f.inited {
		f.init()
	}
}

func (f *File) init() {
	f.inited = true
	f.position = 0
	f.eof = false
}

func (f *File) Path() string {
	return f.path
}

func (f *File) String() string {
	return f.path
}

func (f *File) ID() string {
	return f.id
}

func (f *File) Mode() string {
	return f.mode
}

func (f *File) Flags() data.VirtualAccessMode {
	return f.flags
}

func (f *File) Engine() engine.Engine {
	return f.engine
}

// Descriptor returns the attached descriptor, nil once closed.
func (f *File) Descriptor() engine.Descriptor {
	return f.descriptor
}

func (f *File) IsClosed() bool {
	return f.descriptor == nil
}

func (f *File) ChunkSize() int {
	return f.chunkSize
}

func (f *File) SetChunkSize(size int) error {
	if size < 1 {
		return data.ErrInvalid
	}
	f.chunkSize = size
	return nil
}

func (f *File) Priority() data.Priority {
	return f.priority
}

func (f *File) SetPriority(pri data.Priority) {
	f.priority = pri.Clamp()
}

func (f *File) kernelCursor() bool {
	return f.caps.Contains(engine.CapabilityKernelCursor)
}

// Seek moves the cursor to pos. Engines with a kernel cursor move theirs too.
func (f *File) Seek(pos int64) error {
	if f.descriptor == nil {
		return data.ErrClosed
	}
	if pos < 0 {
		return data.ErrInvalid
	}

	if f.kernelCursor() {
		if _, err := f.engine.Seek(f.descriptor, pos); err != nil {
			return err
		}
	}
	f.position = pos
	return nil
}

// Tell returns the kernel cursor for engines that keep one, otherwise the
// logical position.
func (f *File) Tell() (int64, error) {
	if f.descriptor == nil {
		return 0, data.ErrClosed
	}
	if f.kernelCursor() {
		return f.engine.Tell(f.descriptor)
	}
	return f.position, nil
}

// Close releases the descriptor. Async engines close in the background and
// only log a failure. Closing twice returns data.ErrClosed.
func (f *File) Close() error {
	if f.descriptor == nil {
		return data.ErrClosed
	}

	fd := f.descriptor
	f.descriptor = nil
	f.log.Debug("Close: %s (%s)", f.path, f.id)

	if f.caps.Contains(engine.CapabilityAsync) {
		f.engine.Close(fd, func(err error) {
			if err != nil {
				f.log.Warn("Close: failed to close %s (%s) - %v", f.path, f.id, err)
			}
		})
		return nil
	}

	var closeErr error
	f.engine.Close(fd, func(err error) {
		closeErr = err
	})
	return closeErr
}

func (f *File) closedError(op string) error {
	return aioerrors.OperationFailed(data.ErrClosed, op, f.path)
}
