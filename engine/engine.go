// Package engine defines the capability interface file handles use to run their
// operations, either asynchronously through a worker pool or as blocking syscalls.
package engine

import (
	"os"
	"time"

	"github.com/mwantia/aio/data"
)

// Descriptor identifies an open file inside the engine that created it.
// Engines reject descriptors created by other engines.
type Descriptor interface {
	// Name returns the path the descriptor was opened with.
	Name() string
}

type (
	OpenFunc   func(fd Descriptor, err error)
	ReadFunc   func(data []byte, err error)
	StatFunc   func(stat *data.VirtualFileStat, err error)
	StatFsFunc func(stat *data.VirtualFsStat, err error)
	ResultFunc func(err error)
)

// Engine executes file operations against descriptors it opened.
//
// Every callback is invoked exactly once. Engines without CapabilityAsync
// invoke it before the method returns; asynchronous engines invoke it later
// from their completion loop. Callers must be correct in both cases.
type Engine interface {
	// Name returns the identifier name defined for this engine.
	Name() string

	// GetCapabilities returns the capabilities supported by this engine.
	GetCapabilities() *Capabilities

	// Open opens path with the translated access mode.
	Open(path string, flags data.VirtualAccessMode, perm os.FileMode, pri data.Priority, cb OpenFunc)

	// Read reads up to length bytes at offset. A short or empty result means end of file.
	Read(fd Descriptor, length int, offset int64, pri data.Priority, cb ReadFunc)

	// Stat returns file metadata of fd.
	Stat(fd Descriptor, pri data.Priority, cb StatFunc)

	// StatFs returns filesystem metadata of the filesystem holding fd.
	StatFs(fd Descriptor, pri data.Priority, cb StatFsFunc)

	// Sync flushes data and metadata of fd to stable storage.
	Sync(fd Descriptor, pri data.Priority, cb ResultFunc)

	// DataSync flushes data of fd to stable storage.
	DataSync(fd Descriptor, pri data.Priority, cb ResultFunc)

	// Truncate shrinks or extends the file to size bytes.
	Truncate(fd Descriptor, size int64, pri data.Priority, cb ResultFunc)

	// Chown changes owner and, unless gid is -1, group.
	Chown(fd Descriptor, uid, gid int, pri data.Priority, cb ResultFunc)

	// Touch sets modification and access time. A zero atime leaves the access time unchanged.
	Touch(fd Descriptor, mtime, atime time.Time, pri data.Priority, cb ResultFunc)

	// Seek moves the cursor kept by the descriptor itself.
	// Only meaningful with CapabilityKernelCursor.
	Seek(fd Descriptor, offset int64) (int64, error)

	// Tell returns the cursor kept by the descriptor itself.
	// Only meaningful with CapabilityKernelCursor.
	Tell(fd Descriptor) (int64, error)

	// EOF reports whether the stream behind fd is exhausted. position is the
	// logical cursor of the caller, used by engines without a kernel cursor.
	EOF(fd Descriptor, position int64) (bool, error)

	// Close releases fd. cb may be nil.
	Close(fd Descriptor, cb ResultFunc)
}
