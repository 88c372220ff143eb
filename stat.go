package aio

import (
	"time"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine"
)

func (f *File) async() bool {
	return f.caps.Contains(engine.CapabilityAsync)
}

// Stat reports file metadata. A cached entry is returned immediately.
// Results of asynchronous engines are cached; blocking results never are.
func (f *File) Stat(pri data.Priority, cb StatCallback) {
	if f.stat != nil {
		cb(f, f.stat, nil)
		return
	}
	if f.descriptor == nil {
		cb(f, nil, f.closedError("stat"))
		return
	}

	f.engine.Stat(f.descriptor, pri, func(stat *data.VirtualFileStat, err error) {
		if err != nil {
			f.log.Debug("Stat: %s (%s) - %v", f.path, f.id, err)
			cb(f, nil, err)
			return
		}
		if f.async() {
			f.stat = stat
		}
		cb(f, stat, nil)
	})
}

// StatFs reports metadata of the filesystem holding the file. Blocking
// engines report data.ErrUnsupported without a syscall.
func (f *File) StatFs(pri data.Priority, cb StatFsCallback) {
	if f.statfs != nil {
		cb(f, f.statfs, nil)
		return
	}
	if f.descriptor == nil {
		cb(f, nil, f.closedError("statfs"))
		return
	}

	f.engine.StatFs(f.descriptor, pri, func(stat *data.VirtualFsStat, err error) {
		if err != nil {
			cb(f, nil, err)
			return
		}
		if f.async() {
			f.statfs = stat
		}
		cb(f, stat, nil)
	})
}

// ClearStatCache drops both cached entries.
func (f *File) ClearStatCache() {
	f.stat = nil
	f.statfs = nil
}

func (f *File) result(op string, cb ResultCallback, run func(fd engine.Descriptor, done engine.ResultFunc)) {
	if f.descriptor == nil {
		if cb != nil {
			cb(f, f.closedError(op))
		}
		return
	}

	run(f.descriptor, func(err error) {
		if err != nil {
			f.log.Debug("%s: %s (%s) - %v", op, f.path, f.id, err)
		}
		if cb != nil {
			cb(f, err)
		}
	})
}

// Sync flushes data and metadata. Blocking engines report success without flushing.
func (f *File) Sync(pri data.Priority, cb ResultCallback) {
	f.result("sync", cb, func(fd engine.Descriptor, done engine.ResultFunc) {
		f.engine.Sync(fd, pri, done)
	})
}

// DataSync flushes data only. Blocking engines report success without flushing.
func (f *File) DataSync(pri data.Priority, cb ResultCallback) {
	f.result("datasync", cb, func(fd engine.Descriptor, done engine.ResultFunc) {
		f.engine.DataSync(fd, pri, done)
	})
}

// Truncate resizes the file to size bytes. cb may be nil.
func (f *File) Truncate(size int64, pri data.Priority, cb ResultCallback) {
	f.result("truncate", cb, func(fd engine.Descriptor, done engine.ResultFunc) {
		f.engine.Truncate(fd, size, pri, done)
	})
}

// Chown changes the owner and, unless gid is -1, the group. cb may be nil.
func (f *File) Chown(uid, gid int, pri data.Priority, cb ResultCallback) {
	f.result("chown", cb, func(fd engine.Descriptor, done engine.ResultFunc) {
		f.engine.Chown(fd, uid, gid, pri, done)
	})
}

// Touch sets the modification time and, when atime is not zero, the access time.
// cb may be nil.
func (f *File) Touch(mtime, atime time.Time, pri data.Priority, cb ResultCallback) {
	f.result("touch", cb, func(fd engine.Descriptor, done engine.ResultFunc) {
		f.engine.Touch(fd, mtime, atime, pri, done)
	})
}
