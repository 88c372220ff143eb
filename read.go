package aio

import (
	"github.com/mwantia/aio/data"
)

// Read issues one read of up to length bytes at offset, or at the current
// position for CurrentPosition. The position advances by length before the
// read is submitted, so it does not reflect bytes actually delivered.
// Engines with a kernel cursor have theirs advanced the same way.
//
// Without cb the OnRead handler is used; if neither exists the call fails
// with data.ErrNoReadCallback and has no side effects.
func (f *File) Read(length int, offset int64, pri data.Priority, cb ReadCallback) error {
	return f.read("Read", length, offset, pri, cb)
}

// ReadAhead behaves exactly like Read.
func (f *File) ReadAhead(length int, offset int64, pri data.Priority, cb ReadCallback) error {
	return f.read("ReadAhead", length, offset, pri, cb)
}

func (f *File) read(op string, length int, offset int64, pri data.Priority, cb ReadCallback) error {
	if cb == nil {
		cb = f.onRead
	}
	if cb == nil {
		return data.ErrNoReadCallback
	}
	if length < 0 || (offset < 0 && offset != CurrentPosition) {
		return data.ErrInvalid
	}

	if f.descriptor == nil {
		cb(f, nil, f.closedError("read"))
		return nil
	}

	cursor, err := f.Tell()
	if err != nil {
		cb(f, nil, err)
		return nil
	}

	at := offset
	if offset == CurrentPosition {
		at = cursor
	}

	f.position = cursor + int64(length)
	if f.kernelCursor() {
		if _, err := f.engine.Seek(f.descriptor, f.position); err != nil {
			f.log.Warn("%s: unable to move cursor of %s (%s) - %v", op, f.path, f.id, err)
		}
	}

	f.log.Debug("%s: %d bytes at %d from %s (%s)", op, length, at, f.path, f.id)
	f.engine.Read(f.descriptor, length, at, pri, func(buf []byte, err error) {
		cb(f, buf, err)
	})
	return nil
}
