package aio

import (
	"io"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine"
)

// chunkedRead consumes a file in sequential bounded reads. The size is
// captured from stat once; the next read is issued only after the previous
// completion ran. Completions delivered before Read returns are trampolined
// through run instead of recursing once per chunk.
type chunkedRead struct {
	file       *File
	descriptor engine.Descriptor
	size       int64
	consumed   int64
	chunkSize  int
	priority   data.Priority
	reads      int

	onChunk func(buf []byte)
	onDone  func(err error)

	running  bool
	pending  bool
	finished bool
}

func newChunkedRead(f *File, pri data.Priority, onChunk func([]byte), onDone func(error)) *chunkedRead {
	return &chunkedRead{
		file:      f,
		chunkSize: f.chunkSize,
		priority:  pri,
		onChunk:   onChunk,
		onDone:    onDone,
	}
}

func (r *chunkedRead) start() {
	r.file.Stat(r.priority, func(f *File, stat *data.VirtualFileStat, err error) {
		if err != nil {
			r.finish(err)
			return
		}

		r.descriptor = f.descriptor
		r.size = stat.Size
		r.run()
	})
}

func (r *chunkedRead) run() {
	r.running = true
	defer func() { r.running = false }()

	for {
		r.pending = false
		r.step()
		if !r.pending || r.finished {
			return
		}
	}
}

// step issues the next read.
func (r *chunkedRead) step() {
	if r.file.descriptor == nil || r.file.descriptor != r.descriptor {
		r.finish(r.file.closedError("read"))
		return
	}

	length := int(min(int64(r.chunkSize), max(r.size-r.consumed, 0)))
	r.reads++
	r.file.engine.Read(r.descriptor, length, r.consumed, r.priority, r.complete)
}

func (r *chunkedRead) complete(buf []byte, err error) {
	if err != nil {
		r.finish(err)
		return
	}

	if len(buf) > 0 {
		r.onChunk(buf)
	}
	r.consumed += int64(len(buf))

	switch {
	case r.consumed >= r.size:
		r.finish(nil)
	case len(buf) == 0:
		r.finish(io.ErrUnexpectedEOF)
	case r.running:
		r.pending = true
	default:
		r.run()
	}
}

func (r *chunkedRead) finish(err error) {
	if r.finished {
		return
	}
	r.finished = true

	if err != nil {
		r.file.log.Debug("ReadAll: %s (%s) stopped after %d bytes - %v", r.file.path, r.file.id, r.consumed, err)
	}
	r.onDone(err)
}

// ReadAll reads the whole file, as reported by Stat, into one buffer.
// A file that shrinks while reading yields io.ErrUnexpectedEOF together with
// the bytes read so far. A nil cb falls back to the OnRead callback; without
// either nothing is read.
func (f *File) ReadAll(pri data.Priority, cb ReadCallback) {
	if cb == nil {
		cb = f.onRead
	}
	if cb == nil {
		f.log.Debug("ReadAll: %s (%s) skipped, no read callback", f.path, f.id)
		return
	}

	var buf []byte
	r := newChunkedRead(f, pri, func(chunk []byte) {
		buf = append(buf, chunk...)
	}, func(err error) {
		if buf == nil && err == nil {
			buf = []byte{}
		}
		cb(f, buf, err)
	})
	r.start()
}

// ReadAllChunked reads the whole file like ReadAll but hands each chunk to
// chunkCb as it arrives. cb fires exactly once after the last chunk. Either
// callback may be nil.
func (f *File) ReadAllChunked(pri data.Priority, cb ResultCallback, chunkCb ChunkCallback) {
	r := newChunkedRead(f, pri, func(chunk []byte) {
		if chunkCb != nil {
			chunkCb(f, chunk)
		}
	}, func(err error) {
		if cb != nil {
			cb(f, err)
		}
	})
	r.start()
}
