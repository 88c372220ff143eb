// Package objstore implements an asynchronous engine over S3 compatible object
// storage. Objects are addressed by key and behave like regular files without
// ownership; reads are ranged GETs and truncation rewrites the object.
package objstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/aio/data"
	aioerrors "github.com/mwantia/aio/data/errors"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/engine/async"
	"github.com/mwantia/aio/log"
)

type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Object is the descriptor of an opened object.
type Object struct {
	path   string
	bucket string
	key    string
}

func (o *Object) Name() string {
	return o.path
}

func (o *Object) Key() string {
	return o.key
}

type Engine struct {
	mu sync.Mutex

	ctx    context.Context
	client *minio.Client
	bucket string
	pool   *async.Pool
	log    *log.Logger
}

var _ engine.Engine = (*Engine)(nil)

// New creates the engine. No request is sent until the first operation.
// ctx bounds every request the engine issues.
func New(ctx context.Context, pool *async.Pool, cfg Config, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		ctx:    ctx,
		client: client,
		bucket: cfg.Bucket,
		pool:   pool,
		log:    logger.Named("objstore"),
	}, nil
}

// Returns the identifier name defined for this engine
func (*Engine) Name() string {
	return "objstore"
}

// GetCapabilities returns a list of capabilities supported by this engine.
func (*Engine) GetCapabilities() *engine.Capabilities {
	return engine.NewCapabilities(
		engine.CapabilityAsync,
		engine.CapabilityFlush,
		engine.CapabilityTruncate,
	)
}

func (e *Engine) Pool() *async.Pool {
	return e.pool
}

func (e *Engine) object(fd engine.Descriptor) (*Object, error) {
	o, ok := fd.(*Object)
	if !ok || o == nil {
		return nil, aioerrors.DescriptorMismatch(data.ErrInvalid, e.Name(), fd)
	}
	return o, nil
}

func (e *Engine) submit(op string, pri data.Priority, work async.Work, fail func(error)) {
	if err := e.pool.Submit(pri, work); err != nil {
		e.log.Warn("%s: request rejected - %v", op, err)
		e.pool.Loop().Post(func() { fail(err) })
	}
}

func (e *Engine) fail(fn func()) {
	e.pool.Loop().Post(fn)
}

func isNotExist(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func (e *Engine) stat(key string) (minio.ObjectInfo, error) {
	info, err := e.client.StatObject(e.ctx, e.bucket, key, minio.StatObjectOptions{})
	if err != nil && isNotExist(err) {
		return info, data.ErrNotExist
	}
	return info, err
}

func (e *Engine) put(key string, content []byte, contentType string) error {
	_, err := e.client.PutObject(e.ctx, e.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Open resolves the object and applies create, exclusive and truncate semantics.
func (e *Engine) Open(path string, flags data.VirtualAccessMode, _ os.FileMode, pri data.Priority, cb engine.OpenFunc) {
	key, err := data.ObjectKey(path)
	if err != nil {
		e.fail(func() { cb(nil, err) })
		return
	}

	e.submit("Open", pri, func() func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		_, err := e.stat(key)
		switch {
		case err == nil && flags.HasExcl():
			err = data.ErrExist
		case err == nil && flags.HasTrunc():
			err = e.put(key, nil, data.ContentTypeOf(key))
		case errors.Is(err, data.ErrNotExist) && flags.HasCreate():
			err = e.put(key, nil, data.ContentTypeOf(key))
		}

		if err != nil {
			err = aioerrors.OperationFailed(err, "open", path)
			return func() { cb(nil, err) }
		}

		obj := &Object{path: path, bucket: e.bucket, key: key}
		return func() { cb(obj, nil) }
	}, func(err error) { cb(nil, err) })
}

func (e *Engine) Read(fd engine.Descriptor, length int, offset int64, pri data.Priority, cb engine.ReadFunc) {
	o, err := e.object(fd)
	if err != nil {
		e.fail(func() { cb(nil, err) })
		return
	}

	e.submit("Read", pri, func() func() {
		buf, err := e.readRange(o.key, length, offset)
		if err != nil {
			e.log.Error("Read: failed to read %d bytes at %d from %s - %v", length, offset, o.key, err)
			err = aioerrors.OperationFailed(err, "read", o.key)
			return func() { cb(nil, err) }
		}
		return func() { cb(buf, nil) }
	}, func(err error) { cb(nil, err) })
}

func (e *Engine) readRange(key string, length int, offset int64) ([]byte, error) {
	info, err := e.stat(key)
	if err != nil {
		return nil, err
	}
	if length <= 0 || offset >= info.Size {
		return []byte{}, nil
	}

	end := min(offset+int64(length), info.Size) - 1
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(offset, end); err != nil {
		return nil, err
	}

	object, err := e.client.GetObject(e.ctx, e.bucket, key, opts)
	if err != nil {
		return nil, err
	}
	defer object.Close()

	return io.ReadAll(object)
}

func (e *Engine) Stat(fd engine.Descriptor, pri data.Priority, cb engine.StatFunc) {
	o, err := e.object(fd)
	if err != nil {
		e.fail(func() { cb(nil, err) })
		return
	}

	e.submit("Stat", pri, func() func() {
		info, err := e.stat(o.key)
		if err != nil {
			err = aioerrors.OperationFailed(err, "stat", o.key)
			return func() { cb(nil, err) }
		}
		stat := toVirtualFileStat(info)
		return func() { cb(stat, nil) }
	}, func(err error) { cb(nil, err) })
}

func toVirtualFileStat(info minio.ObjectInfo) *data.VirtualFileStat {
	return &data.VirtualFileStat{
		Mode:       0644,
		Nlink:      1,
		Size:       info.Size,
		AccessTime: info.LastModified,
		ModifyTime: info.LastModified,
		ChangeTime: info.LastModified,
		ETag:       info.ETag,
	}
}

// StatFs has no equivalent on object storage.
func (e *Engine) StatFs(_ engine.Descriptor, _ data.Priority, cb engine.StatFsFunc) {
	err := aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "statfs")
	e.fail(func() { cb(nil, err) })
}

func (e *Engine) done(cb engine.ResultFunc, err error) {
	if cb != nil {
		e.fail(func() { cb(err) })
	}
}

// Sync succeeds, since every write is already a complete upload.
func (e *Engine) Sync(fd engine.Descriptor, _ data.Priority, cb engine.ResultFunc) {
	_, err := e.object(fd)
	e.done(cb, err)
}

// DataSync succeeds, since every write is already a complete upload.
func (e *Engine) DataSync(fd engine.Descriptor, pri data.Priority, cb engine.ResultFunc) {
	e.Sync(fd, pri, cb)
}

// Truncate rewrites the object with its content cut or zero padded to size.
func (e *Engine) Truncate(fd engine.Descriptor, size int64, pri data.Priority, cb engine.ResultFunc) {
	if cb == nil {
		cb = func(error) {}
	}

	o, err := e.object(fd)
	if err != nil {
		e.done(cb, err)
		return
	}

	e.submit("Truncate", pri, func() func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		err := aioerrors.OperationFailed(e.truncate(o.key, size), "truncate", o.key)
		return func() { cb(err) }
	}, cb)
}

func (e *Engine) truncate(key string, size int64) error {
	if size < 0 {
		return data.ErrInvalid
	}

	info, err := e.stat(key)
	if err != nil {
		return err
	}

	content := make([]byte, size)
	if keep := min(size, info.Size); keep > 0 {
		existing, err := e.readRange(key, int(keep), 0)
		if err != nil {
			return err
		}
		copy(content, existing)
	}

	return e.put(key, content, info.ContentType)
}

// Chown is unsupported, objects carry no ownership.
func (e *Engine) Chown(_ engine.Descriptor, _, _ int, _ data.Priority, cb engine.ResultFunc) {
	e.done(cb, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "chown"))
}

// Touch is unsupported, modification times are assigned by the storage.
func (e *Engine) Touch(_ engine.Descriptor, _, _ time.Time, _ data.Priority, cb engine.ResultFunc) {
	e.done(cb, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "touch"))
}

func (e *Engine) Seek(engine.Descriptor, int64) (int64, error) {
	return 0, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "seek")
}

func (e *Engine) Tell(engine.Descriptor) (int64, error) {
	return 0, aioerrors.EngineUnsupported(data.ErrUnsupported, e.Name(), "tell")
}

func (e *Engine) EOF(fd engine.Descriptor, position int64) (bool, error) {
	o, err := e.object(fd)
	if err != nil {
		return true, err
	}

	info, err := e.stat(o.key)
	if err != nil {
		return true, aioerrors.OperationFailed(err, "stat", o.key)
	}
	return position >= info.Size, nil
}

// Close has nothing to release.
func (e *Engine) Close(fd engine.Descriptor, cb engine.ResultFunc) {
	_, err := e.object(fd)
	e.done(cb, err)
}
