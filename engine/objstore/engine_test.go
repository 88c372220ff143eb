package objstore

import (
	"context"
	"testing"
	"time"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine"
	"github.com/mwantia/aio/engine/async"
	"github.com/mwantia/aio/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests only cover behaviour that never reaches the storage endpoint.
func newTestEngine(t *testing.T) (*Engine, *loop.Loop) {
	t.Helper()

	l := loop.New(nil)
	pool := async.NewPool(l, 1, nil)
	t.Cleanup(pool.Close)

	e, err := New(t.Context(), pool, Config{
		Endpoint: "localhost:9000",
		Bucket:   "aio",
	}, nil)
	require.NoError(t, err)

	return e, l
}

func TestEngine_Capabilities(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, "objstore", e.Name())
	caps := e.GetCapabilities()
	assert.True(t, caps.Contains(engine.CapabilityAsync))
	assert.False(t, caps.Contains(engine.CapabilityKernelCursor))
	assert.False(t, caps.Contains(engine.CapabilityChown))
}

func TestEngine_UnsupportedOperationsCompleteOnLoop(t *testing.T) {
	e, l := newTestEngine(t)
	fd := &Object{path: "/a.txt", bucket: "aio", key: "a.txt"}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	var errs []error
	e.StatFs(fd, data.PriorityDefault, func(_ *data.VirtualFsStat, err error) { errs = append(errs, err) })
	e.Chown(fd, 0, 0, data.PriorityDefault, func(err error) { errs = append(errs, err) })
	e.Touch(fd, time.Now(), time.Time{}, data.PriorityDefault, func(err error) { errs = append(errs, err) })
	assert.Empty(t, errs)

	require.NoError(t, l.RunUntil(ctx, func() bool { return len(errs) == 3 }))
	for _, err := range errs {
		assert.ErrorIs(t, err, data.ErrUnsupported)
	}

	_, err := e.Seek(fd, 0)
	assert.ErrorIs(t, err, data.ErrUnsupported)
}

func TestEngine_SyncAndCloseSucceed(t *testing.T) {
	e, l := newTestEngine(t)
	fd := &Object{path: "/a.txt", bucket: "aio", key: "a.txt"}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	results := 0
	e.Sync(fd, data.PriorityDefault, func(err error) { assert.NoError(t, err); results++ })
	e.DataSync(fd, data.PriorityDefault, func(err error) { assert.NoError(t, err); results++ })
	e.Close(fd, func(err error) { assert.NoError(t, err); results++ })

	require.NoError(t, l.RunUntil(ctx, func() bool { return results == 3 }))
	assert.Equal(t, "/a.txt", fd.Name())
	assert.Equal(t, "a.txt", fd.Key())
}

func TestEngine_ForeignDescriptor(t *testing.T) {
	e, l := newTestEngine(t)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	fired := false
	e.Read(foreign{}, 1, 0, data.PriorityDefault, func(b []byte, err error) {
		assert.ErrorIs(t, err, data.ErrInvalid)
		fired = true
	})
	require.NoError(t, l.RunUntil(ctx, func() bool { return fired }))
}

func TestEngine_OpenRejectsRoot(t *testing.T) {
	e, l := newTestEngine(t)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	fired := false
	e.Open("/", data.MustParseAccessMode("r"), 0644, data.PriorityDefault, func(fd engine.Descriptor, err error) {
		assert.Nil(t, fd)
		assert.ErrorIs(t, err, data.ErrInvalid)
		fired = true
	})
	require.NoError(t, l.RunUntil(ctx, func() bool { return fired }))
}

type foreign struct{}

func (foreign) Name() string { return "foreign" }
