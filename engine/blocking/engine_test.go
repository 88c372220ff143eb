package blocking

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, e *Engine, content string, mode string) engine.Descriptor {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blocking.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var fd engine.Descriptor
	var openErr error
	e.Open(path, data.MustParseAccessMode(mode), 0644, data.PriorityDefault, func(d engine.Descriptor, err error) {
		fd, openErr = d, err
	})
	require.NoError(t, openErr)
	require.NotNil(t, fd)

	t.Cleanup(func() { e.Close(fd, nil) })
	return fd
}

func TestEngine_CallbacksFireBeforeReturn(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "0123456789", "r")

	fired := false
	e.Read(fd, 4, 2, data.PriorityDefault, func(b []byte, err error) {
		fired = true
		require.NoError(t, err)
		assert.Equal(t, "2345", string(b))
	})
	assert.True(t, fired)

	fired = false
	e.Stat(fd, data.PriorityDefault, func(stat *data.VirtualFileStat, err error) {
		fired = true
		require.NoError(t, err)
		assert.Equal(t, int64(10), stat.Size)
	})
	assert.True(t, fired)
}

func TestEngine_ReadPastEnd(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "abc", "r")

	e.Read(fd, 10, 1, data.PriorityDefault, func(b []byte, err error) {
		require.NoError(t, err)
		assert.Equal(t, "bc", string(b))
	})
	e.Read(fd, 10, 3, data.PriorityDefault, func(b []byte, err error) {
		require.NoError(t, err)
		assert.Empty(t, b)
	})
}

func TestEngine_StatFsUnsupported(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "", "r")

	e.StatFs(fd, data.PriorityDefault, func(stat *data.VirtualFsStat, err error) {
		assert.Nil(t, stat)
		assert.ErrorIs(t, err, data.ErrUnsupported)
	})
	assert.False(t, e.GetCapabilities().Contains(engine.CapabilityStatFs))
}

func TestEngine_SyncReportsSuccess(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "x", "r")

	e.Sync(fd, data.PriorityDefault, func(err error) { assert.NoError(t, err) })
	e.DataSync(fd, data.PriorityDefault, func(err error) { assert.NoError(t, err) })
}

func TestEngine_TruncateReadOnlyDescriptor(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "0123456789", "r")

	e.Truncate(fd, 4, data.PriorityDefault, func(err error) { require.NoError(t, err) })

	content, err := os.ReadFile(fd.Name())
	require.NoError(t, err)
	assert.Equal(t, "0123", string(content))
}

func TestEngine_TruncateMissingPath(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "0123", "r")
	require.NoError(t, os.Remove(fd.Name()))

	e.Truncate(fd, 1, data.PriorityDefault, func(err error) {
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestEngine_Touch(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "x", "r")

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	e.Touch(fd, mtime, time.Time{}, data.PriorityDefault, func(err error) { require.NoError(t, err) })

	info, err := os.Stat(fd.Name())
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestEngine_ChownToSelf(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "x", "r")

	e.Chown(fd, os.Getuid(), -1, data.PriorityDefault, func(err error) { assert.NoError(t, err) })
	e.Chown(fd, os.Getuid(), os.Getgid(), data.PriorityDefault, func(err error) { assert.NoError(t, err) })
}

func TestEngine_SeekTellEOF(t *testing.T) {
	e := New(nil)
	fd := openTemp(t, e, "abcdef", "r")

	pos, err := e.Tell(fd)
	require.NoError(t, err)
	assert.Zero(t, pos)

	eof, err := e.EOF(fd, 0)
	require.NoError(t, err)
	assert.False(t, eof)

	pos, err = e.Seek(fd, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	eof, err = e.EOF(fd, 0)
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestEngine_ForeignDescriptor(t *testing.T) {
	e := New(nil)

	e.Stat(foreign{}, data.PriorityDefault, func(stat *data.VirtualFileStat, err error) {
		assert.ErrorIs(t, err, data.ErrInvalid)
	})
}

type foreign struct{}

func (foreign) Name() string { return "foreign" }
