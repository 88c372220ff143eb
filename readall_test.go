package aio_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine/enginetest"
	"github.com/mwantia/aio/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFake(t *testing.T, e *enginetest.Engine, path, mode string, opts ...aio.Option) *aio.File {
	t.Helper()

	opts = append([]aio.Option{
		aio.WithEngine(e),
		aio.WithLogger(log.NewDiscardLogger()),
	}, opts...)

	var file *aio.File
	require.NoError(t, aio.Open(path, mode, func(f *aio.File, err error) {
		require.NoError(t, err)
		file = f
	}, opts...))
	e.Flush()
	require.NotNil(t, file)
	return file
}

func TestReadAll_ReadCount(t *testing.T) {
	const chunk = 7

	for _, size := range []int{0, 1, chunk - 1, chunk, chunk + 1, 5 * chunk, 5*chunk + 3} {
		for _, deferred := range []bool{false, true} {
			var opts []enginetest.Option
			if deferred {
				opts = append(opts, enginetest.WithDeferred())
			}
			e := enginetest.New(opts...)

			content := bytes.Repeat([]byte("x"), size)
			e.SetFile("/a", content)
			f := openFake(t, e, "/a", "r", aio.WithChunkSize(chunk))

			var got []byte
			done := false
			f.ReadAll(data.PriorityDefault, func(_ *aio.File, buf []byte, err error) {
				require.NoError(t, err)
				got, done = buf, true
			})
			e.Flush()

			require.True(t, done)
			assert.Equal(t, content, got)

			reads := e.Reads()
			expected := (size + chunk - 1) / chunk
			if size == 0 {
				expected = 1
			}
			require.Len(t, reads, expected, "size %d deferred %v", size, deferred)
			if size == 0 {
				assert.Equal(t, 0, reads[0].Length)
			}
			for i, read := range reads {
				assert.EqualValues(t, i*chunk, read.Offset)
			}
		}
	}
}

func TestReadAllChunked_MatchesReadAll(t *testing.T) {
	content := []byte("abcdefghijklmnopqrstuvwxyz")

	e := enginetest.New()
	e.SetFile("/a", content)
	f := openFake(t, e, "/a", "r", aio.WithChunkSize(4))

	f.ReadAll(data.PriorityDefault, func(*aio.File, []byte, error) {})
	whole := e.Reads()

	e = enginetest.New()
	e.SetFile("/a", content)
	f = openFake(t, e, "/a", "r", aio.WithChunkSize(4))

	var chunks [][]byte
	completions := 0
	f.ReadAllChunked(data.PriorityDefault, func(_ *aio.File, err error) {
		require.NoError(t, err)
		completions++
	}, func(_ *aio.File, chunk []byte) {
		chunks = append(chunks, chunk)
	})

	assert.Equal(t, whole, e.Reads())
	assert.Equal(t, 1, completions)
	assert.Equal(t, content, bytes.Join(chunks, nil))
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.Len(t, chunk, 4)
	}
}

func TestReadAll_ShrinkingFile(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("0123456789"))
	f := openFake(t, e, "/a", "r", aio.WithChunkSize(4))

	var got []byte
	var readErr error
	var chunks int
	f.ReadAllChunked(data.PriorityDefault, func(_ *aio.File, err error) {
		readErr = err
	}, func(_ *aio.File, chunk []byte) {
		got = append(got, chunk...)
		if chunks++; chunks == 1 {
			e.SetFile("/a", []byte("01234"))
		}
	})

	assert.ErrorIs(t, readErr, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte("01234"), got)
	assert.Len(t, e.Reads(), 3)

	e.SetFile("/a", []byte("0123456789"))
	f.ClearStatCache()
	done := false
	f.ReadAll(data.PriorityDefault, func(_ *aio.File, buf []byte, err error) {
		assert.NoError(t, err)
		assert.Equal(t, []byte("0123456789"), buf)
		done = true
	})
	assert.True(t, done)
}

func TestReadAll_StatFailure(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))
	f := openFake(t, e, "/a", "r")

	e.Fail(enginetest.OpStat, data.ErrInvalid)

	var readErr error
	f.ReadAll(data.PriorityDefault, func(_ *aio.File, buf []byte, err error) {
		assert.Nil(t, buf)
		readErr = err
	})

	assert.ErrorIs(t, readErr, data.ErrInvalid)
	assert.Empty(t, e.Reads())
}

func TestReadAll_ReadFailureStops(t *testing.T) {
	e := enginetest.New(enginetest.WithDeferred())
	e.SetFile("/a", []byte("0123456789"))
	f := openFake(t, e, "/a", "r", aio.WithChunkSize(2))

	completions := 0
	var readErr error
	f.ReadAllChunked(data.PriorityDefault, func(_ *aio.File, err error) {
		completions++
		readErr = err
	}, func(*aio.File, []byte) {
		e.Fail(enginetest.OpRead, data.ErrInvalid)
	})
	e.Flush()

	assert.Equal(t, 1, completions)
	assert.ErrorIs(t, readErr, data.ErrInvalid)
	assert.Equal(t, 2, e.Calls(enginetest.OpRead))
}

func TestReadAll_ManySynchronousChunks(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789"), 10000)

	e := enginetest.New()
	e.SetFile("/a", content)
	f := openFake(t, e, "/a", "r", aio.WithChunkSize(1))

	done := false
	f.ReadAll(data.PriorityDefault, func(_ *aio.File, buf []byte, err error) {
		require.NoError(t, err)
		assert.Equal(t, content, buf)
		done = true
	})

	assert.True(t, done)
	assert.Equal(t, len(content), e.Calls(enginetest.OpRead))
}

func TestRead_RequiresCallback(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))
	f := openFake(t, e, "/a", "r")

	assert.ErrorIs(t, f.Read(3, aio.CurrentPosition, data.PriorityDefault, nil), data.ErrNoReadCallback)
	assert.ErrorIs(t, f.ReadAhead(3, aio.CurrentPosition, data.PriorityDefault, nil), data.ErrNoReadCallback)
	assert.Empty(t, e.Reads())

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Zero(t, pos)
}

func TestRead_DefaultCallback(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))

	var got []string
	f := openFake(t, e, "/a", "r", aio.WithOnRead(func(_ *aio.File, buf []byte, err error) {
		require.NoError(t, err)
		got = append(got, string(buf))
	}))

	require.NoError(t, f.Read(2, aio.CurrentPosition, data.PriorityDefault, nil))
	require.NoError(t, f.ReadAhead(2, aio.CurrentPosition, data.PriorityDefault, nil))
	require.NoError(t, f.Read(2, 0, data.PriorityDefault, nil))

	assert.Equal(t, []string{"he", "ll", "he"}, got)
	assert.Equal(t, []enginetest.ReadCall{{Offset: 0, Length: 2}, {Offset: 2, Length: 2}, {Offset: 0, Length: 2}}, e.Reads())

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 6, pos)
}

func TestReadAll_NilCallbacks(t *testing.T) {
	for _, deferred := range []bool{false, true} {
		var opts []enginetest.Option
		if deferred {
			opts = append(opts, enginetest.WithDeferred())
		}
		e := enginetest.New(opts...)
		e.SetFile("/a", []byte("hello world"))
		f := openFake(t, e, "/a", "r", aio.WithChunkSize(4))

		assert.NotPanics(t, func() {
			f.ReadAll(data.PriorityDefault, nil)
			e.Flush()
		})
		assert.Empty(t, e.Reads())

		done := false
		assert.NotPanics(t, func() {
			f.ReadAllChunked(data.PriorityDefault, func(_ *aio.File, err error) {
				require.NoError(t, err)
				done = true
			}, nil)
			e.Flush()
		})
		assert.True(t, done)
		assert.Len(t, e.Reads(), 3)

		assert.NotPanics(t, func() {
			f.ReadAllChunked(data.PriorityDefault, nil, nil)
			e.Flush()
		})
		assert.Len(t, e.Reads(), 6)
	}
}

func TestReadAll_DefaultCallback(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))

	var got []byte
	f := openFake(t, e, "/a", "r", aio.WithOnRead(func(_ *aio.File, buf []byte, err error) {
		require.NoError(t, err)
		got = buf
	}))

	f.ReadAll(data.PriorityDefault, nil)
	assert.Equal(t, "hello", string(got))
}

func TestRead_PositionRunsAhead(t *testing.T) {
	e := enginetest.New(enginetest.WithDeferred())
	e.SetFile("/a", []byte("short"))
	f := openFake(t, e, "/a", "r")

	cb := func(*aio.File, []byte, error) {}
	require.NoError(t, f.Read(10, aio.CurrentPosition, data.PriorityDefault, cb))
	require.NoError(t, f.Read(10, aio.CurrentPosition, data.PriorityDefault, cb))

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 20, pos)
	assert.Equal(t, []enginetest.ReadCall{{Offset: 0, Length: 10}, {Offset: 10, Length: 10}}, e.Reads())
}

func TestStat_CacheOnlyForAsyncEngines(t *testing.T) {
	tests := map[string]struct {
		opts  []enginetest.Option
		calls int
	}{
		"blocking": {calls: 2},
		"async":    {opts: []enginetest.Option{enginetest.WithDeferred()}, calls: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := enginetest.New(tt.opts...)
			e.SetFile("/a", []byte("hello"))
			f := openFake(t, e, "/a", "r")

			for range 2 {
				f.Stat(data.PriorityDefault, func(_ *aio.File, stat *data.VirtualFileStat, err error) {
					require.NoError(t, err)
					assert.EqualValues(t, 5, stat.Size)
				})
				e.Flush()
			}
			assert.Equal(t, tt.calls, e.Calls(enginetest.OpStat))
		})
	}
}

func TestClearStatCache_ForcesFreshFetch(t *testing.T) {
	e := enginetest.New(enginetest.WithDeferred())
	e.SetFile("/a", []byte("hello"))
	f := openFake(t, e, "/a", "r")

	var sizes []int64
	stat := func() {
		f.Stat(data.PriorityDefault, func(_ *aio.File, stat *data.VirtualFileStat, err error) {
			require.NoError(t, err)
			sizes = append(sizes, stat.Size)
		})
		e.Flush()
	}

	stat()
	e.SetFile("/a", []byte("hello world"))
	stat()
	assert.Equal(t, 1, e.Calls(enginetest.OpStat))

	f.ClearStatCache()
	f.ClearStatCache()
	stat()
	assert.Equal(t, 2, e.Calls(enginetest.OpStat))
	assert.Equal(t, []int64{5, 5, 11}, sizes)
}

func TestStatFs(t *testing.T) {
	e := enginetest.New(enginetest.WithDeferred())
	e.SetFile("/a", []byte("hello"))
	f := openFake(t, e, "/a", "r")

	for range 2 {
		f.StatFs(data.PriorityDefault, func(_ *aio.File, stat *data.VirtualFsStat, err error) {
			require.NoError(t, err)
			assert.EqualValues(t, 4096, stat.BlockSize)
		})
		e.Flush()
	}
	assert.Equal(t, 1, e.Calls(enginetest.OpStatFs))

	unsupported := enginetest.New(enginetest.WithCapabilities())
	unsupported.SetFile("/a", []byte("hello"))
	f = openFake(t, unsupported, "/a", "r")

	var statErr error
	f.StatFs(data.PriorityDefault, func(_ *aio.File, _ *data.VirtualFsStat, err error) { statErr = err })
	assert.ErrorIs(t, statErr, data.ErrUnsupported)
}

func TestChownAndTouch(t *testing.T) {
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))
	f := openFake(t, e, "/a", "r+")

	f.Chown(1000, 100, data.PriorityDefault, nil)
	f.Chown(2000, -1, data.PriorityDefault, nil)
	owner, ok := e.Owner("/a")
	require.True(t, ok)
	assert.Equal(t, enginetest.Owner{Uid: 2000, Gid: 100}, owner)

	atime := time.Unix(1600000000, 0)
	mtime := time.Unix(1700000000, 0)
	f.Touch(mtime, atime, data.PriorityDefault, nil)
	f.Touch(mtime.Add(time.Hour), time.Time{}, data.PriorityDefault, nil)
	assert.Equal(t, mtime.Add(time.Hour), e.ModifyTime("/a"))
	assert.Equal(t, atime, e.AccessTime("/a"))

	e.Fail(enginetest.OpChown, data.ErrInvalid)
	var chownErr error
	f.Chown(0, 0, data.PriorityDefault, func(_ *aio.File, err error) { chownErr = err })
	assert.ErrorIs(t, chownErr, data.ErrInvalid)
}

// fileState captures everything observable on a handle.
type fileState struct {
	Position int64
	Closed   bool
	Eof      bool
	Reads    []enginetest.ReadCall
	Content  string
	Chunks   []string
}

func runScenario(t *testing.T, e *enginetest.Engine) (fileState, int) {
	e.SetFile("/a", []byte("0123456789abcdef"))
	f := openFake(t, e, "/a", "r+", aio.WithChunkSize(6))

	var st fileState
	immediate := 0
	track := func(fired *bool) {
		if *fired {
			immediate++
		}
	}

	fired := false
	require.NoError(t, f.Read(4, aio.CurrentPosition, data.PriorityDefault, func(*aio.File, []byte, error) { fired = true }))
	track(&fired)

	fired = false
	f.Truncate(12, data.PriorityDefault, func(*aio.File, error) { fired = true })
	track(&fired)

	fired = false
	f.ReadAllChunked(data.PriorityDefault, func(*aio.File, error) { fired = true }, func(_ *aio.File, chunk []byte) {
		st.Chunks = append(st.Chunks, string(chunk))
	})
	track(&fired)
	e.Flush()

	st.Position, _ = f.Tell()
	st.Eof = f.Eof()
	e.Flush()

	st.Closed = f.IsClosed()
	st.Reads = e.Reads()
	content, _ := e.Content("/a")
	st.Content = string(content)
	return st, immediate
}

func TestDualMode_IdenticalState(t *testing.T) {
	syncState, syncImmediate := runScenario(t, enginetest.New())
	asyncState, asyncImmediate := runScenario(t, enginetest.New(enginetest.WithDeferred()))

	assert.Equal(t, 3, syncImmediate)
	assert.Equal(t, 0, asyncImmediate)
	assert.Equal(t, syncState, asyncState)
	assert.Equal(t, []string{"012345", "6789ab"}, syncState.Chunks)
	assert.False(t, syncState.Eof)
}
