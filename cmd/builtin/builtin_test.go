package builtin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwantia/aio/cmd"
	"github.com/mwantia/aio/data"
	"github.com/mwantia/aio/engine/blocking"
	"github.com/mwantia/aio/engine/enginetest"
	"github.com/mwantia/aio/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *cmd.Manager {
	t.Helper()

	m := cmd.NewManager()
	require.NoError(t, InitBuiltin(m))
	return m
}

func newBlockingRuntime() cmd.Runtime {
	logger := log.NewDiscardLogger()
	return cmd.NewRuntime(blocking.New(logger), nil, logger)
}

func execute(t *testing.T, m *cmd.Manager, rt cmd.Runtime, name string, raw ...string) (int, string, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	code, err := m.Execute(ctx, rt, name, raw, &out)
	return code, out.String(), err
}

func TestInitBuiltin(t *testing.T) {
	m := newManager(t)

	var names []string
	for _, command := range m.Commands() {
		names = append(names, command.Name())
		assert.NotEmpty(t, command.Description())
		assert.NotEmpty(t, command.Usage())
	}
	assert.Equal(t, []string{"cat", "chown", "head", "stat", "statfs", "sync", "touch", "truncate"}, names)
	assert.Error(t, InitBuiltin(m))
}

func TestCatAndHead(t *testing.T) {
	m := newManager(t)
	rt := newBlockingRuntime()

	path := filepath.Join(t.TempDir(), "a.txt")
	content := strings.Repeat("abcdefghij", 100)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	code, out, err := execute(t, m, rt, "cat", "-c", "7", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, content, out)

	code, out, err = execute(t, m, rt, "head", "-n", "4", "--offset", "2", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "cdef", out)
}

func TestTruncateAndStat(t *testing.T) {
	m := newManager(t)
	rt := newBlockingRuntime()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	code, _, err := execute(t, m, rt, "truncate", "--size", "5", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	code, out, err := execute(t, m, rt, "stat", "--json", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	var stat data.VirtualFileStat
	require.NoError(t, stat.Unmarshal([]byte(out)))
	assert.EqualValues(t, 5, stat.Size)
}

func TestTouchAndSync(t *testing.T) {
	m := newManager(t)
	rt := newBlockingRuntime()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	code, _, err := execute(t, m, rt, "touch", "-m", "1700000000", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, time.Unix(1700000000, 0).Equal(info.ModTime()))

	code, _, err = execute(t, m, rt, "sync", "-d", path)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestStatFsUnsupportedOnBlocking(t *testing.T) {
	m := newManager(t)
	rt := newBlockingRuntime()

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	code, _, err := execute(t, m, rt, "statfs", path)
	assert.Equal(t, 1, code)
	assert.ErrorIs(t, err, data.ErrUnsupported)
}

func TestChownWithEngineDouble(t *testing.T) {
	m := newManager(t)
	e := enginetest.New()
	e.SetFile("/a", []byte("hello"))
	rt := cmd.NewRuntime(e, nil, nil)

	code, _, err := execute(t, m, rt, "chown", "-u", "1000", "/a")
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	owner, ok := e.Owner("/a")
	require.True(t, ok)
	assert.Equal(t, enginetest.Owner{Uid: 1000}, owner)
}

func TestCatChunkSize(t *testing.T) {
	m := newManager(t)
	e := enginetest.New()
	e.SetFile("/a", []byte("hello world"))
	rt := cmd.NewRuntime(e, nil, nil)

	code, out, err := execute(t, m, rt, "cat", "-c", "3", "/a")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello world", out)
	assert.Len(t, e.Reads(), 4)

	e = enginetest.New()
	e.SetFile("/a", []byte("hello world"))
	rt = cmd.NewRuntime(e, nil, nil)

	code, out, err = execute(t, m, rt, "cat", "/a")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello world", out)
	assert.Len(t, e.Reads(), 1)

	code, _, err = execute(t, m, rt, "cat", "-c", "0", "/a")
	assert.Equal(t, 1, code)
	assert.ErrorIs(t, err, data.ErrInvalid)
}

func TestExecuteErrors(t *testing.T) {
	m := newManager(t)
	rt := newBlockingRuntime()

	code, _, err := execute(t, m, rt, "rm", "/a")
	assert.Equal(t, 127, code)
	assert.Error(t, err)

	code, _, err = execute(t, m, rt, "truncate", "/a")
	assert.Equal(t, 2, code)
	assert.Error(t, err)

	code, _, err = execute(t, m, rt, "cat")
	assert.Equal(t, 2, code)
	assert.ErrorIs(t, err, errMissingPath)

	code, _, err = execute(t, m, rt, "cat", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Error(t, err)
}
