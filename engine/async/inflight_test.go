package async

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/aio/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflight_CloseWaitsForRelease(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "inflight.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	tr := newInflight()
	release, err := tr.acquire(f)
	require.NoError(t, err)

	wait, err := tr.close(f)
	require.NoError(t, err)

	_, err = tr.acquire(f)
	assert.ErrorIs(t, err, data.ErrClosed)
	_, err = tr.close(f)
	assert.ErrorIs(t, err, data.ErrClosed)

	waited := make(chan struct{})
	go func() {
		wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("close finished while a request was still running")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	release()
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("close never finished")
	}

	tr.forget(f)
	assert.Zero(t, tr.len())
}
