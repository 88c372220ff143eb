//go:build !linux

package async

import (
	"os"
	"time"

	"github.com/mwantia/aio/data"
)

// Available reports whether the asynchronous engine works on this platform.
func Available() bool {
	return false
}

func fstatfs(*os.File) (*data.VirtualFsStat, error) {
	return nil, data.ErrUnsupported
}

func fdatasync(f *os.File) error {
	return f.Sync()
}

func futimes(f *os.File, mtime, atime time.Time) error {
	return os.Chtimes(f.Name(), atime, mtime)
}
