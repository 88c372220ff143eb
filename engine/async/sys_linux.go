//go:build linux

package async

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mwantia/aio/data"
	"golang.org/x/sys/unix"
)

// Available reports whether the asynchronous engine works on this platform.
func Available() bool {
	return true
}

func fstatfs(f *os.File) (*data.VirtualFsStat, error) {
	var st unix.Statfs_t
	if err := unix.Fstatfs(int(f.Fd()), &st); err != nil {
		return nil, err
	}

	return &data.VirtualFsStat{
		BlockSize:       uint64(st.Bsize),
		FragmentSize:    uint64(st.Frsize),
		Blocks:          uint64(st.Blocks),
		BlocksFree:      uint64(st.Bfree),
		BlocksAvailable: uint64(st.Bavail),
		Files:           uint64(st.Files),
		FilesFree:       uint64(st.Ffree),
		NameMax:         uint64(st.Namelen),
		Flags:           uint64(st.Flags),
	}, nil
}

func fdatasync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}

// futimes updates the timestamps of the open descriptor, not of whatever
// currently lives at its path.
func futimes(f *os.File, mtime, atime time.Time) error {
	fd := int(f.Fd())
	ts := []unix.Timespec{
		{Sec: 0, Nsec: unix.UTIME_OMIT},
		unix.NsecToTimespec(mtime.UnixNano()),
	}
	if !atime.IsZero() {
		ts[0] = unix.NsecToTimespec(atime.UnixNano())
	}

	err := unix.UtimesNanoAt(unix.AT_FDCWD, fmt.Sprintf("/proc/self/fd/%d", fd), ts, 0)
	if !errors.Is(err, unix.ENOENT) {
		return err
	}

	// No procfs: futimes has no omit marker, so keep the current atime.
	if atime.IsZero() {
		var st unix.Stat_t
		if err := unix.Fstat(fd, &st); err != nil {
			return err
		}
		atime = time.Unix(st.Atim.Unix())
	}
	return unix.Futimes(fd, []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	})
}
