//go:build linux

package data

import (
	"syscall"
	"time"
)

func fillSysStat(stat *VirtualFileStat, sys any) {
	st, ok := sys.(*syscall.Stat_t)
	if !ok || st == nil {
		return
	}

	stat.Dev = uint64(st.Dev)
	stat.Ino = uint64(st.Ino)
	stat.Nlink = uint64(st.Nlink)
	stat.Uid = int(st.Uid)
	stat.Gid = int(st.Gid)
	stat.Rdev = uint64(st.Rdev)
	stat.Blksize = int64(st.Blksize)
	stat.Blocks = int64(st.Blocks)
	stat.AccessTime = time.Unix(st.Atim.Unix())
	stat.ChangeTime = time.Unix(st.Ctim.Unix())
}
