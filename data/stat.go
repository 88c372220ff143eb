package data

import (
	"encoding/json"
	"io/fs"
	"time"
)

// VirtualFileStat is the file metadata returned by engines and memoized by files.
// Fields the engine cannot provide are left at their zero value.
type VirtualFileStat struct {
	Dev     uint64          `json:"dev"`
	Ino     uint64          `json:"ino"`
	Mode    VirtualFileMode `json:"mode"`
	Nlink   uint64          `json:"nlink"`
	Uid     int             `json:"uid"`
	Gid     int             `json:"gid"`
	Rdev    uint64          `json:"rdev"`
	Size    int64           `json:"size"`
	Blksize int64           `json:"blksize"`
	Blocks  int64           `json:"blocks"`

	AccessTime time.Time `json:"atime"`
	ModifyTime time.Time `json:"mtime"`
	ChangeTime time.Time `json:"ctime"`

	// ETag is only set by object storage engines.
	ETag string `json:"etag,omitempty"`
}

// NewFileStat builds a VirtualFileStat from fs.FileInfo.
// Platform specific fields are filled from info.Sys() where available.
func NewFileStat(info fs.FileInfo) *VirtualFileStat {
	stat := &VirtualFileStat{
		Mode:       FromFileMode(info.Mode()),
		Size:       info.Size(),
		ModifyTime: info.ModTime(),
		AccessTime: info.ModTime(),
		ChangeTime: info.ModTime(),
	}

	fillSysStat(stat, info.Sys())
	return stat
}

func (vs *VirtualFileStat) Marshal() ([]byte, error) {
	return json.Marshal(vs)
}

func (vs *VirtualFileStat) Unmarshal(data []byte) error {
	return json.Unmarshal(data, vs)
}
