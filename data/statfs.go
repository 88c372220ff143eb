package data

// VirtualFsStat is the filesystem level metadata (statvfs) of the filesystem
// holding an open descriptor.
type VirtualFsStat struct {
	BlockSize       uint64 `json:"bsize"`
	FragmentSize    uint64 `json:"frsize"`
	Blocks          uint64 `json:"blocks"`
	BlocksFree      uint64 `json:"bfree"`
	BlocksAvailable uint64 `json:"bavail"`
	Files           uint64 `json:"files"`
	FilesFree       uint64 `json:"ffree"`
	NameMax         uint64 `json:"namemax"`
	Flags           uint64 `json:"flags"`
}

// Available returns the number of bytes available to unprivileged users.
func (s *VirtualFsStat) Available() uint64 {
	size := s.FragmentSize
	if size == 0 {
		size = s.BlockSize
	}
	return s.BlocksAvailable * size
}
