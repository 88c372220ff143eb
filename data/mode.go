package data

import "io/fs"

// VirtualFileMode represents file type and permission bits as reported by stat.
type VirtualFileMode uint32

const (
	// Type bits
	ModeDir        VirtualFileMode = 1 << 31 // d: directory
	ModeSymlink    VirtualFileMode = 1 << 30 // L: symbolic link
	ModeNamedPipe  VirtualFileMode = 1 << 29 // p: named pipe (FIFO)
	ModeSocket     VirtualFileMode = 1 << 28 // S: Unix domain socket
	ModeDevice     VirtualFileMode = 1 << 27 // D: device file
	ModeCharDevice VirtualFileMode = 1 << 26 // c: Unix character device
	ModeIrregular  VirtualFileMode = 1 << 25 // ?: non-regular file

	// Permission bits
	ModePerm VirtualFileMode = 0777
)

const modeTypeMask = ModeDir | ModeSymlink | ModeNamedPipe | ModeSocket | ModeDevice | ModeCharDevice | ModeIrregular

// FromFileMode converts an io/fs mode into a VirtualFileMode.
func FromFileMode(m fs.FileMode) VirtualFileMode {
	v := VirtualFileMode(m.Perm())

	switch {
	case m&fs.ModeDir != 0:
		v |= ModeDir
	case m&fs.ModeSymlink != 0:
		v |= ModeSymlink
	case m&fs.ModeNamedPipe != 0:
		v |= ModeNamedPipe
	case m&fs.ModeSocket != 0:
		v |= ModeSocket
	case m&fs.ModeCharDevice != 0:
		v |= ModeDevice | ModeCharDevice
	case m&fs.ModeDevice != 0:
		v |= ModeDevice
	case m&fs.ModeIrregular != 0:
		v |= ModeIrregular
	}

	return v
}

// IsDir reports whether m describes a directory.
func (m VirtualFileMode) IsDir() bool {
	return m&ModeDir != 0
}

// IsRegular reports whether m describes a regular file.
func (m VirtualFileMode) IsRegular() bool {
	return m&modeTypeMask == 0
}

// Perm returns the Unix permission bits in m.
func (m VirtualFileMode) Perm() VirtualFileMode {
	return m & ModePerm
}

// String returns a textual representation of the mode in ls -l format.
func (m VirtualFileMode) String() string {
	const str = "dLpSDc?" // bits 31-25
	var buf [32]byte
	w := 0

	for i, c := range str {
		if m&(1<<uint(32-1-i)) != 0 {
			buf[w] = byte(c)
			w++
		}
	}

	if w == 0 {
		buf[w] = '-'
		w++
	}

	const rwx = "rwxrwxrwx"
	for i, c := range rwx {
		if m&(1<<uint(9-1-i)) != 0 {
			buf[w] = byte(c)
		} else {
			buf[w] = '-'
		}
		w++
	}

	return string(buf[:w])
}
