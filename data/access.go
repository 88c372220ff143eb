package data

import (
	"os"
	"strings"
)

// VirtualAccessMode is the open-flag bitmask a mode token translates into.
// Engines convert it into their native flags before opening a descriptor.
type VirtualAccessMode int

// File access mode constants.
// These can be combined using bitwise OR.
const (
	AccessModeRead   VirtualAccessMode = 1 << iota // O_RDONLY: open for reading
	AccessModeWrite                                // O_WRONLY: open for writing
	AccessModeAppend                               // O_APPEND: append to file
	AccessModeCreate                               // O_CREATE: create if not exists
	AccessModeTrunc                                // O_TRUNC:  truncate on open
	AccessModeExcl                                 // O_EXCL:   exclusive creation (with CREATE)
	AccessModeSync                                 // O_SYNC:   flush on every write
)

// AccessModeReadWrite is the combined read and write access.
const AccessModeReadWrite = AccessModeRead | AccessModeWrite

// IsReadOnly checks if the mode only allows reading.
func (m VirtualAccessMode) IsReadOnly() bool {
	return m&AccessModeRead != 0 && m&AccessModeWrite == 0
}

// IsWriteOnly checks if the mode only allows writing.
func (m VirtualAccessMode) IsWriteOnly() bool {
	return m&AccessModeWrite != 0 && m&AccessModeRead == 0
}

// IsReadWrite checks if the mode allows both reading and writing.
func (m VirtualAccessMode) IsReadWrite() bool {
	return m&AccessModeReadWrite == AccessModeReadWrite
}

func (m VirtualAccessMode) HasAppend() bool {
	return m&AccessModeAppend != 0
}

func (m VirtualAccessMode) HasCreate() bool {
	return m&AccessModeCreate != 0
}

func (m VirtualAccessMode) HasTrunc() bool {
	return m&AccessModeTrunc != 0
}

func (m VirtualAccessMode) HasExcl() bool {
	return m&AccessModeExcl != 0
}

func (m VirtualAccessMode) HasSync() bool {
	return m&AccessModeSync != 0
}

// OSFlags converts the access mode into flags accepted by os.OpenFile.
func (m VirtualAccessMode) OSFlags() int {
	var flags int
	switch {
	case m.IsReadWrite():
		flags = os.O_RDWR
	case m.IsWriteOnly():
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}

	if m.HasAppend() {
		flags |= os.O_APPEND
	}
	if m.HasCreate() {
		flags |= os.O_CREATE
	}
	if m.HasTrunc() {
		flags |= os.O_TRUNC
	}
	if m.HasExcl() {
		flags |= os.O_EXCL
	}
	if m.HasSync() {
		flags |= os.O_SYNC
	}

	return flags
}

// String renders the canonical mode token for m, e.g. "w+" or "as".
// It returns an empty string for bitmasks no token translates into.
func (m VirtualAccessMode) String() string {
	var sb strings.Builder

	base := m &^ (AccessModeRead | AccessModeWrite | AccessModeSync)
	switch {
	case base == 0 && m&AccessModeRead != 0 && !m.IsWriteOnly():
		sb.WriteByte('r')
	case base == AccessModeCreate|AccessModeTrunc:
		sb.WriteByte('w')
	case base == AccessModeCreate|AccessModeAppend:
		sb.WriteByte('a')
	case base == AccessModeCreate|AccessModeExcl:
		sb.WriteByte('x')
	case base == AccessModeCreate:
		sb.WriteByte('c')
	default:
		return ""
	}

	if m.IsReadWrite() {
		sb.WriteByte('+')
	}
	if m.HasSync() {
		sb.WriteByte('s')
	}

	return sb.String()
}
