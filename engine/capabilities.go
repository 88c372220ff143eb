package engine

import "slices"

type Capability string

const (
	// CapabilityAsync marks engines that complete operations on their loop
	// instead of before the call returns. Stat results of these engines are cached.
	CapabilityAsync Capability = "async"
	// CapabilityKernelCursor marks engines whose descriptors keep their own cursor.
	CapabilityKernelCursor Capability = "kernel_cursor"

	CapabilityStatFs   Capability = "statfs"
	CapabilityFlush    Capability = "flush"
	CapabilityTruncate Capability = "truncate"
	CapabilityChown    Capability = "chown"
	CapabilityTouch    Capability = "touch"
)

// Capabilities describes what an engine supports.
type Capabilities struct {
	Capabilities []Capability `json:"capabilities"`
}

func NewCapabilities(caps ...Capability) *Capabilities {
	return &Capabilities{Capabilities: caps}
}

// Contains checks if a capability is supported
func (c *Capabilities) Contains(cap Capability) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Capabilities, cap)
}
