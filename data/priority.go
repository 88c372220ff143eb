package data

// Priority is an opaque scheduling hint handed to asynchronous engines.
// Higher values are served first; blocking engines ignore it.
type Priority int

const (
	PriorityMin     Priority = -4
	PriorityDefault Priority = 0
	PriorityMax     Priority = 4
)

// Clamp limits p to the range [PriorityMin, PriorityMax].
func (p Priority) Clamp() Priority {
	switch {
	case p < PriorityMin:
		return PriorityMin
	case p > PriorityMax:
		return PriorityMax
	default:
		return p
	}
}
