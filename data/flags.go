package data

import (
	"fmt"
	"strings"
)

// modeBases maps a base letter onto its single-direction access mode.
// The '+' modifier upgrades AccessModeWrite or AccessModeRead to both.
var modeBases = map[string]VirtualAccessMode{
	"r": AccessModeRead,
	"w": AccessModeWrite | AccessModeCreate | AccessModeTrunc,
	"a": AccessModeWrite | AccessModeCreate | AccessModeAppend,
	"x": AccessModeWrite | AccessModeCreate | AccessModeExcl,
	"c": AccessModeWrite | AccessModeCreate,
}

// ParseAccessMode translates a POSIX style mode token ("r", "w+", "ab", "cs", ...)
// into a VirtualAccessMode. The modifiers '+', 'b' and 's' may appear in any
// position and order; exactly one base letter must remain after removing them.
func ParseAccessMode(mode string) (VirtualAccessMode, error) {
	plus := strings.Contains(mode, "+")
	sync := strings.Contains(mode, "s")

	base := strings.NewReplacer("b", "", "+", "", "s", "").Replace(mode)
	m, ok := modeBases[base]
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidMode, mode)
	}

	if plus {
		m |= AccessModeReadWrite
	}
	if sync {
		m |= AccessModeSync
	}

	return m, nil
}

// MustParseAccessMode is like ParseAccessMode but panics on invalid tokens.
// It is meant for constant tokens in package initialisation.
func MustParseAccessMode(mode string) VirtualAccessMode {
	m, err := ParseAccessMode(mode)
	if err != nil {
		panic(err)
	}
	return m
}
