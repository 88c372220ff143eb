package data

import (
	"fmt"
	"path"
	"strings"
)

// ObjectKey converts a file path into an object storage key: cleaned and
// without leading slash. Paths resolving to the root are rejected.
func ObjectKey(p string) (string, error) {
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key for '%s'", ErrInvalid, p)
	}
	return key, nil
}
