package data

import "github.com/google/uuid"

// NewID returns a time-ordered identifier used to tag handles and requests in logs.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
