package domain

import "github.com/google/uuid"

// NewID returns a fresh random identifier for a location or item.
// IDs are never reused, even after the row is removed.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s looks like an identifier produced by NewID
func ValidID(s string) bool {
	return uuid.Validate(s) == nil
}
