package util

import "github.com/google/uuid"

// NewID generates a new unique identifier for tokens and runs.
// Uses UUID v4 for simplicity and universal uniqueness; callers should treat
// the value as opaque.
func NewID() string { return uuid.NewString() }
