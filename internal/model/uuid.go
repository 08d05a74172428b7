package model

import (
	"fmt"

	"github.com/google/uuid"
)

// newID creates a new node ID.
func newID() ID {
	return ID(uuid.New().String())
}

// ParseID validates s as a node ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a node id", ErrStaleReference, s)
	}
	return ID(u.String()), nil
}
