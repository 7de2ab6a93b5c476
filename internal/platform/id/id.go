// Package id generates unique battle identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a random UUIDv4 identifier string.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return u.String(), nil
}
