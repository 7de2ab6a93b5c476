// Package random provides seed generation for the resolution engine.
// Each turn resolution receives a fresh seed so engine randomness is
// reproducible given the seed, while the service itself stays unpredictable.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random int64 seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}
