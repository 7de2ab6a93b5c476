// Package timeouts defines shared timeout constants used across the service.
// Centralizing these values prevents drift between call sites and makes the
// durations discoverable.
package timeouts

import "time"

// StoreOp caps a single store read or conditional write.
const StoreOp = 5 * time.Second

// Submission caps a full action submission, including collaborator calls.
// A collaborator implemented as a network call that blows this budget aborts
// the submission without persisting partial state.
const Submission = 10 * time.Second
