// Package errors provides the structured error taxonomy shared by every
// battle service operation. Callers branch on machine-readable codes rather
// than message text, so "your action was illegal" is always distinguishable
// from "the system is broken".
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// CodeNotFound indicates the requested battle does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeUnauthorized indicates the player is not a participant of the battle.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeInvalidAction indicates a submission rejected by the phase machine
	// or by the resolution engine's own legality check.
	CodeInvalidAction Code = "INVALID_ACTION"
	// CodeInvalidPhase indicates an operation attempted against a concluded battle.
	CodeInvalidPhase Code = "INVALID_PHASE"
	// CodeValidation indicates a malformed roster or request on creation.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeInternal indicates a defect-class failure such as the game-tick
	// iteration ceiling being exceeded.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeStoreConflict indicates a conditional write failed: the battle id
	// already exists on create, or the stored version moved under an update.
	CodeStoreConflict Code = "STORE_CONFLICT"
)

// GRPCCode maps domain codes to gRPC status codes for RPC surfaces.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeNotFound:
		return codes.NotFound
	case CodeUnauthorized:
		return codes.PermissionDenied
	case CodeInvalidAction, CodeValidation:
		return codes.InvalidArgument
	case CodeInvalidPhase:
		return codes.FailedPrecondition
	case CodeStoreConflict:
		return codes.Aborted
	case CodeInternal:
		return codes.Internal
	default:
		return codes.Internal
	}
}
