// Package engine declares the resolution-engine and automated-decider
// collaborator contracts. Any deterministic engine satisfying Engine is
// substitutable; the session layer never reaches into rule internals.
package engine

import "github.com/voltorb/arena/internal/battle/domain"

// Event is a primitive event produced while resolving a turn. Format renders
// the event as a human-readable string against the state that produced it;
// an empty result means "no message" and is dropped from the turn log.
type Event interface {
	Format(st *domain.State) string
}

// SideConfig describes one participant at battle creation.
type SideConfig struct {
	PlayerID   string
	PlayerName string
	Automated  bool
	Team       []domain.TeamPokemon
}

// Engine advances battle state deterministically. Given both sides' pending
// actions and a randomness seed, Resolve produces the next state plus the
// ordered primitive events of that turn.
type Engine interface {
	// NewBattle builds the initial state, validating team configurations
	// against the engine's species and move tables.
	NewBattle(battleID string, sideA, sideB SideConfig) (domain.State, error)

	// Resolve consumes the pending-action slots, advances the turn and
	// returns the new state with that turn's events. Implementations must
	// not mutate the input state.
	Resolve(st domain.State, seed int64) (domain.State, []Event, error)

	// ReadyForResolution reports whether every slot the current phase
	// requires is filled.
	ReadyForResolution(st *domain.State) bool

	// LegalActions enumerates the actions the side may currently take.
	LegalActions(st *domain.State, side int) []domain.Action

	// ValidateAction is the engine's own legality check for a single action
	// (PP remaining, switch targets, slot ranges). It runs after the phase
	// validator and before the action reaches a pending slot.
	ValidateAction(st *domain.State, side int, action domain.Action) error
}

// Decider produces actions for automated participants. Implementations must
// not block and must not mutate the state.
type Decider interface {
	ChooseAction(st *domain.State, side int) (domain.Action, error)
}
