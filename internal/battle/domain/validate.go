package domain

import (
	"fmt"

	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// ValidateSubmission decides whether an action is admissible for the given
// side under the current phase and pending-slot state. It runs before the
// resolution engine's own legality check (PP remaining, fainted targets),
// which is a second, independent validation stage. Pure decision function.
func ValidateSubmission(st *State, side int, action Action) error {
	if side < 0 || side > 1 {
		return apperrors.New(apperrors.CodeUnauthorized,
			fmt.Sprintf("side index %d is not part of this battle", side))
	}

	switch {
	case st.Phase == PhaseAwaitingActions:
		if st.Pending[side] != nil {
			return apperrors.New(apperrors.CodeInvalidAction,
				"player has already submitted an action for this turn")
		}
		// Any action kind is permitted here; the engine validates the
		// specifics of the move or switch.
		return nil

	case st.Phase == PhaseAwaitingBothReplacements:
		if action.Kind != ActionKindSwitch {
			return apperrors.New(apperrors.CodeInvalidAction,
				"must switch Pokémon during replacement phase")
		}
		return nil

	default:
		if waiting, ok := st.Phase.ReplacementSide(); ok {
			if side != waiting {
				return apperrors.New(apperrors.CodeInvalidAction,
					fmt.Sprintf("only side %d can act during replacement phase", waiting))
			}
			if action.Kind != ActionKindSwitch {
				return apperrors.New(apperrors.CodeInvalidAction,
					"must switch Pokémon during replacement phase")
			}
			return nil
		}
		if st.Phase.Terminal() {
			return apperrors.New(apperrors.CodeInvalidPhase, "battle already concluded")
		}
		return apperrors.New(apperrors.CodeInvalidPhase,
			fmt.Sprintf("battle is in phase %s, cannot accept actions", st.Phase))
	}
}

// CanAct reports whether the phase's action-acceptance rule currently allows
// the side to submit. It mirrors ValidateSubmission without inspecting the
// action itself.
func CanAct(st *State, side int) bool {
	if side < 0 || side > 1 {
		return false
	}
	switch st.Phase {
	case PhaseAwaitingActions:
		return st.Pending[side] == nil
	case PhaseAwaitingBothReplacements:
		return true
	default:
		if waiting, ok := st.Phase.ReplacementSide(); ok {
			return side == waiting
		}
		return false
	}
}
