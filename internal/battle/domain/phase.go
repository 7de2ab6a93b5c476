package domain

// Phase describes which submissions a battle currently accepts and from whom.
type Phase int

const (
	// PhaseUnspecified represents an invalid phase value.
	PhaseUnspecified Phase = iota
	// PhaseAwaitingActions accepts one action from each side this turn.
	PhaseAwaitingActions
	// PhaseAwaitingSideAReplacement accepts only a switch from side 0.
	PhaseAwaitingSideAReplacement
	// PhaseAwaitingSideBReplacement accepts only a switch from side 1.
	PhaseAwaitingSideBReplacement
	// PhaseAwaitingBothReplacements accepts only switches, from either side.
	PhaseAwaitingBothReplacements
	// PhaseSideAVictory is terminal: side 0 won.
	PhaseSideAVictory
	// PhaseSideBVictory is terminal: side 1 won.
	PhaseSideBVictory
	// PhaseDraw is terminal: neither side has usable Pokémon left.
	PhaseDraw
)

// Terminal reports whether the battle has concluded. No submission is
// accepted in a terminal phase.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseSideAVictory, PhaseSideBVictory, PhaseDraw:
		return true
	default:
		return false
	}
}

// ReplacementSide returns the side index a single-side replacement phase is
// waiting on, and whether the phase is such a phase.
func (p Phase) ReplacementSide() (int, bool) {
	switch p {
	case PhaseAwaitingSideAReplacement:
		return 0, true
	case PhaseAwaitingSideBReplacement:
		return 1, true
	default:
		return 0, false
	}
}

// AwaitingReplacementFor returns the replacement phase waiting on side.
func AwaitingReplacementFor(side int) Phase {
	if side == 0 {
		return PhaseAwaitingSideAReplacement
	}
	return PhaseAwaitingSideBReplacement
}

// VictoryFor returns the terminal victory phase for the winning side.
func VictoryFor(side int) Phase {
	if side == 0 {
		return PhaseSideAVictory
	}
	return PhaseSideBVictory
}

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingActions:
		return "AWAITING_ACTIONS"
	case PhaseAwaitingSideAReplacement:
		return "AWAITING_SIDE_A_REPLACEMENT"
	case PhaseAwaitingSideBReplacement:
		return "AWAITING_SIDE_B_REPLACEMENT"
	case PhaseAwaitingBothReplacements:
		return "AWAITING_BOTH_REPLACEMENTS"
	case PhaseSideAVictory:
		return "SIDE_A_VICTORY"
	case PhaseSideBVictory:
		return "SIDE_B_VICTORY"
	case PhaseDraw:
		return "DRAW"
	default:
		return "UNSPECIFIED"
	}
}
