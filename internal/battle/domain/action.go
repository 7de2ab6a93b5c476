package domain

// ActionKind identifies the kind of a submitted action.
type ActionKind int

const (
	// ActionKindUnspecified represents an invalid action kind.
	ActionKindUnspecified ActionKind = iota
	// ActionKindMove uses the active Pokémon's move in MoveSlot.
	ActionKindMove
	// ActionKindSwitch swaps the active Pokémon for the bench entry at TeamIndex.
	ActionKindSwitch
	// ActionKindForfeit concedes the battle.
	ActionKindForfeit
)

// Action is a single submission for one side of a battle. Exactly one of
// MoveSlot or TeamIndex is meaningful, selected by Kind.
type Action struct {
	Kind      ActionKind
	MoveSlot  int
	TeamIndex int
}

// UseMove builds a move action for the given move slot.
func UseMove(slot int) Action {
	return Action{Kind: ActionKindMove, MoveSlot: slot}
}

// SwitchTo builds a switch action targeting the given team index.
func SwitchTo(index int) Action {
	return Action{Kind: ActionKindSwitch, TeamIndex: index}
}

// Forfeit builds a concession action.
func Forfeit() Action {
	return Action{Kind: ActionKindForfeit}
}

func (k ActionKind) String() string {
	switch k {
	case ActionKindMove:
		return "MOVE"
	case ActionKindSwitch:
		return "SWITCH"
	case ActionKindForfeit:
		return "FORFEIT"
	default:
		return "UNSPECIFIED"
	}
}
