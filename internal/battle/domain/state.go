package domain

// Stats is the battle-effective stat block of a Pokémon instance.
type Stats struct {
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// MoveSlot is one learned move with its PP accounting.
type MoveSlot struct {
	Move  string
	PP    int
	MaxPP int
}

// Pokemon is one battle-ready Pokémon instance on a side's team.
type Pokemon struct {
	Name      string
	Species   string
	Level     int
	CurrentHP int
	MaxHP     int
	Stats     Stats
	Moves     []MoveSlot
	Status    string // empty when healthy
}

// Fainted reports whether the Pokémon is out of the battle.
func (p Pokemon) Fainted() bool {
	return p.CurrentHP <= 0
}

// Side is one participant's half of the battle state.
type Side struct {
	PlayerID    string
	PlayerName  string
	Automated   bool // actions produced by a decider, not submissions
	Team        []Pokemon
	ActiveIndex int
	// ChargingSlot points at a two-turn move mid-charge; nil otherwise.
	ChargingSlot *int
}

// Active returns the side's active Pokémon, or nil when the active index is
// out of range.
func (s *Side) Active() *Pokemon {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Team) {
		return nil
	}
	return &s.Team[s.ActiveIndex]
}

// RemainingCount counts the side's unfainted Pokémon.
func (s *Side) RemainingCount() int {
	count := 0
	for _, p := range s.Team {
		if !p.Fainted() {
			count++
		}
	}
	return count
}

// State is the full, omniscient battle snapshot. It is owned by the
// resolution engine; this layer reads the phase tag, turn number, side
// rosters and pending-action slots, and never edits anything else.
type State struct {
	BattleID   string
	Phase      Phase
	TurnNumber int
	Sides      [2]Side
	// Pending holds each side's submitted-but-unresolved action. The engine
	// clears a slot when it consumes the action.
	Pending [2]*Action
}

// SideIndex resolves a participant identifier to a side index.
// The second return is false when the player is not part of this battle.
func (st *State) SideIndex(playerID string) (int, bool) {
	for i := range st.Sides {
		if st.Sides[i].PlayerID == playerID {
			return i, true
		}
	}
	return 0, false
}
