package scripted

import (
	"fmt"

	"github.com/voltorb/arena/internal/battle/domain"
)

// Events carry the names they need at creation time, so formatting does not
// depend on the post-resolution state.

// MoveUsedEvent records an executed move.
type MoveUsedEvent struct {
	Pokemon string
	Move    string
}

func (e MoveUsedEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s used %s!", e.Pokemon, e.Move)
}

// ChargingEvent records the preparation turn of a two-turn move.
type ChargingEvent struct {
	Pokemon string
	Move    string
}

func (e ChargingEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s began charging %s!", e.Pokemon, e.Move)
}

// DamageEvent records HP loss on the defender.
type DamageEvent struct {
	Pokemon string
	Amount  int
}

func (e DamageEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s took %d damage!", e.Pokemon, e.Amount)
}

// EffectivenessEvent records the type matchup of a damaging move. Neutral
// matchups format to the empty string and are dropped from the turn log.
type EffectivenessEvent struct {
	Multiplier float64
}

func (e EffectivenessEvent) Format(*domain.State) string {
	switch {
	case e.Multiplier == 0:
		return "It had no effect..."
	case e.Multiplier > 1:
		return "It's super effective!"
	case e.Multiplier < 1:
		return "It's not very effective..."
	default:
		return ""
	}
}

// FaintEvent records a Pokémon dropping to zero HP.
type FaintEvent struct {
	Pokemon string
}

func (e FaintEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s fainted!", e.Pokemon)
}

// SwitchEvent records a Pokémon entering the field.
type SwitchEvent struct {
	Player  string
	Pokemon string
}

func (e SwitchEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s sent out %s!", e.Player, e.Pokemon)
}

// ForfeitEvent records a concession.
type ForfeitEvent struct {
	Player string
}

func (e ForfeitEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s forfeited the battle!", e.Player)
}

// VictoryEvent records the battle's winner.
type VictoryEvent struct {
	Player string
}

func (e VictoryEvent) Format(*domain.State) string {
	return fmt.Sprintf("%s wins the battle!", e.Player)
}

// DrawEvent records a battle with no winner.
type DrawEvent struct{}

func (e DrawEvent) Format(*domain.State) string {
	return "The battle ended in a draw!"
}
