// Package projection builds the per-player view of a battle. A player sees
// full detail for their own team but only the opponent's active Pokémon,
// without move or bench information.
package projection

import (
	"github.com/voltorb/arena/internal/battle/domain"
)

// PlayerView is the player-scoped projection of a battle state.
type PlayerView struct {
	BattleID   string       `json:"battle_id"`
	Phase      string       `json:"phase"`
	TurnNumber int          `json:"turn_number"`
	CanAct     bool         `json:"can_act"`
	Team       TeamView     `json:"team"`
	Opponent   OpponentView `json:"opponent"`
}

// TeamView is the full-detail view of the player's own side.
type TeamView struct {
	PlayerName  string        `json:"player_name"`
	ActiveIndex int           `json:"active_index"`
	Pokemon     []PokemonView `json:"pokemon"`
}

// PokemonView exposes a team member with exact HP, stat and move state.
type PokemonView struct {
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Level     int        `json:"level"`
	CurrentHP int        `json:"current_hp"`
	MaxHP     int        `json:"max_hp"`
	Fainted   bool       `json:"fainted"`
	Status    string     `json:"status,omitempty"`
	Stats     StatsView  `json:"stats"`
	Moves     []MoveView `json:"moves"`
}

// StatsView is the full stat block of an owned Pokémon.
type StatsView struct {
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// MoveView exposes a move slot with exact PP counts.
type MoveView struct {
	Move  string `json:"move"`
	PP    int    `json:"pp"`
	MaxPP int    `json:"max_pp"`
}

// OpponentView reveals only the opponent's active Pokémon and how many of
// their team remain able to battle.
type OpponentView struct {
	PlayerName     string              `json:"player_name"`
	Active         *OpponentActiveView `json:"active,omitempty"`
	RemainingCount int                 `json:"remaining_count"`
}

// OpponentActiveView is the visible summary of the opponent's active
// Pokémon. Moves, PP, exact stats and bench composition stay hidden.
type OpponentActiveView struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Level     int    `json:"level"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
	Fainted   bool   `json:"fainted"`
	Status    string `json:"status,omitempty"`
}

// ViewFor projects the state for the side at the given index.
func ViewFor(st *domain.State, side int) PlayerView {
	own := &st.Sides[side]
	foe := &st.Sides[1-side]

	team := TeamView{
		PlayerName:  own.PlayerName,
		ActiveIndex: own.ActiveIndex,
		Pokemon:     make([]PokemonView, 0, len(own.Team)),
	}
	for _, p := range own.Team {
		moves := make([]MoveView, 0, len(p.Moves))
		for _, ms := range p.Moves {
			moves = append(moves, MoveView{Move: ms.Move, PP: ms.PP, MaxPP: ms.MaxPP})
		}
		team.Pokemon = append(team.Pokemon, PokemonView{
			Name:      p.Name,
			Species:   p.Species,
			Level:     p.Level,
			CurrentHP: p.CurrentHP,
			MaxHP:     p.MaxHP,
			Fainted:   p.Fainted(),
			Status:    p.Status,
			Stats: StatsView{
				Attack:    p.Stats.Attack,
				Defense:   p.Stats.Defense,
				SpAttack:  p.Stats.SpAttack,
				SpDefense: p.Stats.SpDefense,
				Speed:     p.Stats.Speed,
			},
			Moves: moves,
		})
	}

	opponent := OpponentView{
		PlayerName:     foe.PlayerName,
		RemainingCount: foe.RemainingCount(),
	}
	if active := foe.Active(); active != nil {
		opponent.Active = &OpponentActiveView{
			Name:      active.Name,
			Species:   active.Species,
			Level:     active.Level,
			CurrentHP: active.CurrentHP,
			MaxHP:     active.MaxHP,
			Fainted:   active.Fainted(),
			Status:    active.Status,
		}
	}

	return PlayerView{
		BattleID:   st.BattleID,
		Phase:      st.Phase.String(),
		TurnNumber: st.TurnNumber,
		CanAct:     domain.CanAct(st, side),
		Team:       team,
		Opponent:   opponent,
	}
}
