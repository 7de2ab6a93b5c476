// Package roster holds the prefab teams players can pick from and the
// automated opponents they can be matched against.
package roster

import (
	"fmt"
	"sort"

	"github.com/voltorb/arena/internal/battle/domain"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// Difficulty tiers an automated opponent.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Team is a selectable prefab team.
type Team struct {
	ID          string
	Name        string
	Description string
	Pokemon     []domain.TeamPokemon
}

// Opponent is an automated trainer with a fixed team.
type Opponent struct {
	ID         string
	Name       string
	Difficulty Difficulty
	Pokemon    []domain.TeamPokemon
}

var teams = map[string]Team{
	"starter-electric": {
		ID:          "starter-electric",
		Name:        "Volt Squad",
		Description: "Fast electric attackers backed by a sturdy normal type.",
		Pokemon: []domain.TeamPokemon{
			{Species: "pikachu", Level: 50, Moves: []string{"thunder-shock", "thunderbolt", "quick-attack"}},
			{Species: "voltorb", Level: 50, Moves: []string{"thunder-shock", "tackle"}},
			{Species: "eevee", Level: 50, Moves: []string{"tackle", "quick-attack"}},
		},
	},
	"starter-balanced": {
		ID:          "starter-balanced",
		Name:        "Kanto Classics",
		Description: "The three classic starters at even footing.",
		Pokemon: []domain.TeamPokemon{
			{Species: "bulbasaur", Level: 50, Moves: []string{"vine-whip", "razor-leaf", "solar-beam"}},
			{Species: "charmander", Level: 50, Moves: []string{"ember", "flamethrower"}},
			{Species: "squirtle", Level: 50, Moves: []string{"water-gun", "bubble-beam"}},
		},
	},
	"starter-defense": {
		ID:          "starter-defense",
		Name:        "Stone Wall",
		Description: "High-defense rock types that wear opponents down.",
		Pokemon: []domain.TeamPokemon{
			{Species: "geodude", Level: 50, Moves: []string{"rock-throw", "tackle"}},
			{Species: "onix", Level: 50, Moves: []string{"rock-throw", "tackle"}},
			{Species: "snorlax", Level: 50, Moves: []string{"tackle"}},
		},
	},
}

var opponents = map[string]Opponent{
	"youngster-joey": {
		ID:         "youngster-joey",
		Name:       "Youngster Joey",
		Difficulty: DifficultyEasy,
		Pokemon: []domain.TeamPokemon{
			{Species: "pidgey", Level: 40, Moves: []string{"gust", "tackle"}},
			{Species: "eevee", Level: 42, Moves: []string{"tackle", "quick-attack"}},
		},
	},
	"swimmer-misty": {
		ID:         "swimmer-misty",
		Name:       "Swimmer Misty",
		Difficulty: DifficultyMedium,
		Pokemon: []domain.TeamPokemon{
			{Species: "staryu", Level: 50, Moves: []string{"water-gun", "bubble-beam"}},
			{Species: "starmie", Level: 52, Moves: []string{"bubble-beam", "tackle"}},
			{Species: "squirtle", Level: 50, Moves: []string{"water-gun"}},
		},
	},
	"rival-blue": {
		ID:         "rival-blue",
		Name:       "Rival Blue",
		Difficulty: DifficultyHard,
		Pokemon: []domain.TeamPokemon{
			{Species: "raichu", Level: 58, Moves: []string{"thunderbolt", "quick-attack"}},
			{Species: "starmie", Level: 56, Moves: []string{"bubble-beam", "water-gun"}},
			{Species: "snorlax", Level: 60, Moves: []string{"tackle", "sky-attack"}},
		},
	},
}

// Teams lists all prefab teams ordered by ID.
func Teams() []Team {
	out := make([]Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TeamByID resolves a prefab team.
func TeamByID(id string) (Team, error) {
	t, ok := teams[id]
	if !ok {
		return Team{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("prefab team %s not found", id),
			map[string]string{"team_id": id})
	}
	return t, nil
}

// Opponents lists all automated opponents ordered by ID.
func Opponents() []Opponent {
	out := make([]Opponent, 0, len(opponents))
	for _, o := range opponents {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OpponentByID resolves an automated opponent.
func OpponentByID(id string) (Opponent, error) {
	o, ok := opponents[id]
	if !ok {
		return Opponent{}, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("opponent %s not found", id),
			map[string]string{"opponent_id": id})
	}
	return o, nil
}
