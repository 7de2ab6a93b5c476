package domain

import (
	"fmt"

	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// Roster bounds. Species and move identifiers are validated separately by
// the resolution engine, which owns the species table.
const (
	MinTeamSize = 1
	MaxTeamSize = 6
	MinLevel    = 1
	MaxLevel    = 100
	MinMoves    = 1
	MaxMoves    = 4
)

// TeamPokemon is the creation-time configuration for one team member.
type TeamPokemon struct {
	Species  string
	Level    int
	Moves    []string
	Nickname string
}

// ValidateTeamConfig checks roster size, level and move-count bounds.
func ValidateTeamConfig(team []TeamPokemon) error {
	if len(team) < MinTeamSize {
		return apperrors.New(apperrors.CodeValidation, "team cannot be empty")
	}
	if len(team) > MaxTeamSize {
		return apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("team cannot have more than %d Pokémon", MaxTeamSize))
	}
	for _, member := range team {
		if member.Species == "" {
			return apperrors.New(apperrors.CodeValidation, "species is required")
		}
		if member.Level < MinLevel || member.Level > MaxLevel {
			return apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("invalid level %d for %s", member.Level, member.Species),
				map[string]string{"species": member.Species})
		}
		if len(member.Moves) < MinMoves || len(member.Moves) > MaxMoves {
			return apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("%s must have %d-%d moves", member.Species, MinMoves, MaxMoves),
				map[string]string{"species": member.Species})
		}
	}
	return nil
}
