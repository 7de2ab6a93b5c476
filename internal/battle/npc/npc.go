// Package npc provides the action decider for automated sides.
package npc

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/engine"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// Decider picks a random legal action for its side, preferring moves over
// switching out or conceding.
type Decider struct {
	engine engine.Engine
	rng    *rand.Rand
}

// New creates a decider with time-based randomness.
func New(eng engine.Engine) *Decider {
	return NewWithSeed(eng, time.Now().UnixNano())
}

// NewWithSeed creates a decider with reproducible choices.
func NewWithSeed(eng engine.Engine, seed int64) *Decider {
	return &Decider{engine: eng, rng: rand.New(rand.NewSource(seed))}
}

// ChooseAction selects from the engine's legal actions for the side.
func (d *Decider) ChooseAction(st *domain.State, side int) (domain.Action, error) {
	legal := d.engine.LegalActions(st, side)
	if len(legal) == 0 {
		return domain.Action{}, apperrors.New(apperrors.CodeInternal,
			fmt.Sprintf("no legal actions for side %d in phase %s", side, st.Phase))
	}

	var moves []domain.Action
	for _, act := range legal {
		if act.Kind == domain.ActionKindMove {
			moves = append(moves, act)
		}
	}
	if len(moves) > 0 {
		return moves[d.rng.Intn(len(moves))], nil
	}

	// No usable moves: switch if possible, concede as the last resort.
	var switches []domain.Action
	for _, act := range legal {
		if act.Kind == domain.ActionKindSwitch {
			switches = append(switches, act)
		}
	}
	if len(switches) > 0 {
		return switches[d.rng.Intn(len(switches))], nil
	}
	return legal[0], nil
}
