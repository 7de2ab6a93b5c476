// Package driver advances a battle after a player action: it records the
// action, fills automated sides, and resolves turns until the battle needs
// player input again or concludes.
package driver

import (
	"fmt"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/engine"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// maxIterations bounds the resolution loop of one Advance call. A healthy
// battle needs far fewer; hitting the ceiling means the engine or a decider
// is stuck in a loop.
const maxIterations = 100

// TurnEvents groups the formatted events of one resolved turn.
type TurnEvents struct {
	TurnNumber int
	Events     []string
}

// Driver runs the resolution loop for a single battle.
type Driver struct {
	engine  engine.Engine
	decider engine.Decider
	seed    func() (int64, error)
}

// New creates a driver. decider chooses actions for automated sides; seed
// supplies the randomness for each resolution step.
func New(eng engine.Engine, decider engine.Decider, seed func() (int64, error)) *Driver {
	return &Driver{engine: eng, decider: decider, seed: seed}
}

// Advance validates and records the player's action, then resolves turns
// while every required action slot can be filled. Automated sides are asked
// for actions at the start of each iteration, so a forced replacement by an
// automated side completes within the same call. The input state is not
// mutated.
//
// The returned groups carry the formatted events of each turn that resolved,
// in order, keyed by the turn number the events belong to.
func (d *Driver) Advance(st domain.State, side int, action domain.Action) (domain.State, []TurnEvents, error) {
	if err := domain.ValidateSubmission(&st, side, action); err != nil {
		return domain.State{}, nil, err
	}
	if err := d.engine.ValidateAction(&st, side, action); err != nil {
		return domain.State{}, nil, err
	}

	cur := st
	cur.Pending[side] = &action

	var groups []TurnEvents
	for i := 0; i < maxIterations; i++ {
		if cur.Phase.Terminal() {
			return cur, groups, nil
		}

		snapshot := cur
		if err := d.fillAutomated(&cur); err != nil {
			return domain.State{}, nil, err
		}
		if !d.engine.ReadyForResolution(&cur) {
			// Waiting on a human side. An automated pick made for a turn
			// that never started must not persist, so return the pre-fill
			// state.
			return snapshot, groups, nil
		}

		seed, err := d.seed()
		if err != nil {
			return domain.State{}, nil, apperrors.Wrap(apperrors.CodeInternal, "generate resolution seed", err)
		}

		turn := cur.TurnNumber
		next, events, err := d.engine.Resolve(cur, seed)
		if err != nil {
			return domain.State{}, nil, err
		}

		formatted := formatEvents(&next, events)
		if len(formatted) > 0 {
			if n := len(groups); n > 0 && groups[n-1].TurnNumber == turn {
				// A replacement resolution continues the still-open turn.
				groups[n-1].Events = append(groups[n-1].Events, formatted...)
			} else {
				groups = append(groups, TurnEvents{TurnNumber: turn, Events: formatted})
			}
		}
		cur = next
	}

	return domain.State{}, nil, apperrors.WithMetadata(apperrors.CodeInternal,
		fmt.Sprintf("battle resolution exceeded %d iterations", maxIterations),
		map[string]string{"battle_id": st.BattleID})
}

// fillAutomated asks the decider for an action on every automated side that
// can currently act and has no pending action.
func (d *Driver) fillAutomated(cur *domain.State) error {
	for side := range cur.Sides {
		if !cur.Sides[side].Automated || cur.Pending[side] != nil {
			continue
		}
		if !domain.CanAct(cur, side) {
			continue
		}
		act, err := d.decider.ChooseAction(cur, side)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal,
				fmt.Sprintf("automated side %d could not choose an action", side), err)
		}
		chosen := act
		cur.Pending[side] = &chosen
	}
	return nil
}

// formatEvents renders events against the post-resolution state, dropping
// any that format to the empty string.
func formatEvents(st *domain.State, events []engine.Event) []string {
	out := make([]string, 0, len(events))
	for _, evt := range events {
		if s := evt.Format(st); s != "" {
			out = append(out, s)
		}
	}
	return out
}
