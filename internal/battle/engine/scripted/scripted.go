// Package scripted is a small deterministic resolution engine used by tests
// and the demo command. It implements plain damage moves, two-turn charging
// moves, PP accounting, switches, faint replacement phases and victory
// detection; the full combat rule set is deliberately out of scope.
package scripted

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/engine"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// Engine implements engine.Engine with the embedded species and move tables.
type Engine struct{}

// New creates a scripted engine.
func New() *Engine {
	return &Engine{}
}

// NewBattle validates both team configurations against the species and move
// tables and builds the initial battle state.
func (e *Engine) NewBattle(battleID string, sideA, sideB engine.SideConfig) (domain.State, error) {
	a, err := buildSide(sideA)
	if err != nil {
		return domain.State{}, err
	}
	b, err := buildSide(sideB)
	if err != nil {
		return domain.State{}, err
	}

	return domain.State{
		BattleID:   battleID,
		Phase:      domain.PhaseAwaitingActions,
		TurnNumber: 1,
		Sides:      [2]domain.Side{a, b},
	}, nil
}

func buildSide(cfg engine.SideConfig) (domain.Side, error) {
	if err := domain.ValidateTeamConfig(cfg.Team); err != nil {
		return domain.Side{}, err
	}

	team := make([]domain.Pokemon, 0, len(cfg.Team))
	for _, member := range cfg.Team {
		sp, ok := speciesTable[member.Species]
		if !ok {
			return domain.Side{}, apperrors.WithMetadata(apperrors.CodeValidation,
				fmt.Sprintf("species data not found for %s", member.Species),
				map[string]string{"species": member.Species})
		}

		moves := make([]domain.MoveSlot, 0, len(member.Moves))
		for _, moveID := range member.Moves {
			md, ok := moveTable[moveID]
			if !ok {
				return domain.Side{}, apperrors.WithMetadata(apperrors.CodeValidation,
					fmt.Sprintf("move data not found for %s", moveID),
					map[string]string{"move": moveID})
			}
			moves = append(moves, domain.MoveSlot{Move: moveID, PP: md.MaxPP, MaxPP: md.MaxPP})
		}

		name := member.Nickname
		if name == "" {
			name = sp.Name
		}

		hp := (2*sp.BaseHP*member.Level)/100 + member.Level + 10
		team = append(team, domain.Pokemon{
			Name:      name,
			Species:   member.Species,
			Level:     member.Level,
			CurrentHP: hp,
			MaxHP:     hp,
			Stats: domain.Stats{
				Attack:    statAt(sp.Attack, member.Level),
				Defense:   statAt(sp.Defense, member.Level),
				SpAttack:  statAt(sp.SpAttack, member.Level),
				SpDefense: statAt(sp.SpDefense, member.Level),
				Speed:     statAt(sp.Speed, member.Level),
			},
			Moves: moves,
		})
	}

	return domain.Side{
		PlayerID:   cfg.PlayerID,
		PlayerName: cfg.PlayerName,
		Automated:  cfg.Automated,
		Team:       team,
	}, nil
}

func statAt(base, level int) int {
	return (2*base*level)/100 + 5
}

// ReadyForResolution reports whether every slot the current phase requires
// is filled.
func (e *Engine) ReadyForResolution(st *domain.State) bool {
	switch st.Phase {
	case domain.PhaseAwaitingActions, domain.PhaseAwaitingBothReplacements:
		return st.Pending[0] != nil && st.Pending[1] != nil
	case domain.PhaseAwaitingSideAReplacement:
		return st.Pending[0] != nil
	case domain.PhaseAwaitingSideBReplacement:
		return st.Pending[1] != nil
	default:
		return false
	}
}

// LegalActions enumerates the actions the side may currently take.
func (e *Engine) LegalActions(st *domain.State, side int) []domain.Action {
	if side < 0 || side > 1 || st.Phase.Terminal() {
		return nil
	}

	s := &st.Sides[side]
	if waiting, ok := st.Phase.ReplacementSide(); ok && waiting != side {
		return nil
	}
	if _, ok := st.Phase.ReplacementSide(); ok || st.Phase == domain.PhaseAwaitingBothReplacements {
		return switchActions(s)
	}

	if st.Phase != domain.PhaseAwaitingActions {
		return nil
	}
	if s.ChargingSlot != nil {
		// A charging Pokémon is locked into releasing its move.
		return []domain.Action{domain.UseMove(*s.ChargingSlot)}
	}

	var actions []domain.Action
	if active := s.Active(); active != nil && !active.Fainted() {
		for slot, ms := range active.Moves {
			if ms.PP > 0 {
				actions = append(actions, domain.UseMove(slot))
			}
		}
	}
	actions = append(actions, switchActions(s)...)
	actions = append(actions, domain.Forfeit())
	return actions
}

func switchActions(s *domain.Side) []domain.Action {
	var actions []domain.Action
	for i, p := range s.Team {
		if i != s.ActiveIndex && !p.Fainted() {
			actions = append(actions, domain.SwitchTo(i))
		}
	}
	return actions
}

// ValidateAction is the engine-side legality check for a single action.
func (e *Engine) ValidateAction(st *domain.State, side int, action domain.Action) error {
	if side < 0 || side > 1 {
		return apperrors.New(apperrors.CodeUnauthorized,
			fmt.Sprintf("side index %d is not part of this battle", side))
	}
	s := &st.Sides[side]

	switch action.Kind {
	case domain.ActionKindMove:
		active := s.Active()
		if active == nil || active.Fainted() {
			return apperrors.New(apperrors.CodeInvalidAction, "no active Pokémon able to move")
		}
		if action.MoveSlot < 0 || action.MoveSlot >= len(active.Moves) {
			return apperrors.New(apperrors.CodeInvalidAction,
				fmt.Sprintf("move slot %d out of range", action.MoveSlot))
		}
		// A charging Pokémon executes its charged move regardless of the
		// submitted slot, so PP of the placeholder is irrelevant.
		if s.ChargingSlot == nil && active.Moves[action.MoveSlot].PP <= 0 {
			return apperrors.New(apperrors.CodeInvalidAction,
				fmt.Sprintf("no PP left for %s", active.Moves[action.MoveSlot].Move))
		}
		return nil

	case domain.ActionKindSwitch:
		if action.TeamIndex < 0 || action.TeamIndex >= len(s.Team) {
			return apperrors.New(apperrors.CodeInvalidAction,
				fmt.Sprintf("team index %d out of range", action.TeamIndex))
		}
		if action.TeamIndex == s.ActiveIndex {
			return apperrors.New(apperrors.CodeInvalidAction, "Pokémon is already active")
		}
		if s.Team[action.TeamIndex].Fainted() {
			return apperrors.New(apperrors.CodeInvalidAction,
				fmt.Sprintf("%s has fainted and cannot battle", s.Team[action.TeamIndex].Name))
		}
		return nil

	case domain.ActionKindForfeit:
		return nil

	default:
		return apperrors.New(apperrors.CodeInvalidAction, "unspecified action kind")
	}
}

// Resolve consumes the pending-action slots and advances the battle by one
// resolution step. The input state is not mutated.
//
// The turn number increments only when the resolution leaves the battle in
// the awaiting-actions phase or a terminal phase; a resolution that stops in
// a replacement phase belongs to the still-open turn, so the pending switch
// lands in the same turn record as the faint that forced it.
func (e *Engine) Resolve(st domain.State, seed int64) (domain.State, []engine.Event, error) {
	out := cloneState(&st)
	if !e.ReadyForResolution(&out) {
		return domain.State{}, nil, apperrors.New(apperrors.CodeInternal,
			"resolve called without required pending actions")
	}

	rng := rand.New(rand.NewSource(seed))
	var events []engine.Event

	switch out.Phase {
	case domain.PhaseAwaitingActions:
		events = e.resolveActionTurn(&out, rng)
	default:
		events = e.resolveReplacements(&out)
	}

	if out.Phase == domain.PhaseAwaitingActions || out.Phase.Terminal() {
		out.TurnNumber++
	}
	return out, events, nil
}

func (e *Engine) resolveReplacements(out *domain.State) []engine.Event {
	var events []engine.Event
	for side := range out.Sides {
		act := out.Pending[side]
		if act == nil {
			continue
		}
		out.Pending[side] = nil
		if act.Kind != domain.ActionKindSwitch {
			continue
		}
		s := &out.Sides[side]
		s.ActiveIndex = act.TeamIndex
		s.ChargingSlot = nil
		events = append(events, SwitchEvent{Player: s.PlayerName, Pokemon: s.Team[act.TeamIndex].Name})
	}
	out.Phase = domain.PhaseAwaitingActions
	return events
}

type queuedAction struct {
	side   int
	action domain.Action
}

func (e *Engine) resolveActionTurn(out *domain.State, rng *rand.Rand) []engine.Event {
	actions := [2]domain.Action{*out.Pending[0], *out.Pending[1]}
	out.Pending[0], out.Pending[1] = nil, nil

	var events []engine.Event

	// Forfeits resolve before anything else.
	if actions[0].Kind == domain.ActionKindForfeit || actions[1].Kind == domain.ActionKindForfeit {
		for side := range out.Sides {
			if actions[side].Kind == domain.ActionKindForfeit {
				events = append(events, ForfeitEvent{Player: out.Sides[side].PlayerName})
			}
		}
		switch {
		case actions[0].Kind == domain.ActionKindForfeit && actions[1].Kind == domain.ActionKindForfeit:
			out.Phase = domain.PhaseDraw
			events = append(events, DrawEvent{})
		case actions[0].Kind == domain.ActionKindForfeit:
			out.Phase = domain.VictoryFor(1)
			events = append(events, VictoryEvent{Player: out.Sides[1].PlayerName})
		default:
			out.Phase = domain.VictoryFor(0)
			events = append(events, VictoryEvent{Player: out.Sides[0].PlayerName})
		}
		return events
	}

	for _, q := range turnOrder(out, actions, rng) {
		if out.Phase.Terminal() {
			break
		}
		switch q.action.Kind {
		case domain.ActionKindSwitch:
			s := &out.Sides[q.side]
			s.ActiveIndex = q.action.TeamIndex
			s.ChargingSlot = nil
			events = append(events, SwitchEvent{Player: s.PlayerName, Pokemon: s.Team[q.action.TeamIndex].Name})
		case domain.ActionKindMove:
			events = append(events, e.executeMove(out, q.side, q.action, rng)...)
		}
	}

	e.settlePhase(out, &events)
	return events
}

// turnOrder queues switches ahead of moves, then orders moves by the active
// Pokémon's speed, breaking ties randomly.
func turnOrder(out *domain.State, actions [2]domain.Action, rng *rand.Rand) []queuedAction {
	var switches, moves []queuedAction
	for side, act := range actions {
		q := queuedAction{side: side, action: act}
		if act.Kind == domain.ActionKindSwitch {
			switches = append(switches, q)
		} else {
			moves = append(moves, q)
		}
	}

	sort.SliceStable(moves, func(i, j int) bool {
		a, b := moves[i], moves[j]
		speedA, speedB := activeSpeed(out, a.side), activeSpeed(out, b.side)
		if speedA != speedB {
			return speedA > speedB
		}
		return rng.Intn(2) == 0
	})

	return append(switches, moves...)
}

func activeSpeed(out *domain.State, side int) int {
	if active := out.Sides[side].Active(); active != nil {
		return active.Stats.Speed
	}
	return 0
}

func (e *Engine) executeMove(out *domain.State, side int, action domain.Action, rng *rand.Rand) []engine.Event {
	s := &out.Sides[side]
	active := s.Active()
	if active == nil || active.Fainted() {
		// Fainted earlier this turn; the move is lost.
		return nil
	}

	slot := action.MoveSlot
	released := false
	if s.ChargingSlot != nil {
		slot = *s.ChargingSlot
		s.ChargingSlot = nil
		released = true
	}
	if slot < 0 || slot >= len(active.Moves) {
		return nil
	}
	ms := &active.Moves[slot]
	md, ok := moveTable[ms.Move]
	if !ok {
		return nil
	}

	if !released && md.Charging {
		// PP is spent on the charge turn; the release is free.
		ms.PP--
		charging := slot
		s.ChargingSlot = &charging
		return []engine.Event{ChargingEvent{Pokemon: active.Name, Move: md.Name}}
	}
	if !released {
		ms.PP--
	}

	events := []engine.Event{MoveUsedEvent{Pokemon: active.Name, Move: md.Name}}

	foe := &out.Sides[1-side]
	defender := foe.Active()
	if defender == nil || defender.Fainted() {
		return events
	}

	sp := speciesTable[defender.Species]
	multiplier := effectiveness(md.Type, sp.Types)
	events = append(events, EffectivenessEvent{Multiplier: multiplier})
	if multiplier == 0 {
		return events
	}

	dmg := damage(active, defender, md, multiplier, rng)
	defender.CurrentHP -= dmg
	if defender.CurrentHP < 0 {
		defender.CurrentHP = 0
	}
	events = append(events, DamageEvent{Pokemon: defender.Name, Amount: dmg})
	if defender.Fainted() {
		events = append(events, FaintEvent{Pokemon: defender.Name})
	}
	return events
}

var specialTypes = map[string]bool{
	"fire": true, "water": true, "electric": true, "grass": true,
}

func damage(attacker, defender *domain.Pokemon, md moveData, multiplier float64, rng *rand.Rand) int {
	atk, def := attacker.Stats.Attack, defender.Stats.Defense
	if specialTypes[md.Type] {
		atk, def = attacker.Stats.SpAttack, defender.Stats.SpDefense
	}
	if def < 1 {
		def = 1
	}

	base := ((2*attacker.Level/5+2)*md.Power*atk)/(def*50) + 2
	roll := 85 + rng.Intn(16)
	dmg := int(float64(base*roll) / 100 * multiplier)
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// settlePhase inspects post-action faints and selects the next phase.
func (e *Engine) settlePhase(out *domain.State, events *[]engine.Event) {
	if out.Phase.Terminal() {
		return
	}

	downA := activeDown(&out.Sides[0])
	downB := activeDown(&out.Sides[1])
	remainingA := out.Sides[0].RemainingCount()
	remainingB := out.Sides[1].RemainingCount()

	switch {
	case remainingA == 0 && remainingB == 0:
		out.Phase = domain.PhaseDraw
		*events = append(*events, DrawEvent{})
	case remainingB == 0:
		out.Phase = domain.VictoryFor(0)
		*events = append(*events, VictoryEvent{Player: out.Sides[0].PlayerName})
	case remainingA == 0:
		out.Phase = domain.VictoryFor(1)
		*events = append(*events, VictoryEvent{Player: out.Sides[1].PlayerName})
	case downA && downB:
		out.Phase = domain.PhaseAwaitingBothReplacements
	case downA:
		out.Phase = domain.AwaitingReplacementFor(0)
	case downB:
		out.Phase = domain.AwaitingReplacementFor(1)
	default:
		out.Phase = domain.PhaseAwaitingActions
	}
}

func activeDown(s *domain.Side) bool {
	active := s.Active()
	return active == nil || active.Fainted()
}

func cloneState(st *domain.State) domain.State {
	out := *st
	for i := range st.Sides {
		side := st.Sides[i]
		team := make([]domain.Pokemon, len(side.Team))
		for j, p := range side.Team {
			moves := make([]domain.MoveSlot, len(p.Moves))
			copy(moves, p.Moves)
			p.Moves = moves
			team[j] = p
		}
		side.Team = team
		if side.ChargingSlot != nil {
			slot := *side.ChargingSlot
			side.ChargingSlot = &slot
		}
		out.Sides[i] = side
	}
	for i, act := range st.Pending {
		if act != nil {
			copied := *act
			out.Pending[i] = &copied
		}
	}
	return out
}
