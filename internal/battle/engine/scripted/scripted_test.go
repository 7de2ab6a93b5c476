package scripted

import (
	"strings"
	"testing"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/engine"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

func sideConfig(playerID string, team ...domain.TeamPokemon) engine.SideConfig {
	return engine.SideConfig{PlayerID: playerID, PlayerName: "Trainer " + playerID, Team: team}
}

func member(species string, level int, moves ...string) domain.TeamPokemon {
	return domain.TeamPokemon{Species: species, Level: level, Moves: moves}
}

func newTestBattle(t *testing.T, a, b engine.SideConfig) domain.State {
	t.Helper()
	st, err := New().NewBattle("battle-1", a, b)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	return st
}

func submitBoth(st *domain.State, a, b domain.Action) {
	st.Pending[0], st.Pending[1] = &a, &b
}

func formatAll(st *domain.State, events []engine.Event) []string {
	var out []string
	for _, evt := range events {
		if s := evt.Format(st); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func TestNewBattleInitialState(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 25, "thunder-shock", "quick-attack")),
		sideConfig("p2", member("squirtle", 25, "water-gun"), member("geodude", 25, "rock-throw")),
	)

	if st.Phase != domain.PhaseAwaitingActions {
		t.Fatalf("expected awaiting-actions, got %s", st.Phase)
	}
	if st.TurnNumber != 1 {
		t.Fatalf("expected turn 1, got %d", st.TurnNumber)
	}
	if got := st.Sides[1].RemainingCount(); got != 2 {
		t.Fatalf("expected 2 remaining on side B, got %d", got)
	}
	pika := st.Sides[0].Team[0]
	if pika.CurrentHP != pika.MaxHP || pika.CurrentHP <= 0 {
		t.Fatalf("expected full positive HP, got %d/%d", pika.CurrentHP, pika.MaxHP)
	}
	if pika.Moves[0].PP != pika.Moves[0].MaxPP {
		t.Fatal("expected full PP on creation")
	}
}

func TestNewBattleUnknownSpeciesAndMove(t *testing.T) {
	_, err := New().NewBattle("b",
		sideConfig("p1", member("missingno", 50, "tackle")),
		sideConfig("p2", member("pikachu", 50, "tackle")),
	)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for unknown species, got %v", err)
	}

	_, err = New().NewBattle("b",
		sideConfig("p1", member("pikachu", 50, "fissure")),
		sideConfig("p2", member("pikachu", 50, "tackle")),
	)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for unknown move, got %v", err)
	}
}

func TestNewBattleRosterBounds(t *testing.T) {
	_, err := New().NewBattle("b",
		sideConfig("p1", member("pikachu", 0, "tackle")),
		sideConfig("p2", member("pikachu", 50, "tackle")),
	)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for level 0, got %v", err)
	}

	_, err = New().NewBattle("b", sideConfig("p1"), sideConfig("p2", member("pikachu", 50, "tackle")))
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty team, got %v", err)
	}
}

func TestReadyForResolution(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 25, "thunder-shock")),
		sideConfig("p2", member("eevee", 25, "tackle")),
	)
	e := New()

	if e.ReadyForResolution(&st) {
		t.Fatal("not ready with empty slots")
	}
	move := domain.UseMove(0)
	st.Pending[0] = &move
	if e.ReadyForResolution(&st) {
		t.Fatal("not ready with one slot empty")
	}
	st.Pending[1] = &move
	if !e.ReadyForResolution(&st) {
		t.Fatal("ready with both slots filled")
	}

	st.Phase = domain.PhaseAwaitingSideBReplacement
	st.Pending[0] = nil
	if !e.ReadyForResolution(&st) {
		t.Fatal("side B replacement only needs side B's slot")
	}
	st.Pending[1] = nil
	if e.ReadyForResolution(&st) {
		t.Fatal("not ready without the required slot")
	}

	st.Phase = domain.PhaseSideAVictory
	st.Pending[0], st.Pending[1] = &move, &move
	if e.ReadyForResolution(&st) {
		t.Fatal("terminal phases are never ready")
	}
}

func TestResolveBasicTurn(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 25, "thunder-shock")),
		sideConfig("p2", member("eevee", 25, "tackle")),
	)
	submitBoth(&st, domain.UseMove(0), domain.UseMove(0))

	out, events, err := New().Resolve(st, 42)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if out.TurnNumber != 2 {
		t.Fatalf("expected turn 2, got %d", out.TurnNumber)
	}
	if out.Pending[0] != nil || out.Pending[1] != nil {
		t.Fatal("expected pending slots cleared")
	}
	if out.Sides[0].Team[0].Moves[0].PP != out.Sides[0].Team[0].Moves[0].MaxPP-1 {
		t.Fatal("expected one PP spent")
	}
	if out.Sides[0].Team[0].CurrentHP >= out.Sides[0].Team[0].MaxHP &&
		out.Sides[1].Team[0].CurrentHP >= out.Sides[1].Team[0].MaxHP {
		t.Fatal("expected damage on at least one side")
	}

	formatted := formatAll(&out, events)
	if len(formatted) == 0 {
		t.Fatal("expected formatted events")
	}
	// Input state must be untouched.
	if st.Sides[0].Team[0].Moves[0].PP != st.Sides[0].Team[0].Moves[0].MaxPP {
		t.Fatal("resolve mutated its input state")
	}
}

func TestResolveNotReady(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 25, "thunder-shock")),
		sideConfig("p2", member("eevee", 25, "tackle")),
	)
	if _, _, err := New().Resolve(st, 1); !apperrors.IsCode(err, apperrors.CodeInternal) {
		t.Fatalf("expected INTERNAL for unready resolve, got %v", err)
	}
}

func TestNeutralEffectivenessFormatsEmpty(t *testing.T) {
	evt := EffectivenessEvent{Multiplier: 1}
	if got := evt.Format(nil); got != "" {
		t.Fatalf("neutral effectiveness must format empty, got %q", got)
	}
	for _, mult := range []float64{2, 0.5, 0} {
		evt := EffectivenessEvent{Multiplier: mult}
		if evt.Format(nil) == "" {
			t.Fatalf("multiplier %v must produce a message", mult)
		}
	}
}

func TestTypeImmunityDealsNoDamage(t *testing.T) {
	// Electric against rock/ground is immune.
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 50, "thunder-shock")),
		sideConfig("p2", member("geodude", 50, "tackle")),
	)
	submitBoth(&st, domain.UseMove(0), domain.UseMove(0))

	out, events, err := New().Resolve(st, 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	hpBefore := st.Sides[1].Team[0].CurrentHP
	if out.Sides[1].Team[0].CurrentHP != hpBefore {
		t.Fatal("immune defender must take no damage")
	}
	joined := strings.Join(formatAll(&out, events), "\n")
	if !strings.Contains(joined, "no effect") {
		t.Fatalf("expected a no-effect message, got:\n%s", joined)
	}
}

func TestChargingMoveTwoTurnFlow(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("bulbasaur", 50, "solar-beam", "tackle")),
		sideConfig("p2", member("snorlax", 50, "tackle")),
	)
	submitBoth(&st, domain.UseMove(0), domain.UseMove(0))

	e := New()
	out, events, err := e.Resolve(st, 3)
	if err != nil {
		t.Fatalf("turn 1: %v", err)
	}

	joined := strings.Join(formatAll(&out, events), "\n")
	if !strings.Contains(joined, "began charging Solar Beam") {
		t.Fatalf("expected charging message, got:\n%s", joined)
	}
	if strings.Contains(joined, "used Solar Beam") {
		t.Fatal("charging turn must not execute the move")
	}
	if out.Sides[0].ChargingSlot == nil || *out.Sides[0].ChargingSlot != 0 {
		t.Fatal("expected charging slot recorded")
	}
	if out.TurnNumber != 2 {
		t.Fatalf("expected turn 2 after charge, got %d", out.TurnNumber)
	}
	if pp := out.Sides[0].Team[0].Moves[0].PP; pp != moveTable["solar-beam"].MaxPP-1 {
		t.Fatalf("expected PP spent on charge turn, got %d", pp)
	}

	// The charged side is locked into releasing the move.
	legal := e.LegalActions(&out, 0)
	if len(legal) != 1 || legal[0] != domain.UseMove(0) {
		t.Fatalf("expected only the charged move to be legal, got %v", legal)
	}

	// Any placeholder action releases the beam.
	submitBoth(&out, domain.UseMove(1), domain.UseMove(0))
	final, events, err := e.Resolve(out, 4)
	if err != nil {
		t.Fatalf("turn 2: %v", err)
	}
	joined = strings.Join(formatAll(&final, events), "\n")
	if !strings.Contains(joined, "used Solar Beam") {
		t.Fatalf("expected forced Solar Beam execution, got:\n%s", joined)
	}
	if !strings.Contains(joined, "took") {
		t.Fatalf("expected a damage event, got:\n%s", joined)
	}
	if final.Sides[0].ChargingSlot != nil {
		t.Fatal("expected charging slot cleared after release")
	}
	if final.TurnNumber != 3 {
		t.Fatalf("expected turn 3, got %d", final.TurnNumber)
	}
	if pp := final.Sides[0].Team[0].Moves[0].PP; pp != moveTable["solar-beam"].MaxPP-1 {
		t.Fatalf("release turn must not spend extra PP, got %d", pp)
	}
	if pp := final.Sides[0].Team[0].Moves[1].PP; pp != moveTable["tackle"].MaxPP {
		t.Fatalf("placeholder move must not spend PP, got %d", pp)
	}
}

func TestFaintForcesReplacementPhase(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("raichu", 80, "thunderbolt")),
		sideConfig("p2", member("pidgey", 5, "gust"), member("eevee", 50, "tackle")),
	)
	submitBoth(&st, domain.UseMove(0), domain.UseMove(0))

	e := New()
	out, events, err := e.Resolve(st, 11)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if out.Phase != domain.PhaseAwaitingSideBReplacement {
		t.Fatalf("expected side B replacement phase, got %s", out.Phase)
	}
	// The turn stays open until the replacement arrives.
	if out.TurnNumber != 1 {
		t.Fatalf("expected turn still 1, got %d", out.TurnNumber)
	}
	joined := strings.Join(formatAll(&out, events), "\n")
	if !strings.Contains(joined, "Pidgey fainted!") {
		t.Fatalf("expected faint event, got:\n%s", joined)
	}

	// Only switches are legal for the waiting side; nothing for the other.
	legal := e.LegalActions(&out, 1)
	if len(legal) != 1 || legal[0] != domain.SwitchTo(1) {
		t.Fatalf("expected single switch action, got %v", legal)
	}
	if e.LegalActions(&out, 0) != nil {
		t.Fatal("non-waiting side must have no legal actions")
	}

	// Resolving the replacement closes the turn.
	switchIn := domain.SwitchTo(1)
	out.Pending[1] = &switchIn
	final, events, err := e.Resolve(out, 12)
	if err != nil {
		t.Fatalf("replacement resolve: %v", err)
	}
	if final.Phase != domain.PhaseAwaitingActions {
		t.Fatalf("expected awaiting-actions, got %s", final.Phase)
	}
	if final.TurnNumber != 2 {
		t.Fatalf("expected turn 2, got %d", final.TurnNumber)
	}
	joined = strings.Join(formatAll(&final, events), "\n")
	if !strings.Contains(joined, "sent out Eevee") {
		t.Fatalf("expected switch event, got:\n%s", joined)
	}
}

func TestLastFaintEndsBattle(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("raichu", 90, "thunderbolt")),
		sideConfig("p2", member("pidgey", 5, "gust")),
	)
	submitBoth(&st, domain.UseMove(0), domain.UseMove(0))

	out, events, err := New().Resolve(st, 21)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Phase != domain.PhaseSideAVictory {
		t.Fatalf("expected side A victory, got %s", out.Phase)
	}
	joined := strings.Join(formatAll(&out, events), "\n")
	if !strings.Contains(joined, "wins the battle") {
		t.Fatalf("expected victory event, got:\n%s", joined)
	}
}

func TestForfeitEndsImmediately(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 50, "thunder-shock")),
		sideConfig("p2", member("eevee", 50, "tackle")),
	)
	submitBoth(&st, domain.Forfeit(), domain.UseMove(0))

	out, events, err := New().Resolve(st, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Phase != domain.PhaseSideBVictory {
		t.Fatalf("expected side B victory, got %s", out.Phase)
	}
	joined := strings.Join(formatAll(&out, events), "\n")
	if !strings.Contains(joined, "forfeited") || !strings.Contains(joined, "wins the battle") {
		t.Fatalf("expected forfeit and victory events, got:\n%s", joined)
	}
	// The defender's move never executes against a concluded battle.
	if hp := out.Sides[0].Team[0].CurrentHP; hp != out.Sides[0].Team[0].MaxHP {
		t.Fatal("no damage should occur on forfeit")
	}
}

func TestSwitchResolvesBeforeMoves(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 50, "thunder-shock"), member("eevee", 50, "tackle")),
		sideConfig("p2", member("squirtle", 50, "water-gun")),
	)
	submitBoth(&st, domain.SwitchTo(1), domain.UseMove(0))

	out, _, err := New().Resolve(st, 9)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out.Sides[0].ActiveIndex != 1 {
		t.Fatal("expected switch applied")
	}
	// Water Gun must hit the incoming Eevee, not the departing Pikachu.
	if out.Sides[0].Team[1].CurrentHP >= out.Sides[0].Team[1].MaxHP {
		t.Fatal("expected the incoming Pokémon to take the hit")
	}
	if out.Sides[0].Team[0].CurrentHP != out.Sides[0].Team[0].MaxHP {
		t.Fatal("expected the departing Pokémon untouched")
	}
}

func TestValidateAction(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 50, "thunder-shock"), member("eevee", 50, "tackle")),
		sideConfig("p2", member("squirtle", 50, "water-gun")),
	)
	e := New()

	if err := e.ValidateAction(&st, 0, domain.UseMove(0)); err != nil {
		t.Fatalf("expected legal move: %v", err)
	}
	if err := e.ValidateAction(&st, 0, domain.UseMove(3)); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("expected out-of-range slot rejected, got %v", err)
	}
	if err := e.ValidateAction(&st, 0, domain.SwitchTo(0)); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("expected active-switch rejected, got %v", err)
	}
	if err := e.ValidateAction(&st, 0, domain.SwitchTo(5)); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("expected out-of-range switch rejected, got %v", err)
	}
	if err := e.ValidateAction(&st, 0, domain.Forfeit()); err != nil {
		t.Fatalf("expected forfeit legal: %v", err)
	}

	st.Sides[0].Team[0].Moves[0].PP = 0
	if err := e.ValidateAction(&st, 0, domain.UseMove(0)); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("expected zero-PP move rejected, got %v", err)
	}

	st.Sides[0].Team[1].CurrentHP = 0
	if err := e.ValidateAction(&st, 0, domain.SwitchTo(1)); !apperrors.IsCode(err, apperrors.CodeInvalidAction) {
		t.Fatalf("expected fainted-switch rejected, got %v", err)
	}
}

func TestLegalActionsAwaitingActions(t *testing.T) {
	st := newTestBattle(t,
		sideConfig("p1", member("pikachu", 50, "thunder-shock", "quick-attack"), member("eevee", 50, "tackle")),
		sideConfig("p2", member("squirtle", 50, "water-gun")),
	)

	legal := New().LegalActions(&st, 0)
	// Two moves, one switch, forfeit.
	if len(legal) != 4 {
		t.Fatalf("expected 4 legal actions, got %v", legal)
	}

	st.Sides[0].Team[0].Moves[0].PP = 0
	legal = New().LegalActions(&st, 0)
	if len(legal) != 3 {
		t.Fatalf("expected zero-PP move excluded, got %v", legal)
	}

	if New().LegalActions(&st, 5) != nil {
		t.Fatal("expected nil for out-of-range side")
	}
	st.Phase = domain.PhaseDraw
	if New().LegalActions(&st, 0) != nil {
		t.Fatal("expected nil for terminal phase")
	}
}
