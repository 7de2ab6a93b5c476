package projection

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/engine"
	"github.com/voltorb/arena/internal/battle/engine/scripted"
)

func newBattle(t *testing.T) domain.State {
	t.Helper()
	st, err := scripted.New().NewBattle("battle-1",
		engine.SideConfig{PlayerID: "p1", PlayerName: "Red", Team: []domain.TeamPokemon{
			{Species: "pikachu", Level: 50, Moves: []string{"thunder-shock", "quick-attack"}},
			{Species: "eevee", Level: 50, Moves: []string{"tackle"}},
		}},
		engine.SideConfig{PlayerID: "p2", PlayerName: "Blue", Team: []domain.TeamPokemon{
			{Species: "squirtle", Level: 50, Moves: []string{"water-gun", "bubble-beam"}},
			{Species: "starmie", Level: 50, Moves: []string{"bubble-beam"}},
			{Species: "onix", Level: 50, Moves: []string{"rock-throw"}},
		}},
	)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}
	return st
}

func TestViewForOwnTeamDetail(t *testing.T) {
	st := newBattle(t)
	st.Sides[0].Team[0].Moves[0].PP = 17

	view := ViewFor(&st, 0)

	if view.BattleID != "battle-1" || view.TurnNumber != 1 {
		t.Fatalf("unexpected header: %+v", view)
	}
	if !view.CanAct {
		t.Fatal("expected can_act true with an empty pending slot")
	}
	if len(view.Team.Pokemon) != 2 {
		t.Fatalf("expected full own team, got %d", len(view.Team.Pokemon))
	}
	pika := view.Team.Pokemon[0]
	if pika.Moves[0].PP != 17 || pika.Moves[0].MaxPP != 30 {
		t.Fatalf("expected exact PP in own view, got %+v", pika.Moves[0])
	}
}

func TestViewForHidesOpponentDetail(t *testing.T) {
	st := newBattle(t)
	view := ViewFor(&st, 0)

	if view.Opponent.PlayerName != "Blue" {
		t.Fatalf("unexpected opponent name %q", view.Opponent.PlayerName)
	}
	if view.Opponent.RemainingCount != 3 {
		t.Fatalf("expected remaining count 3, got %d", view.Opponent.RemainingCount)
	}
	if view.Opponent.Active == nil || view.Opponent.Active.Species != "squirtle" {
		t.Fatalf("expected only the active opponent visible, got %+v", view.Opponent.Active)
	}

	// The serialized opponent section must not leak moves or bench members.
	raw, err := json.Marshal(view.Opponent)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, leak := range []string{"water-gun", "bubble-beam", "starmie", "onix", "pp"} {
		if strings.Contains(s, leak) {
			t.Fatalf("opponent view leaks %q:\n%s", leak, s)
		}
	}
}

func TestViewForBothSidesSymmetric(t *testing.T) {
	st := newBattle(t)

	a := ViewFor(&st, 0)
	b := ViewFor(&st, 1)

	if a.Team.PlayerName != b.Opponent.PlayerName || b.Team.PlayerName != a.Opponent.PlayerName {
		t.Fatal("expected mirrored player names across side views")
	}
	if len(b.Team.Pokemon) != 3 {
		t.Fatalf("expected side B to see its full team, got %d", len(b.Team.Pokemon))
	}
}

func TestViewForCanActTracksPhase(t *testing.T) {
	st := newBattle(t)

	act := domain.UseMove(0)
	st.Pending[0] = &act
	if ViewFor(&st, 0).CanAct {
		t.Fatal("expected can_act false after submitting")
	}
	if !ViewFor(&st, 1).CanAct {
		t.Fatal("expected can_act true for the side still to submit")
	}

	st.Pending[0] = nil
	st.Phase = domain.PhaseAwaitingSideBReplacement
	if ViewFor(&st, 0).CanAct {
		t.Fatal("expected can_act false for the non-waiting side")
	}
	if !ViewFor(&st, 1).CanAct {
		t.Fatal("expected can_act true for the replacing side")
	}

	st.Phase = domain.PhaseDraw
	if ViewFor(&st, 0).CanAct || ViewFor(&st, 1).CanAct {
		t.Fatal("expected can_act false in a terminal phase")
	}
}

func TestViewForRemainingCountExcludesFainted(t *testing.T) {
	st := newBattle(t)
	st.Sides[1].Team[2].CurrentHP = 0

	view := ViewFor(&st, 0)
	if view.Opponent.RemainingCount != 2 {
		t.Fatalf("expected remaining count 2, got %d", view.Opponent.RemainingCount)
	}
}
