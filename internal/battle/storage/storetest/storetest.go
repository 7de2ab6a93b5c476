// Package storetest runs the BattleStore contract against any
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/storage"
)

// Factory creates a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.BattleStore

func record(id string, playerA, playerB string) storage.BattleRecord {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return storage.BattleRecord{
		ID: id,
		State: domain.State{
			BattleID:   id,
			Phase:      domain.PhaseAwaitingActions,
			TurnNumber: 1,
			Sides: [2]domain.Side{
				{PlayerID: playerA, PlayerName: "Trainer " + playerA, Team: []domain.Pokemon{
					{Name: "Pikachu", Species: "pikachu", Level: 50, CurrentHP: 95, MaxHP: 95,
						Moves: []domain.MoveSlot{{Move: "thunder-shock", PP: 30, MaxPP: 30}}},
				}},
				{PlayerID: playerB, PlayerName: "Trainer " + playerB, Automated: playerB == "npc", Team: []domain.Pokemon{
					{Name: "Eevee", Species: "eevee", Level: 50, CurrentHP: 115, MaxHP: 115,
						Moves: []domain.MoveSlot{{Move: "tackle", PP: 35, MaxPP: 35}}},
				}},
			},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func turn(n int, events ...string) domain.TurnRecord {
	return domain.TurnRecord{
		TurnNumber: n,
		Events:     events,
		RecordedAt: time.Date(2026, 3, 14, 12, n, 0, 0, time.UTC),
	}
}

// Run exercises the full BattleStore contract.
func Run(t *testing.T, factory Factory) {
	t.Run("create and get round-trip", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")

		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := store.GetBattle(ctx, "b1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Version != 1 {
			t.Fatalf("expected version 1 on create, got %d", got.Version)
		}
		if got.State.Sides[0].PlayerID != "p1" || got.State.TurnNumber != 1 {
			t.Fatalf("state did not round-trip: %+v", got.State)
		}
		if got.State.Sides[0].Team[0].Moves[0].PP != 30 {
			t.Fatal("move slots did not round-trip")
		}
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")

		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := store.CreateBattle(ctx, rec); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("get missing battle", func(t *testing.T) {
		store := factory(t)
		if _, err := store.GetBattle(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update increments version", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}

		rec.State.TurnNumber = 2
		if err := store.UpdateBattle(ctx, rec, nil); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := store.GetBattle(ctx, "b1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Version != 2 {
			t.Fatalf("expected version 2, got %d", got.Version)
		}
		if got.State.TurnNumber != 2 {
			t.Fatalf("expected updated state, got turn %d", got.State.TurnNumber)
		}
	})

	t.Run("update rejects stale version", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := store.UpdateBattle(ctx, rec, nil); err != nil {
			t.Fatalf("first update: %v", err)
		}

		// A second writer holding the original version must lose.
		if err := store.UpdateBattle(ctx, rec, nil); !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("expected ErrVersionConflict, got %v", err)
		}
	})

	t.Run("update missing battle", func(t *testing.T) {
		store := factory(t)
		rec := record("b1", "p1", "p2")
		if err := store.UpdateBattle(context.Background(), rec, nil); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("turn log appends in order", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{
			turn(1, "Pikachu used Thunder Shock!", "Eevee took 12 damage!"),
		}); err != nil {
			t.Fatalf("update 1: %v", err)
		}
		rec.Version = 2
		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{
			turn(2, "Eevee used Tackle!"),
			turn(3, "Pikachu used Thunder Shock!"),
		}); err != nil {
			t.Fatalf("update 2: %v", err)
		}

		turns, err := store.ListTurnRecords(ctx, "b1", 0)
		if err != nil {
			t.Fatalf("list turns: %v", err)
		}
		if len(turns) != 3 {
			t.Fatalf("expected 3 turns, got %d", len(turns))
		}
		for i, tr := range turns {
			if tr.TurnNumber != i+1 {
				t.Fatalf("expected turn %d at index %d, got %d", i+1, i, tr.TurnNumber)
			}
		}
		if len(turns[0].Events) != 2 {
			t.Fatalf("expected 2 events in turn 1, got %v", turns[0].Events)
		}
	})

	t.Run("turn log merges same turn number", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{
			turn(1, "Pikachu fainted!"),
		}); err != nil {
			t.Fatalf("update 1: %v", err)
		}
		rec.Version = 2
		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{
			turn(1, "Trainer p1 sent out Eevee!"),
		}); err != nil {
			t.Fatalf("update 2: %v", err)
		}

		turns, err := store.ListTurnRecords(ctx, "b1", 0)
		if err != nil {
			t.Fatalf("list turns: %v", err)
		}
		if len(turns) != 1 {
			t.Fatalf("expected the events merged into one turn, got %d", len(turns))
		}
		if len(turns[0].Events) != 2 {
			t.Fatalf("expected both events in turn 1, got %v", turns[0].Events)
		}
	})

	t.Run("turn log last-n suffix", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{
			turn(1, "a"), turn(2, "b"), turn(3, "c"), turn(4, "d"),
		}); err != nil {
			t.Fatalf("update: %v", err)
		}

		turns, err := store.ListTurnRecords(ctx, "b1", 2)
		if err != nil {
			t.Fatalf("list turns: %v", err)
		}
		if len(turns) != 2 || turns[0].TurnNumber != 3 || turns[1].TurnNumber != 4 {
			t.Fatalf("expected turns 3 and 4, got %+v", turns)
		}

		// Asking for more than exist returns everything.
		turns, err = store.ListTurnRecords(ctx, "b1", 10)
		if err != nil {
			t.Fatalf("list turns: %v", err)
		}
		if len(turns) != 4 {
			t.Fatalf("expected all 4 turns, got %d", len(turns))
		}
	})

	t.Run("turn log missing battle", func(t *testing.T) {
		store := factory(t)
		if _, err := store.ListTurnRecords(context.Background(), "missing", 0); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list battles by player", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()

		first := record("b1", "p1", "npc")
		second := record("b2", "p2", "p1")
		second.CreatedAt = first.CreatedAt.Add(time.Hour)
		third := record("b3", "p2", "npc")
		for _, rec := range []storage.BattleRecord{first, second, third} {
			if err := store.CreateBattle(ctx, rec); err != nil {
				t.Fatalf("create %s: %v", rec.ID, err)
			}
		}

		battles, err := store.ListBattlesByPlayer(ctx, "p1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(battles) != 2 {
			t.Fatalf("expected 2 battles for p1, got %d", len(battles))
		}
		if battles[0].ID != "b2" || battles[1].ID != "b1" {
			t.Fatalf("expected newest first, got %s then %s", battles[0].ID, battles[1].ID)
		}

		battles, err = store.ListBattlesByPlayer(ctx, "nobody")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(battles) != 0 {
			t.Fatalf("expected no battles, got %d", len(battles))
		}
	})

	t.Run("delete battle", func(t *testing.T) {
		store := factory(t)
		ctx := context.Background()
		rec := record("b1", "p1", "p2")
		if err := store.CreateBattle(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := store.UpdateBattle(ctx, rec, []domain.TurnRecord{turn(1, "a")}); err != nil {
			t.Fatalf("update: %v", err)
		}

		if err := store.DeleteBattle(ctx, "b1"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.GetBattle(ctx, "b1"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteBattle(ctx, "b1"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on double delete, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := factory(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := store.CreateBattle(ctx, record("b1", "p1", "p2")); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
