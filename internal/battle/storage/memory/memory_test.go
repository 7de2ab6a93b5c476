package memory

import (
	"context"
	"testing"

	"github.com/voltorb/arena/internal/battle/storage"
	"github.com/voltorb/arena/internal/battle/storage/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.BattleStore {
		return New()
	})
}

func TestStoreIsolatesStoredState(t *testing.T) {
	store := New()
	ctx := context.Background()

	rec := storage.BattleRecord{ID: "b1"}
	rec.State.BattleID = "b1"
	rec.State.Sides[0].PlayerID = "p1"
	if err := store.CreateBattle(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetBattle(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.State.Sides[0].PlayerID = "tampered"

	again, err := store.GetBattle(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.State.Sides[0].PlayerID != "p1" {
		t.Fatal("mutating a returned record must not affect stored state")
	}
}
