// Package storage defines the persistence contract for battles and their
// append-only turn logs.
package storage

import (
	"context"
	"time"

	"github.com/voltorb/arena/internal/battle/domain"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such battle" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrAlreadyExists indicates a create collided with an existing battle ID.
var ErrAlreadyExists = apperrors.New(apperrors.CodeStoreConflict, "battle already exists")

// ErrVersionConflict indicates an update lost a concurrent write race: the
// stored version no longer matches the version the caller read.
var ErrVersionConflict = apperrors.New(apperrors.CodeStoreConflict, "battle version conflict")

// BattleRecord is the persisted battle with its optimistic-concurrency
// version. Version starts at 1 on create and increments on every update.
type BattleRecord struct {
	ID        string
	State     domain.State
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BattleStore owns battle lifecycle and the append-only turn log.
//
// UpdateBattle is conditional: it succeeds only when the stored version
// equals rec.Version, then persists the new state with rec.Version+1 and
// appends the given turn records in one atomic step. Turn records append
// with strictly increasing turn numbers per battle; events for a turn that
// already has a record append to that record.
type BattleStore interface {
	CreateBattle(ctx context.Context, rec BattleRecord) error
	GetBattle(ctx context.Context, id string) (BattleRecord, error)
	UpdateBattle(ctx context.Context, rec BattleRecord, turns []domain.TurnRecord) error
	ListTurnRecords(ctx context.Context, battleID string, lastN int) ([]domain.TurnRecord, error)
	ListBattlesByPlayer(ctx context.Context, playerID string) ([]BattleRecord, error)
	DeleteBattle(ctx context.Context, id string) error
}
