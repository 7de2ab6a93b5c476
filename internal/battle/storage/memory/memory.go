// Package memory provides an in-memory battle store for tests and the demo
// command.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/storage"
)

// Store keeps battles and turn logs in process memory.
type Store struct {
	mu      sync.RWMutex
	battles map[string]storage.BattleRecord
	turns   map[string][]domain.TurnRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{
		battles: make(map[string]storage.BattleRecord),
		turns:   make(map[string][]domain.TurnRecord),
	}
}

// CreateBattle stores a new battle, failing if the ID is taken.
func (s *Store) CreateBattle(ctx context.Context, rec storage.BattleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.battles[rec.ID]; ok {
		return storage.ErrAlreadyExists
	}
	rec.Version = 1
	s.battles[rec.ID] = cloneRecord(rec)
	return nil
}

// GetBattle returns the battle with the given ID.
func (s *Store) GetBattle(ctx context.Context, id string) (storage.BattleRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BattleRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.battles[id]
	if !ok {
		return storage.BattleRecord{}, storage.ErrNotFound
	}
	return cloneRecord(rec), nil
}

// UpdateBattle persists the new state when the stored version matches and
// appends the turn records atomically.
func (s *Store) UpdateBattle(ctx context.Context, rec storage.BattleRecord, turns []domain.TurnRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.battles[rec.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != rec.Version {
		return storage.ErrVersionConflict
	}

	rec.Version++
	rec.CreatedAt = stored.CreatedAt
	s.battles[rec.ID] = cloneRecord(rec)

	log := s.turns[rec.ID]
	for _, turn := range turns {
		if n := len(log); n > 0 && log[n-1].TurnNumber == turn.TurnNumber {
			log[n-1].Events = append(log[n-1].Events, turn.Events...)
			continue
		}
		copied := turn
		copied.Events = append([]string(nil), turn.Events...)
		log = append(log, copied)
	}
	s.turns[rec.ID] = log
	return nil
}

// ListTurnRecords returns the turn log in order. lastN > 0 limits the result
// to the final lastN turns.
func (s *Store) ListTurnRecords(ctx context.Context, battleID string, lastN int) ([]domain.TurnRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.battles[battleID]; !ok {
		return nil, storage.ErrNotFound
	}

	log := s.turns[battleID]
	if lastN > 0 && lastN < len(log) {
		log = log[len(log)-lastN:]
	}
	out := make([]domain.TurnRecord, len(log))
	for i, turn := range log {
		out[i] = turn
		out[i].Events = append([]string(nil), turn.Events...)
	}
	return out, nil
}

// ListBattlesByPlayer returns battles where the player controls a side,
// newest first.
func (s *Store) ListBattlesByPlayer(ctx context.Context, playerID string) ([]storage.BattleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.BattleRecord
	for _, rec := range s.battles {
		if rec.State.Sides[0].PlayerID == playerID || rec.State.Sides[1].PlayerID == playerID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteBattle removes the battle and its turn log.
func (s *Store) DeleteBattle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.battles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.battles, id)
	delete(s.turns, id)
	return nil
}

// cloneRecord deep-copies the mutable parts of a record so callers cannot
// alias stored state.
func cloneRecord(rec storage.BattleRecord) storage.BattleRecord {
	st := rec.State
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
		st.Sides[i] = side
	}
	for i, act := range rec.State.Pending {
		if act != nil {
			copied := *act
			st.Pending[i] = &copied
		}
	}
	rec.State = st
	return rec
}

var _ storage.BattleStore = (*Store)(nil)
