// Package service composes the battle engine, driver, projections and
// storage into the player-facing battle API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/driver"
	"github.com/voltorb/arena/internal/battle/engine"
	"github.com/voltorb/arena/internal/battle/npc"
	"github.com/voltorb/arena/internal/battle/projection"
	"github.com/voltorb/arena/internal/battle/roster"
	"github.com/voltorb/arena/internal/battle/storage"
	apperrors "github.com/voltorb/arena/internal/platform/errors"
	"github.com/voltorb/arena/internal/platform/id"
	"github.com/voltorb/arena/internal/platform/random"
	"github.com/voltorb/arena/internal/platform/timeouts"
)

// Service is the battle orchestration API.
type Service struct {
	store       storage.BattleStore
	engine      engine.Engine
	driver      *driver.Driver
	clock       func() time.Time
	idGenerator func() (string, error)
	logger      *log.Logger
}

// Option overrides a Service dependency.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator replaces the battle ID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.idGenerator = gen }
}

// WithLogger replaces the defect logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDriver replaces the resolution driver.
func WithDriver(d *driver.Driver) Option {
	return func(s *Service) { s.driver = d }
}

// New creates a Service with default dependencies.
func New(store storage.BattleStore, eng engine.Engine, opts ...Option) *Service {
	s := &Service{
		store:       store,
		engine:      eng,
		clock:       time.Now,
		idGenerator: id.NewID,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.driver == nil {
		s.driver = driver.New(eng, npc.New(eng), random.NewSeed)
	}
	return s
}

// CreateBattleInput names both players and their teams.
type CreateBattleInput struct {
	PlayerAID   string
	PlayerAName string
	TeamA       []domain.TeamPokemon
	PlayerBID   string
	PlayerBName string
	TeamB       []domain.TeamPokemon
}

// CreateBattle starts a battle between two human players.
func (s *Service) CreateBattle(ctx context.Context, in CreateBattleInput) (storage.BattleRecord, error) {
	return s.createBattle(ctx,
		engine.SideConfig{PlayerID: in.PlayerAID, PlayerName: in.PlayerAName, Team: in.TeamA},
		engine.SideConfig{PlayerID: in.PlayerBID, PlayerName: in.PlayerBName, Team: in.TeamB},
	)
}

// CreateMatchInput names the player, their prefab team, and the automated
// opponent to face.
type CreateMatchInput struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	OpponentID string
}

// CreateMatch starts a battle between a player using a prefab team and an
// automated opponent.
func (s *Service) CreateMatch(ctx context.Context, in CreateMatchInput) (storage.BattleRecord, error) {
	team, err := roster.TeamByID(in.TeamID)
	if err != nil {
		return storage.BattleRecord{}, err
	}
	opponent, err := roster.OpponentByID(in.OpponentID)
	if err != nil {
		return storage.BattleRecord{}, err
	}

	return s.createBattle(ctx,
		engine.SideConfig{PlayerID: in.PlayerID, PlayerName: in.PlayerName, Team: team.Pokemon},
		engine.SideConfig{PlayerID: opponent.ID, PlayerName: opponent.Name, Automated: true, Team: opponent.Pokemon},
	)
}

func (s *Service) createBattle(ctx context.Context, sideA, sideB engine.SideConfig) (storage.BattleRecord, error) {
	if sideA.PlayerID == "" || sideB.PlayerID == "" {
		return storage.BattleRecord{}, apperrors.New(apperrors.CodeValidation, "player id is required for both sides")
	}
	if sideA.PlayerID == sideB.PlayerID {
		return storage.BattleRecord{}, apperrors.New(apperrors.CodeValidation, "players must be distinct")
	}

	battleID, err := s.idGenerator()
	if err != nil {
		return storage.BattleRecord{}, apperrors.Wrap(apperrors.CodeInternal, "generate battle id", err)
	}

	st, err := s.engine.NewBattle(battleID, sideA, sideB)
	if err != nil {
		return storage.BattleRecord{}, err
	}

	now := s.clock().UTC()
	rec := storage.BattleRecord{
		ID:        battleID,
		State:     st,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()
	if err := s.store.CreateBattle(ctx, rec); err != nil {
		return storage.BattleRecord{}, err
	}
	return rec, nil
}

// SubmitActionResult is the outcome of one action submission: the player's
// refreshed view and the events of every turn that resolved.
type SubmitActionResult struct {
	View  projection.PlayerView
	Turns []domain.TurnRecord
}

// SubmitAction records the player's action and advances the battle as far as
// it can go without further player input. The state write is conditional on
// the version read at the start, so two racing submissions cannot both win.
func (s *Service) SubmitAction(ctx context.Context, battleID, playerID string, action domain.Action) (SubmitActionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Submission)
	defer cancel()

	rec, side, err := s.load(ctx, battleID, playerID)
	if err != nil {
		return SubmitActionResult{}, err
	}

	next, groups, err := s.driver.Advance(rec.State, side, action)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeInternal) {
			s.logger.Printf("battle %s: resolution defect: %v", battleID, err)
		}
		return SubmitActionResult{}, err
	}

	now := s.clock().UTC()
	turns := make([]domain.TurnRecord, 0, len(groups))
	for _, g := range groups {
		turns = append(turns, domain.TurnRecord{
			TurnNumber: g.TurnNumber,
			Events:     g.Events,
			RecordedAt: now,
		})
	}

	rec.State = next
	rec.UpdatedAt = now
	if err := s.store.UpdateBattle(ctx, rec, turns); err != nil {
		return SubmitActionResult{}, err
	}

	return SubmitActionResult{
		View:  projection.ViewFor(&next, side),
		Turns: turns,
	}, nil
}

// GetView returns the player-scoped projection of the battle.
func (s *Service) GetView(ctx context.Context, battleID, playerID string) (projection.PlayerView, error) {
	rec, side, err := s.load(ctx, battleID, playerID)
	if err != nil {
		return projection.PlayerView{}, err
	}
	return projection.ViewFor(&rec.State, side), nil
}

// GetValidActions returns the actions the player may submit right now. The
// list is empty when the phase does not accept input from the player.
func (s *Service) GetValidActions(ctx context.Context, battleID, playerID string) ([]domain.Action, error) {
	rec, side, err := s.load(ctx, battleID, playerID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(&rec.State, side) {
		return []domain.Action{}, nil
	}
	return s.engine.LegalActions(&rec.State, side), nil
}

// GetEvents returns the battle's turn log. lastN > 0 limits the result to
// the final lastN turns.
func (s *Service) GetEvents(ctx context.Context, battleID, playerID string, lastN int) ([]domain.TurnRecord, error) {
	if lastN < 0 {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("last_n_turns must not be negative, got %d", lastN))
	}
	if _, _, err := s.load(ctx, battleID, playerID); err != nil {
		return nil, err
	}
	opCtx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()
	return s.store.ListTurnRecords(opCtx, battleID, lastN)
}

// ListBattles returns the player's battles, newest first.
func (s *Service) ListBattles(ctx context.Context, playerID string) ([]storage.BattleRecord, error) {
	return s.store.ListBattlesByPlayer(ctx, playerID)
}

// DeleteBattle removes a battle the player participates in.
func (s *Service) DeleteBattle(ctx context.Context, battleID, playerID string) error {
	if _, _, err := s.load(ctx, battleID, playerID); err != nil {
		return err
	}
	return s.store.DeleteBattle(ctx, battleID)
}

// ListPrefabTeams lists the teams players can pick from.
func (s *Service) ListPrefabTeams() []roster.Team {
	return roster.Teams()
}

// ListOpponents lists the automated opponents players can face.
func (s *Service) ListOpponents() []roster.Opponent {
	return roster.Opponents()
}

// load fetches the battle and resolves the player's side, rejecting players
// who control neither side.
func (s *Service) load(ctx context.Context, battleID, playerID string) (storage.BattleRecord, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreOp)
	defer cancel()

	rec, err := s.store.GetBattle(ctx, battleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.BattleRecord{}, 0, apperrors.WithMetadata(apperrors.CodeNotFound,
				fmt.Sprintf("battle %s not found", battleID),
				map[string]string{"battle_id": battleID})
		}
		return storage.BattleRecord{}, 0, err
	}

	side, ok := rec.State.SideIndex(playerID)
	if !ok {
		return storage.BattleRecord{}, 0, apperrors.WithMetadata(apperrors.CodeUnauthorized,
			"player is not part of this battle",
			map[string]string{"battle_id": battleID, "player_id": playerID})
	}
	return rec, side, nil
}
