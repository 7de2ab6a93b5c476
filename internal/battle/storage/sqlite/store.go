// Package sqlite provides a SQLite-backed battle storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/voltorb/arena/internal/battle/domain"
	"github.com/voltorb/arena/internal/battle/storage"
	"github.com/voltorb/arena/internal/battle/storage/sqlite/migrations"
	sqlitemigrate "github.com/voltorb/arena/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists battles and turn logs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite battle store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateBattle stores a new battle at version 1. The insert is conditional
// on the ID not existing.
func (s *Store) CreateBattle(ctx context.Context, rec storage.BattleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("battle id is required")
	}

	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal battle state: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO battles (id, side_a_player_id, side_b_player_id, phase, turn_number, state_json, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		rec.ID,
		rec.State.Sides[0].PlayerID,
		rec.State.Sides[1].PlayerID,
		rec.State.Phase.String(),
		rec.State.TurnNumber,
		string(stateJSON),
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create battle: %w", err)
	}
	return nil
}

// GetBattle returns the battle with the given ID.
func (s *Store) GetBattle(ctx context.Context, id string) (storage.BattleRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BattleRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.BattleRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, state_json, version, created_at, updated_at FROM battles WHERE id = ?`,
		id,
	)
	return scanBattle(row)
}

func scanBattle(row *sql.Row) (storage.BattleRecord, error) {
	var rec storage.BattleRecord
	var stateJSON string
	var createdAt, updatedAt int64
	err := row.Scan(&rec.ID, &stateJSON, &rec.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BattleRecord{}, storage.ErrNotFound
		}
		return storage.BattleRecord{}, fmt.Errorf("get battle: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return storage.BattleRecord{}, fmt.Errorf("unmarshal battle state: %w", err)
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

// UpdateBattle persists the new state when the stored version matches
// rec.Version and appends the turn records in the same transaction.
func (s *Store) UpdateBattle(ctx context.Context, rec storage.BattleRecord, turns []domain.TurnRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal battle state: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update battle: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(
		ctx,
		`UPDATE battles
		 SET state_json = ?, phase = ?, turn_number = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		string(stateJSON),
		rec.State.Phase.String(),
		rec.State.TurnNumber,
		toMillis(rec.UpdatedAt),
		rec.ID,
		rec.Version,
	)
	if err != nil {
		return fmt.Errorf("update battle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update battle rows: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM battles WHERE id = ?`, rec.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check battle exists: %w", err)
		}
		if exists == 0 {
			return storage.ErrNotFound
		}
		return storage.ErrVersionConflict
	}

	for _, turn := range turns {
		if err := appendTurn(ctx, tx, rec.ID, turn); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update battle: %w", err)
	}
	return nil
}

// appendTurn inserts a turn record, merging events into an existing record
// for the same turn number.
func appendTurn(ctx context.Context, tx *sql.Tx, battleID string, turn domain.TurnRecord) error {
	var existingJSON string
	err := tx.QueryRowContext(
		ctx,
		`SELECT events_json FROM turn_log WHERE battle_id = ? AND turn_number = ?`,
		battleID,
		turn.TurnNumber,
	).Scan(&existingJSON)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		eventsJSON, err := json.Marshal(turn.Events)
		if err != nil {
			return fmt.Errorf("marshal turn events: %w", err)
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO turn_log (battle_id, turn_number, events_json, recorded_at)
			 VALUES (?, ?, ?, ?)`,
			battleID,
			turn.TurnNumber,
			string(eventsJSON),
			toMillis(turn.RecordedAt),
		)
		if err != nil {
			return fmt.Errorf("insert turn record: %w", err)
		}
		return nil

	case err != nil:
		return fmt.Errorf("read turn record: %w", err)

	default:
		var events []string
		if err := json.Unmarshal([]byte(existingJSON), &events); err != nil {
			return fmt.Errorf("unmarshal turn events: %w", err)
		}
		events = append(events, turn.Events...)
		merged, err := json.Marshal(events)
		if err != nil {
			return fmt.Errorf("marshal turn events: %w", err)
		}
		_, err = tx.ExecContext(
			ctx,
			`UPDATE turn_log SET events_json = ? WHERE battle_id = ? AND turn_number = ?`,
			string(merged),
			battleID,
			turn.TurnNumber,
		)
		if err != nil {
			return fmt.Errorf("merge turn record: %w", err)
		}
		return nil
	}
}

// ListTurnRecords returns the battle's turn log in turn order. lastN > 0
// limits the result to the final lastN turns.
func (s *Store) ListTurnRecords(ctx context.Context, battleID string, lastN int) ([]domain.TurnRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var exists int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(1) FROM battles WHERE id = ?`, battleID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check battle exists: %w", err)
	}
	if exists == 0 {
		return nil, storage.ErrNotFound
	}

	query := `SELECT turn_number, events_json, recorded_at FROM turn_log WHERE battle_id = ? ORDER BY turn_number`
	args := []any{battleID}
	if lastN > 0 {
		// Select the suffix, then flip back to ascending order.
		query = `SELECT turn_number, events_json, recorded_at FROM (
		           SELECT turn_number, events_json, recorded_at FROM turn_log
		           WHERE battle_id = ? ORDER BY turn_number DESC LIMIT ?
		         ) ORDER BY turn_number`
		args = append(args, lastN)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list turn records: %w", err)
	}
	defer rows.Close()

	var out []domain.TurnRecord
	for rows.Next() {
		var turn domain.TurnRecord
		var eventsJSON string
		var recordedAt int64
		if err := rows.Scan(&turn.TurnNumber, &eventsJSON, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan turn record: %w", err)
		}
		if err := json.Unmarshal([]byte(eventsJSON), &turn.Events); err != nil {
			return nil, fmt.Errorf("unmarshal turn events: %w", err)
		}
		turn.RecordedAt = fromMillis(recordedAt)
		out = append(out, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read turn records: %w", err)
	}
	return out, nil
}

// ListBattlesByPlayer returns battles where the player controls a side,
// newest first.
func (s *Store) ListBattlesByPlayer(ctx context.Context, playerID string) ([]storage.BattleRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, state_json, version, created_at, updated_at FROM battles
		 WHERE side_a_player_id = ? OR side_b_player_id = ?
		 ORDER BY created_at DESC, id`,
		playerID,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var out []storage.BattleRecord
	for rows.Next() {
		var rec storage.BattleRecord
		var stateJSON string
		var createdAt, updatedAt int64
		if err := rows.Scan(&rec.ID, &stateJSON, &rec.Version, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
			return nil, fmt.Errorf("unmarshal battle state: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		rec.UpdatedAt = fromMillis(updatedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read battles: %w", err)
	}
	return out, nil
}

// DeleteBattle removes the battle; the turn log cascades.
func (s *Store) DeleteBattle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM battles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete battle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete battle rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// isUniqueConstraintError detects a primary key collision on insert.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ storage.BattleStore = (*Store)(nil)
