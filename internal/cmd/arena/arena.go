// Package arena parses arena command flags and runs a demo battle against
// an automated opponent, printing each turn's events.
package arena

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/voltorb/arena/internal/battle/engine/scripted"
	"github.com/voltorb/arena/internal/battle/service"
	"github.com/voltorb/arena/internal/battle/storage"
	"github.com/voltorb/arena/internal/battle/storage/memory"
	"github.com/voltorb/arena/internal/battle/storage/sqlite"
	"github.com/voltorb/arena/internal/platform/config"
)

// Config holds arena command configuration.
type Config struct {
	// StoragePath selects the SQLite database file. Empty runs in memory.
	StoragePath string `env:"ARENA_STORAGE_PATH"`
	PlayerName  string `env:"ARENA_PLAYER_NAME" envDefault:"Red"`
	TeamID      string `env:"ARENA_TEAM_ID" envDefault:"starter-electric"`
	OpponentID  string `env:"ARENA_OPPONENT_ID" envDefault:"youngster-joey"`
	MaxTurns    int    `env:"ARENA_MAX_TURNS" envDefault:"50"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "SQLite database path (empty for in-memory)")
	fs.StringVar(&cfg.PlayerName, "player", cfg.PlayerName, "Display name of the demo player")
	fs.StringVar(&cfg.TeamID, "team", cfg.TeamID, "Prefab team id")
	fs.StringVar(&cfg.OpponentID, "opponent", cfg.OpponentID, "Automated opponent id")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "Abort the demo after this many submissions")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays one battle to completion, always taking the first valid action.
func Run(ctx context.Context, cfg Config) error {
	var store storage.BattleStore
	if cfg.StoragePath != "" {
		sqlStore, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer sqlStore.Close()
		store = sqlStore
	} else {
		store = memory.New()
	}

	svc := service.New(store, scripted.New())

	rec, err := svc.CreateMatch(ctx, service.CreateMatchInput{
		PlayerID:   "demo-player",
		PlayerName: cfg.PlayerName,
		TeamID:     cfg.TeamID,
		OpponentID: cfg.OpponentID,
	})
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	log.Printf("battle %s: %s vs %s", rec.ID, cfg.PlayerName, rec.State.Sides[1].PlayerName)

	for i := 0; i < cfg.MaxTurns; i++ {
		view, err := svc.GetView(ctx, rec.ID, "demo-player")
		if err != nil {
			return fmt.Errorf("get view: %w", err)
		}
		if strings.HasSuffix(view.Phase, "VICTORY") || view.Phase == "DRAW" {
			log.Printf("battle over: %s", view.Phase)
			return nil
		}

		actions, err := svc.GetValidActions(ctx, rec.ID, "demo-player")
		if err != nil {
			return fmt.Errorf("get valid actions: %w", err)
		}
		if len(actions) == 0 {
			return fmt.Errorf("no valid actions in phase %s", view.Phase)
		}

		result, err := svc.SubmitAction(ctx, rec.ID, "demo-player", actions[0])
		if err != nil {
			return fmt.Errorf("submit action: %w", err)
		}
		for _, turn := range result.Turns {
			log.Printf("--- turn %d ---", turn.TurnNumber)
			for _, event := range turn.Events {
				log.Printf("  %s", event)
			}
		}
	}
	return fmt.Errorf("battle did not conclude within %d submissions", cfg.MaxTurns)
}
