// Package main provides the tracker binary: an interactive initiative and
// encounter manager with a few offline subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tracker/internal/config"
	"github.com/cory-johannsen/tracker/internal/encounter"
	"github.com/cory-johannsen/tracker/internal/engine"
	"github.com/cory-johannsen/tracker/internal/frontend/history"
	"github.com/cory-johannsen/tracker/internal/frontend/render"
	"github.com/cory-johannsen/tracker/internal/frontend/shell"
	"github.com/cory-johannsen/tracker/internal/game/bestiary"
	"github.com/cory-johannsen/tracker/internal/game/command"
	"github.com/cory-johannsen/tracker/internal/game/dice"
	"github.com/cory-johannsen/tracker/internal/game/session"
	"github.com/cory-johannsen/tracker/internal/observability"
	"github.com/cory-johannsen/tracker/internal/scripting"
	"github.com/cory-johannsen/tracker/internal/storage/postgres"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Initiative and encounter tracker",
	Long: `tracker keeps the turn order of a tabletop combat encounter, rolls
initiative each round and saves encounters between sessions.`,
	SilenceUsage: true,
	RunE:         runSession,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (defaults and TRACKER_* environment when empty)")

	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(bestiaryCmd)
}

// setup loads configuration and builds the session logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger.With(zap.String("session", uuid.NewString())), nil
}

// loadBestiary reads the configured bestiary. A missing source yields an
// empty database.
func loadBestiary(cfg config.DataConfig, logger *zap.Logger) (*bestiary.Database, error) {
	if cfg.Bestiary == "" {
		return nil, nil
	}
	start := time.Now()
	db, skipped, err := bestiary.Load(cfg.Bestiary, logger)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("bestiary not found, continuing without one", zap.String("path", cfg.Bestiary))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info("bestiary loaded",
		zap.String("path", cfg.Bestiary),
		zap.Int("entries", db.Len()),
		zap.Int("skipped", len(skipped)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return db, nil
}

// openStore returns the configured encounter store and a function releasing it.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (encounter.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ready(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("checking database %s: %w", cfg.Database.Name, err)
		}
		logger.Info("using postgres encounter store",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Name),
			zap.Duration("connect_timeout", cfg.Database.ConnectTimeout),
		)
		return pool.Encounters(), pool.Close, nil
	default:
		logger.Info("using file encounter store", zap.String("dir", cfg.Data.Dir))
		return encounter.NewFileStore(cfg.Data.Dir), func() {}, nil
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := loadBestiary(cfg.Data, logger)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	st := session.New(db, dice.NewLoggedRoller(dice.NewCryptoSource(), logger))
	eng := engine.New(engine.Deps{
		State:      st,
		Encounters: encounter.NewManager(store, logger),
		Registry:   command.DefaultRegistry(),
		Screen:     render.NewScreen(os.Stdout, true),
		History:    history.New(cfg.Session.HistorySize),
		Picker:     history.NewTeaPicker(os.Stdin, os.Stdout),
		Shell:      shell.NewExecRunner(os.Stdin, os.Stdout, os.Stderr),
		Scripts:    scripting.NewManager(cfg.Session.ScriptInstructionLimit, logger),
		In:         os.Stdin,
		Out:        os.Stdout,
		Prompt:     cfg.Session.Prompt,
		Autosave:   cfg.Session.Autosave,
		Players:    cfg.Session.Players,
		Logger:     logger,
	})

	logger.Info("session starting", zap.String("backend", cfg.Storage.Backend))
	eng.Start(ctx)
	if err := eng.Run(ctx); err != nil {
		return err
	}
	logger.Info("session ended", zap.Int("rounds", st.Round), zap.Int("roster", st.Roster.Len()))
	return nil
}
