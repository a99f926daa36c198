// Package main applies the encounter store schema to the configured PostgreSQL database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cory-johannsen/tracker/internal/config"
)

// errNotPostgres is returned when the configuration selects a backend that
// has no schema to migrate.
var errNotPostgres = errors.New("storage.backend is not postgres, nothing to migrate")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	start := time.Now()

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "configs/tracker.yaml", "path to configuration file")
	direction := fs.String("direction", "up", "migration direction: up, down or version")
	steps := fs.Int("steps", 0, "number of steps (0 = all)")
	dir := fs.String("path", "migrations", "directory holding the migration files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch *direction {
	case "up", "down", "version":
	default:
		return fmt.Errorf("invalid direction %q: must be 'up', 'down' or 'version'", *direction)
	}
	if *steps < 0 {
		return fmt.Errorf("invalid steps %d: must be >= 0", *steps)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Storage.Backend != config.BackendPostgres {
		return fmt.Errorf("%w (got %q)", errNotPostgres, cfg.Storage.Backend)
	}

	source, err := filepath.Abs(*dir)
	if err != nil {
		return fmt.Errorf("resolving migrations path: %w", err)
	}
	m, err := migrate.New("file://"+filepath.ToSlash(source), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		fmt.Fprintf(out, "no migrations applied to %s [%s]\n", cfg.Database.Name, time.Since(start))
		return nil
	}
	if verr != nil {
		return fmt.Errorf("reading version: %w", verr)
	}

	switch {
	case *direction == "version":
		fmt.Fprintf(out, "%s at version=%d dirty=%v [%s]\n", cfg.Database.Name, version, dirty, time.Since(start))
	case errors.Is(err, migrate.ErrNoChange):
		fmt.Fprintf(out, "no changes (version=%d dirty=%v) [%s]\n", version, dirty, time.Since(start))
	default:
		fmt.Fprintf(out, "migrated %s to version=%d dirty=%v [%s]\n", *direction, version, dirty, time.Since(start))
	}
	return nil
}
