package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/tracker/internal/game/bestiary"
)

var searchLimit int

var bestiaryCmd = &cobra.Command{
	Use:   "bestiary",
	Short: "Inspect and convert the creature database",
}

var bestiarySearchCmd = &cobra.Command{
	Use:   "search <prefix>",
	Short: "List creatures whose name starts with prefix, best match first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openBestiary()
		if err != nil {
			return err
		}
		res := db.Resolve(args[0])
		if res.Empty() {
			fmt.Fprintf(cmd.OutOrStdout(), "`%s`: not in database\n", args[0])
			return nil
		}
		for _, e := range res.Top(searchLimit) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s AC %-3d init %+d  hp %-10s %s\n", e.Name, e.ArmorClass, e.InitMod, e.HealthRoll, e.Type)
		}
		return nil
	},
}

var bestiaryExportCmd = &cobra.Command{
	Use:   "export <out.yaml>",
	Short: "Write the configured bestiary in YAML format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openBestiary()
		if err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %q: %w", args[0], err)
		}
		if err := bestiary.WriteYAML(f, db); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", db.Len(), args[0])
		return nil
	},
}

func init() {
	bestiarySearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of matches to print")

	bestiaryCmd.AddCommand(bestiarySearchCmd)
	bestiaryCmd.AddCommand(bestiaryExportCmd)
}

func openBestiary() (*bestiary.Database, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()
	db, err := loadBestiary(cfg.Data, logger)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("no bestiary configured or found")
	}
	return db, nil
}
