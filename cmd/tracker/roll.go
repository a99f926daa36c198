package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/tracker/internal/game/dice"
)

var rollCmd = &cobra.Command{
	Use:   "roll <expr>...",
	Short: "Evaluate dice expressions",
	Example: `  tracker roll 1d20+5
  tracker roll 2d8+3-1 4d6`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
		for _, expr := range args {
			res, err := roller.RollExpr(expr)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", expr, res)
		}
		return nil
	},
}
