package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create the model's tables in the database",
	Long: `Build the model and create its tables and indexes.

Existing tables are left untouched.

Examples:
  modelctl apply
  modelctl apply --dsn ./catalog.db`,
	RunE: runApply,
}

var applyDSN string

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyDSN, "dsn", "", "database path (overrides config)")
}

func runApply(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if applyDSN != "" {
		a.Config.Database.DSN = applyDSN
	}

	m, _, err := a.BuildModel(registerModel)
	if err != nil {
		return fmt.Errorf("model invalid: %w", err)
	}

	if err := a.ApplySchema(cmd.Context(), m); err != nil {
		return err
	}

	if err := a.FlushMetrics(); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to write metrics")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s %d tables ensured in %s\n", checkMark, len(m.Entities()), a.Config.Database.DSN)
	return nil
}
