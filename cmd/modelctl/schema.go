package main

import (
	"fmt"

	"github.com/artpar/onmodelcreating/core/storage"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the SQLite DDL for the model",
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	m, _, err := a.BuildModel(registerModel)
	if err != nil {
		return fmt.Errorf("model invalid: %w", err)
	}

	for _, stmt := range storage.BuildSchemaSQL(m) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
	}
	return nil
}
