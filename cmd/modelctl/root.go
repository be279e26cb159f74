package main

import (
	"fmt"
	"os"

	"github.com/artpar/onmodelcreating/bootstrap"
	"github.com/artpar/onmodelcreating/config"
	"github.com/artpar/onmodelcreating/domain/catalog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// Registered entity types. Tests replace it.
var registerModel bootstrap.RegisterFunc = catalog.Register

const (
	checkMark = "✓"
	crossMark = "✗"
)

var rootCmd = &cobra.Command{
	Use:   "modelctl",
	Short: "Build and inspect the entity model",
	Long: `modelctl builds the persistence model from the registered entity types.

Each entity type may configure its own mapping by declaring
OnModelCreating(*model.EntityTypeBuilder[Self]). A declaration bound to any
other type fails the build.

Commands:
  modelctl check    # Classify entity types and run the pass
  modelctl schema   # Print the generated DDL
  modelctl apply    # Create tables in the configured database`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "modelctl.yaml", "config file path")
}

// newApp loads configuration and creates the application. Logs go to the
// command's error stream.
func newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return bootstrap.New(cfg, cmd.ErrOrStderr()), nil
}
