package main

import (
	"fmt"

	"github.com/artpar/onmodelcreating/core/modelcreating"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify entity types and run the model creating pass",
	Long: `Run the model creating pass and print what happened to each entity type.

An entity type is invoked when it declares OnModelCreating for itself,
skipped when it declares nothing, and failed when its declaration is bound
to a different type.

Examples:
  modelctl check
  modelctl check --config /etc/modelctl.yaml`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	_, report, buildErr := a.BuildModel(registerModel)
	out := cmd.OutOrStdout()

	if report != nil {
		fmt.Fprintf(out, "Pass %s\n\n", report.PassID)
		for _, o := range report.Outcomes {
			mark := checkMark
			if o.State == modelcreating.StateFailed {
				mark = crossMark
			}

			line := fmt.Sprintf("  %s %-32s %s", mark, o.Entity, o.State)
			if o.Note != "" {
				line += fmt.Sprintf(" (%s)", o.Note)
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "\n%d invoked, %d skipped, %d failed\n", report.Invoked, report.Skipped, report.Failed)
	}

	if err := a.FlushMetrics(); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to write metrics")
	}

	if buildErr != nil {
		return fmt.Errorf("model invalid: %w", buildErr)
	}
	return nil
}
