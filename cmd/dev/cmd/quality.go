package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

func TestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run unit tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Test(); err != nil {
				return fmt.Errorf("failed to run tests: %w", err)
			}
			return nil
		},
	}
}

func LintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run linters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
}

// CheckCmd runs lint and unit tests in one go, stopping at the first failure.
func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run linters and unit tests",
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("linting")
			if err := test.Lint(); err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}
			slog.Info("testing")
			if err := test.Test(); err != nil {
				return fmt.Errorf("tests failed: %w", err)
			}
			return nil
		},
	}
}
