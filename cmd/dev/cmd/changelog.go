package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate CHANGELOG.md from conventional commits",
		Long: `Generate CHANGELOG.md with git-chglog.

Install it with:
  go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest

Examples:
  dev changelog
  dev changelog --next v0.2.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			next, _ := cmd.Flags().GetString("next")
			tag, _ := cmd.Flags().GetString("tag")

			if _, err := exec.LookPath("git-chglog"); err != nil {
				return fmt.Errorf("git-chglog not installed: %w", err)
			}
			chglogArgs := changelogArgs(output, next, tag)
			slog.Info("running git-chglog", "args", chglogArgs)
			gitChglog := exec.Command("git-chglog", chglogArgs...)
			gitChglog.Stdout = os.Stdout
			gitChglog.Stderr = os.Stderr
			if err := gitChglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("changelog generated", "output", output)
			return nil
		},
	}
	cmd.Flags().String("next", "", "next version tag (e.g. v0.2.0)")
	cmd.Flags().String("output", "CHANGELOG.md", "output file path")
	cmd.Flags().String("tag", "", "generate changelog for a specific tag")
	return cmd
}

func changelogArgs(output, next, tag string) []string {
	if output == "" {
		output = "CHANGELOG.md"
	}
	var args []string
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	args = append(args, "--output", output)
	if tag != "" {
		args = append(args, tag)
	}
	return args
}
