package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

const (
	binaryPath  = "dist/oxygen"
	mainPackage = "./cmd/oxygen"
	buildImage  = "gophertribe/gobuild:1.25-bookworm"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the oxygen cli",
		Long: `Build the oxygen cli into dist/oxygen.

Native builds run go build directly. Builds for another os/arch pair run inside
the gobuild docker image because the HID bridge needs cgo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			targetOS, _ := cmd.Flags().GetString("os")
			targetArch, _ := cmd.Flags().GetString("arch")
			version, _ := cmd.Flags().GetString("version")
			crossOS, _ := cmd.Flags().GetString("cross-os")
			crossArch, _ := cmd.Flags().GetString("cross-arch")

			if targetOS == runtime.GOOS && targetArch == runtime.GOARCH {
				if crossOS != "" && crossArch != "" {
					targetOS, targetArch = crossOS, crossArch
				}
				slog.Info("building", "package", mainPackage, "os", targetOS, "arch", targetArch, "version", version)
				return build.GoBuild(binaryPath, mainPackage, build.GoBuildOpts{
					Version:       version,
					InjectVersion: true,
					ConfigPackage: "main",
					EnableCgo:     true,
					Arch:          targetArch,
					OS:            targetOS,
				})
			}

			noCache, err := cmd.Flags().GetBool("no-cache")
			if err != nil {
				return fmt.Errorf("could not get no-cache flag: %w", err)
			}
			slog.Info("building in docker", "image", buildImage, "os", targetOS, "arch", targetArch)
			return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", targetOS, targetArch),
				[]string{"build", "--version", version, "--cross-os", crossOS, "--cross-arch", crossArch},
				build.DockerBuildOpts{
					NoCache: noCache,
					Image:   buildImage,
				})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building in docker")
	cmd.Flags().String("version", "latest", "version of the cli")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	return cmd
}
