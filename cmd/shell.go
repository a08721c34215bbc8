package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/launcher"
)

var shellCmd = &cobra.Command{
	Use:   "shell [-- docker args...]",
	Short: "Open a shell in a Wolfi base container",
	Long: `Runs the Wolfi base image interactively with the project mounted at /work.

The project is the working directory when its Makefile has a local-wolfi
target; otherwise the sources are fetched into a new sandbox first.
Arguments after -- are passed to docker run.`,
	RunE: launchVariant(launcher.Shell),
}

var sdkShellCmd = &cobra.Command{
	Use:   "sdk-shell [-- make args...]",
	Short: "Enter the Wolfi SDK development container",
	Long: `Pulls the Wolfi SDK image and runs "make dev-container-wolfi" in the
project. Arguments after -- are passed to make.`,
	RunE: launchVariant(launcher.SDK),
}

var localShellCmd = &cobra.Command{
	Use:   "local-shell [-- make args...]",
	Short: "Enter the local Wolfi build environment",
	Long: `Pulls the Wolfi SDK image, prepares packages/ and a local melange signing
key, then runs "make local-wolfi" in the project. Arguments after -- are
passed to make.`,
	RunE: launchVariant(launcher.Local),
}

// variantTools lists the host tools each launcher needs beyond the
// container runtime, which is resolved separately.
var variantTools = map[launcher.Variant][]string{
	launcher.Shell: {"git"},
	launcher.SDK:   {"git", "make"},
	launcher.Local: {"git", "make", "melange"},
}

func init() {
	rootCmd.AddCommand(shellCmd, sdkShellCmd, localShellCmd)
}

func launchVariant(v launcher.Variant) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireTools(variantTools[v]...); err != nil {
			return err
		}

		a := current()
		l, err := a.Launcher()
		if err != nil {
			return err
		}
		return l.Launch(cmd.Context(), v, a.Workdir, args)
	}
}
