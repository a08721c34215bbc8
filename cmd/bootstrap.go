package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/bootstrap"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

var bootstrapNoNewgrp bool

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Install the tools the workflow needs",
	Long: `Installs git, gh, make, docker, melange and yam on Wolfi or Debian-family
hosts and adds the current user to the docker group.

melange and yam are installed with "go install" into $HOME/go/bin, which is
added to PATH for this process; add the printed export line to your shell
profile. After joining the docker group a new group session is started with
"newgrp docker" unless --no-newgrp is given.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().BoolVar(&bootstrapNoNewgrp, "no-newgrp", false, "Do not start a new docker group session")
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	report, err := current().Bootstrapper().Run(cmd.Context(), bootstrap.Options{NoNewgrp: bootstrapNoNewgrp})
	if err != nil {
		return err
	}
	logging.Debug("bootstrap finished", "family", report.Family, "packages", report.Packages, "modules", report.GoModules, "added_to_group", report.AddedToGroup)
	return nil
}
