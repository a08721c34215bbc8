package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Clone the Wolfi OS and images sources into a new sandbox",
	Long: `Creates a sandbox and shallow-clones the Wolfi OS and Chainguard images
repositories into <sandbox>/<host>/<org>/<repo>.

Prints <sandbox>/github.com on success:

  cd "$(wolfi-dev fetch)"`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := requireTools("git"); err != nil {
		return err
	}

	a := current()
	res, err := a.Fetcher().Fetch(cmd.Context())
	if err != nil {
		return err
	}

	logSuccess("Fetched sources into %s", res.SandboxDir)
	fmt.Fprintln(a.Out, res.HostDir)
	return nil
}
