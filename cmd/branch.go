package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/git"
)

var branchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Prepare a fork branch of wolfi-dev/os in a new sandbox",
	Long: `Syncs your fork of the Wolfi OS repository with upstream, clones it into a
new sandbox and checks out <name>, creating it when the fork does not have it
yet. The branch is pushed to the fork with upstream tracking and pull.rebase
is enabled.

Requires github_username in the config file or GITHUB_USERNAME.
Prints the repository path on success.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBranch,
}

func init() {
	rootCmd.AddCommand(branchCmd)
}

func runBranch(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if err := git.ValidateBranchName(name); err != nil {
		return err
	}

	if err := requireTools("git", "gh"); err != nil {
		return err
	}

	a := current()
	res, err := a.Branches().Prepare(cmd.Context(), name)
	if err != nil {
		return err
	}

	if res.Created {
		logSuccess("Created branch %s in %s", res.Branch, res.RepoDir)
	} else {
		logSuccess("Checked out existing branch %s in %s", res.Branch, res.RepoDir)
	}
	fmt.Fprintln(a.Out, res.RepoDir)
	return nil
}
