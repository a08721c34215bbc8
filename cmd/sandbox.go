package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
	"github.com/firefly-engineering/wolfi-dev/internal/tui"
)

const defaultPruneAge = 7 * 24 * time.Hour

var (
	sandboxShell   bool
	pruneOlderThan time.Duration
	pruneForce     bool
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Create a fresh sandbox directory",
	Long: `Creates a new, empty, uniquely named directory below the sandbox root
and prints its absolute path:

  cd "$(wolfi-dev sandbox)"

With --shell, starts $SHELL inside the new directory instead.`,
	Args: cobra.NoArgs,
	RunE: runSandboxCreate,
}

var sandboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing sandboxes",
	Args:  cobra.NoArgs,
	RunE:  runSandboxList,
}

var sandboxPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive sandbox picker",
	Long: `Opens an interactive TUI for selecting a sandbox.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Open a shell in the selected sandbox
  n      - Create a new sandbox and open a shell in it
  d      - Delete the selected sandbox
  q/Esc  - Quit

When stdout is not a terminal, the sandboxes are listed instead.`,
	Args: cobra.NoArgs,
	RunE: runSandboxPick,
}

var sandboxPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old sandboxes",
	Long: `Removes sandboxes created more than --older-than ago.

Without --force, prints what would be removed (dry run).`,
	Args: cobra.NoArgs,
	RunE: runSandboxPrune,
}

func init() {
	sandboxCmd.Flags().BoolVar(&sandboxShell, "shell", false, "Start $SHELL in the new sandbox")
	sandboxPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", defaultPruneAge, "Minimum sandbox age to remove")
	sandboxPruneCmd.Flags().BoolVar(&pruneForce, "force", false, "Actually remove sandboxes (default is dry run)")

	sandboxCmd.AddCommand(sandboxListCmd, sandboxPickCmd, sandboxPruneCmd)
	rootCmd.AddCommand(sandboxCmd)
}

func runSandboxCreate(cmd *cobra.Command, args []string) error {
	a := current()

	path, err := a.Sandboxes().Create()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, path)

	if sandboxShell {
		return openShell(cmd.Context(), path)
	}
	return nil
}

func runSandboxList(cmd *cobra.Command, args []string) error {
	a := current()

	sandboxes, err := a.Sandboxes().List()
	if err != nil {
		return fmt.Errorf("failed to list sandboxes: %w", err)
	}

	if len(sandboxes) == 0 {
		logInfo("No sandboxes found. Create one with: wolfi-dev sandbox")
		return nil
	}

	now := a.Now()
	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAGE\tPATH")
	fmt.Fprintln(w, "----\t---\t----")
	for _, sb := range sandboxes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", sb.Name, tui.FormatAge(sb.Age(now)), sb.Path)
	}
	return w.Flush()
}

func runSandboxPick(cmd *cobra.Command, args []string) error {
	a := current()
	d := a.Sandboxes()

	sandboxes, err := d.List()
	if err != nil {
		return fmt.Errorf("failed to list sandboxes: %w", err)
	}

	if !logging.IsTerminal(a.Out) {
		fmt.Fprint(a.Out, tui.SimplePicker(sandboxes, a.Now()))
		return nil
	}

	result, err := tui.RunPicker(sandboxes, a.Now())
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}
	logging.Debug("picker result", "action", result.Action)

	switch result.Action {
	case tui.ActionOpen:
		return openShell(cmd.Context(), result.Sandbox.Path)

	case tui.ActionNew:
		path, err := d.Create()
		if err != nil {
			return err
		}
		logSuccess("Created %s", path)
		return openShell(cmd.Context(), path)

	case tui.ActionDelete:
		if err := d.Remove(*result.Sandbox); err != nil {
			return err
		}
		logSuccess("Removed %s", result.Sandbox.Name)
	}

	return nil
}

func runSandboxPrune(cmd *cobra.Command, args []string) error {
	a := current()
	d := a.Sandboxes()

	stale, err := d.Stale(pruneOlderThan)
	if err != nil {
		return fmt.Errorf("failed to list sandboxes: %w", err)
	}

	if len(stale) == 0 {
		logInfo("No sandboxes older than %s", pruneOlderThan)
		return nil
	}

	if !pruneForce {
		now := a.Now()
		fmt.Fprintln(a.Out, "Dry run (use --force to actually remove):")
		for _, sb := range stale {
			fmt.Fprintf(a.Out, "  %s (%s old)\n", sb.Path, tui.FormatAge(sb.Age(now)))
		}
		return nil
	}

	bar := progressbar.NewOptions(len(stale),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Removing sandboxes"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	result, err := d.Prune(pruneOlderThan, func(sb sandbox.Info, err error) {
		_ = bar.Add(1)
		if err != nil {
			logging.Debug("prune failed", "sandbox", sb.Name, "error", err)
		}
	})
	if err != nil {
		return err
	}
	_ = bar.Finish()

	for name, err := range result.Failed {
		logWarning("Failed to remove %s: %v", name, err)
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("failed to remove %d of %d sandboxes", len(result.Failed), len(stale))
	}

	logSuccess("Removed %d sandboxes", len(result.Removed))
	return nil
}
