package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/convert"
	"github.com/firefly-engineering/wolfi-dev/internal/errors"
)

var convertKeepScratch bool

var convertCmd = &cobra.Command{
	Use:     "alpine-convert <package>",
	Aliases: []string{"convert"},
	Short:   "Convert an Alpine package to a melange recipe on a new branch",
	Long: `Looks up <package> in the Alpine aports main and community sections,
prepares a fork branch named after it (see "wolfi-dev branch"), converts the
APKBUILD with "melange convert apkbuild", formats the result with yam and
prints the recipe.

Fails without side effects when the package is not in Alpine, or when
<package>.yaml exists in the working directory and is already published.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertKeepScratch, "keep-scratch", false, "Keep the conversion scratch directory for debugging")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	pkg := ""
	if len(args) > 0 {
		pkg = args[0]
	}
	if pkg == "" {
		return errors.MissingInput("package name")
	}

	if err := requireTools("git", "gh", "melange", "yam"); err != nil {
		return err
	}

	a := current()
	res, err := a.Converter().Convert(cmd.Context(), pkg, convert.Options{
		Workdir:     a.Workdir,
		KeepScratch: convertKeepScratch,
	})
	if err != nil {
		return err
	}

	logSuccess("Converted %s from Alpine %s: %s", res.Package, res.Section, res.Recipe.Summary())
	if res.ScratchDir != "" {
		logInfo("Scratch directory kept at %s", res.ScratchDir)
	}
	printNextSteps(a.Out, res.NextSteps)
	return nil
}

var (
	stepsTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	stepNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func printNextSteps(w io.Writer, steps []string) {
	fmt.Fprintln(w, stepsTitleStyle.Render("Next steps:"))
	for i, step := range steps {
		fmt.Fprintf(w, "  %s %s\n", stepNumberStyle.Render(fmt.Sprintf("%d.", i+1)), step)
	}
}
