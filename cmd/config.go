package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as TOML",
	Long: `Prints the configuration after the config file, environment overrides and
defaults have been applied. The output is a valid config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current()
		return a.Config.Encode(a.Out)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
