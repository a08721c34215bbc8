package cmd

import (
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Build and scaffold Chainguard images",
	Long: `Runs the images repository Makefile targets from the working directory.

TF_VAR_target_repository is set to ttl.sh/<gcloud_username> when a Google
Cloud username is configured, and TERRAFORM to terraform_path when set.`,
}

var imageBuildCmd = &cobra.Command{
	Use:   "build <name>",
	Short: "Build an image with make image/<name>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools("make"); err != nil {
			return err
		}
		if err := current().Images().Build(cmd.Context(), args[0]); err != nil {
			return err
		}
		logSuccess("Built image %s", args[0])
		return nil
	},
}

var imageNewCmd = &cobra.Command{
	Use:   "new <name> <entrypoint>",
	Short: "Scaffold a new image with make init-image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTools("make"); err != nil {
			return err
		}
		if err := current().Images().Scaffold(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		logSuccess("Scaffolded image %s", args[0])
		return nil
	},
}

func init() {
	imageCmd.AddCommand(imageBuildCmd, imageNewCmd)
	rootCmd.AddCommand(imageCmd)
}
