package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wolfi-dev/internal/app"
	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
	workDir    string
)

// Test seams. getenv feeds config overrides; appOptions are applied after
// the config-derived options, so injected mocks win.
var (
	getenv     = os.Getenv
	appOptions []app.Option
)

var rootCmd = &cobra.Command{
	Use:   "wolfi-dev",
	Short: "Developer workflow for Wolfi packages and Chainguard images",
	Long: `wolfi-dev automates the day-to-day loop of working on Wolfi packages:

  - bootstrap a host with the required tools
  - create throwaway sandbox directories and clone the upstream sources
  - prepare fork branches for pull requests
  - enter the Wolfi build environment in a container
  - convert Alpine packages to melange recipes
  - build and scaffold Chainguard images

Configuration is read from $XDG_CONFIG_HOME/wolfi-dev/config.toml and can be
overridden with GITHUB_USERNAME, GCLOUD_USERNAME, DOCKER_RUN_OPTS, TERRAFORM,
WOLFI_DEV_SANDBOX_ROOT, WOLFI_DEV_RUNTIME and WOLFI_DEV_PULL_POLICY.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context
// handed to every operation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logging.UserError("%s", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/wolfi-dev/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", "", "Run as if started in this directory")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setupApp configures logging and builds the application context.
// Stdout is reserved for command results such as sandbox paths, so
// user-facing status lines go to stderr.
func setupApp(cmd *cobra.Command, args []string) error {
	logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
	logging.SetUserOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr())

	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		return errors.ConfigError("failed to load configuration", err)
	}

	opts := []app.Option{
		app.WithConfig(cfg),
		app.WithOutput(cmd.OutOrStdout()),
	}
	if workDir != "" {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return errors.InvalidInput("invalid --dir: " + err.Error())
		}
		opts = append(opts, app.WithWorkdir(abs))
	}
	opts = append(opts, appOptions...)

	app.SetDefault(app.New(opts...))
	logging.Debug("configuration loaded", "path", configPath, "sandbox_root", cfg.SandboxRoot, "runtime", cfg.Runtime)
	return nil
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
