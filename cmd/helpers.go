package cmd

import (
	"context"
	"os"

	"github.com/firefly-engineering/wolfi-dev/internal/app"
	"github.com/firefly-engineering/wolfi-dev/internal/bootstrap"
	"github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// current returns the application context built by setupApp.
func current() *app.App {
	return app.Default
}

// requireTools fails with a pointer to "wolfi-dev bootstrap" when one of
// the tools is not on PATH.
func requireTools(tools ...string) error {
	return bootstrap.CheckTools(current().Exec, tools...)
}

// openShell starts the user's $SHELL in dir and waits for it to exit.
func openShell(ctx context.Context, dir string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	logging.Debug("opening shell", "shell", shell, "dir", dir)
	if err := current().Exec.ExecuteInteractive(ctx, system.RunOptions{Dir: dir}, shell); err != nil {
		return errors.CommandFailed(shell, err)
	}
	return nil
}
