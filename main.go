package main

import (
	"os"

	"github.com/firefly-engineering/wolfi-dev/cmd"
	"github.com/firefly-engineering/wolfi-dev/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
