// Package github wraps the gh CLI operations used to keep a fork current.
package github

import (
	"context"
	"fmt"
	"strings"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// Client runs gh through a CommandExecutor.
type Client struct {
	exec system.CommandExecutor
}

// New returns a Client that runs commands with exec.
func New(exec system.CommandExecutor) *Client {
	return &Client{exec: exec}
}

// SyncFork brings branch of fork (owner/repo) up to date with the same
// branch of source (owner/repo).
func (c *Client) SyncFork(ctx context.Context, fork, source, branch string) error {
	if fork == "" || source == "" || branch == "" {
		return fmt.Errorf("sync fork: fork, source and branch must be set")
	}

	out, err := c.exec.Execute(ctx, "gh", "repo", "sync", fork, "--source", source, "--branch", branch)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%s: %w", msg, err)
		}
		return clierrors.CommandFailed("gh repo sync", err)
	}
	return nil
}
