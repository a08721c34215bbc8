package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// validBranch matches a single, safe ref component: alphanumeric, hyphens,
// underscores, dots, plus signs.
var validBranch = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._+-]*$`)

// ValidateBranchName checks that name can be used as a branch name and as a
// command argument.
func ValidateBranchName(name string) error {
	if name == "" {
		return clierrors.MissingInput("branch name")
	}
	if len(name) > 128 {
		return clierrors.InvalidInput("branch name too long (max 128 characters)")
	}
	if !validBranch.MatchString(name) || strings.Contains(name, "..") || strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, ".") {
		return clierrors.InvalidInput(fmt.Sprintf("branch name %q is not a valid git ref component (allowed: alphanumeric, hyphens, underscores, dots, plus)", name))
	}
	return nil
}

// Git runs git through a CommandExecutor.
type Git struct {
	exec system.CommandExecutor
}

// New returns a Git that runs commands with exec.
func New(exec system.CommandExecutor) *Git {
	return &Git{exec: exec}
}

// Clone clones url into dest. depth > 0 makes a shallow clone.
func (g *Git) Clone(ctx context.Context, url, dest string, depth int) error {
	args := []string{"clone"}
	if depth > 0 {
		args = append(args, "--depth", strconv.Itoa(depth))
	}
	args = append(args, url, dest)
	return g.stream(ctx, "", args...)
}

// RefExists reports whether ref (e.g. refs/remotes/origin/main) exists in
// the repository at repoPath.
func (g *Git) RefExists(ctx context.Context, repoPath, ref string) (bool, error) {
	out, err := g.exec.Execute(ctx, "git", "-C", repoPath, "show-ref", "--verify", "--quiet", ref)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 1 {
		return false, nil
	}
	return false, commandError("git show-ref", out, err)
}

// RemoteBranchExists reports whether origin/<branch> is known locally.
func (g *Git) RemoteBranchExists(ctx context.Context, repoPath, branch string) (bool, error) {
	return g.RefExists(ctx, repoPath, "refs/remotes/origin/"+branch)
}

// LsRemoteHasBranch asks the remote at url whether it has a head named
// branch. git exits with 2 when no matching ref is found.
func (g *Git) LsRemoteHasBranch(ctx context.Context, url, branch string) (bool, error) {
	out, err := g.exec.Execute(ctx, "git", "ls-remote", "--exit-code", "--heads", url, branch)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 2 {
		return false, nil
	}
	return false, commandError("git ls-remote", out, err)
}

// Switch checks out an existing branch, or creates it when create is set.
func (g *Git) Switch(ctx context.Context, repoPath, branch string, create bool) error {
	if create {
		return g.stream(ctx, repoPath, "switch", "-c", branch)
	}
	return g.stream(ctx, repoPath, "switch", branch)
}

// SetRemoteURL repoints remote to url.
func (g *Git) SetRemoteURL(ctx context.Context, repoPath, remote, url string) error {
	return g.run(ctx, repoPath, "remote", "set-url", remote, url)
}

// PushUpstream pushes branch to remote and records it as upstream.
func (g *Git) PushUpstream(ctx context.Context, repoPath, remote, branch string) error {
	return g.stream(ctx, repoPath, "push", "-u", remote, branch)
}

// SetConfig sets a repository-local config value.
func (g *Git) SetConfig(ctx context.Context, repoPath, key, value string) error {
	return g.run(ctx, repoPath, "config", key, value)
}

// run executes a quiet git command and folds its output into the error.
func (g *Git) run(ctx context.Context, repoPath string, args ...string) error {
	full := append([]string{"-C", repoPath}, args...)
	out, err := g.exec.Execute(ctx, "git", full...)
	if err != nil {
		return commandError("git "+args[0], out, err)
	}
	return nil
}

// stream executes a git command with its output on the terminal.
func (g *Git) stream(ctx context.Context, repoPath string, args ...string) error {
	full := args
	if repoPath != "" {
		full = append([]string{"-C", repoPath}, args...)
	}
	if err := g.exec.ExecuteInteractive(ctx, system.RunOptions{}, "git", full...); err != nil {
		return clierrors.CommandFailed("git "+args[0], err)
	}
	return nil
}

func commandError(command string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		err = fmt.Errorf("%s: %w", msg, err)
	}
	return clierrors.CommandFailed(command, err)
}

func exitCode(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}
