package branch

import (
	"context"
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/git"
	"github.com/firefly-engineering/wolfi-dev/internal/github"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
)

// Preparer produces a fresh clone of the user's fork with a pushed,
// tracking working branch.
type Preparer struct {
	Config    *config.Config
	Sandboxes *sandbox.Director
	Git       *git.Git
	GitHub    *github.Client
}

// Result describes a prepared branch.
type Result struct {
	SandboxDir string
	RepoDir    string
	Branch     string
	// Created is true when the branch did not exist on the fork yet.
	Created bool
}

// Prepare syncs the fork, clones it into a new sandbox and leaves the clone
// on branch, pushed with upstream tracking. Inputs are checked before any
// command runs.
func (p *Preparer) Prepare(ctx context.Context, branch string) (*Result, error) {
	if err := git.ValidateBranchName(branch); err != nil {
		return nil, err
	}
	user := p.Config.GitHubUsername
	if user == "" {
		return nil, clierrors.MissingInput(fmt.Sprintf("GitHub username (set %s or github_username)", config.EnvGitHubUsername))
	}

	upstream, err := config.ParseRepo(p.Config.Upstream.OSRepo)
	if err != nil {
		return nil, clierrors.ConfigError("invalid upstream repository", err)
	}
	fork := upstream.ForkOf(user)
	defaultBranch := p.Config.Upstream.DefaultBranch

	log := logging.With("branch", branch, "fork", fork.Slug())

	log.Debug("syncing fork default branch", "upstream", upstream.Slug())
	if err := p.GitHub.SyncFork(ctx, fork.Slug(), upstream.Slug(), defaultBranch); err != nil {
		return nil, err
	}

	if branch != defaultBranch {
		onUpstream, err := p.Git.LsRemoteHasBranch(ctx, upstream.CloneURL(), branch)
		if err != nil {
			return nil, err
		}
		if onUpstream {
			log.Debug("upstream has branch, syncing it into fork")
			if err := p.GitHub.SyncFork(ctx, fork.Slug(), upstream.Slug(), branch); err != nil {
				return nil, err
			}
		}
	}

	sandboxDir, err := p.Sandboxes.Create()
	if err != nil {
		return nil, err
	}
	repoDir, err := securejoin.SecureJoin(sandboxDir, upstream.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve clone path: %w", err)
	}

	if err := p.Git.Clone(ctx, fork.CloneURL(), repoDir, 0); err != nil {
		return nil, err
	}

	exists, err := p.Git.RemoteBranchExists(ctx, repoDir, branch)
	if err != nil {
		return nil, err
	}
	if err := p.Git.Switch(ctx, repoDir, branch, !exists); err != nil {
		return nil, err
	}
	log.Debug("switched branch", "created", !exists)

	if err := p.Git.SetRemoteURL(ctx, repoDir, "origin", fork.SSHURL()); err != nil {
		return nil, err
	}
	if err := p.Git.PushUpstream(ctx, repoDir, "origin", branch); err != nil {
		return nil, err
	}
	if err := p.Git.SetConfig(ctx, repoDir, "pull.rebase", "true"); err != nil {
		return nil, err
	}

	return &Result{
		SandboxDir: sandboxDir,
		RepoDir:    repoDir,
		Branch:     branch,
		Created:    !exists,
	}, nil
}
