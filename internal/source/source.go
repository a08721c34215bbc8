// Package source shallow-clones the upstream package and image
// repositories into a fresh sandbox.
package source

import (
	"context"
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/git"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
)

// Fetcher clones the configured upstream repositories.
type Fetcher struct {
	Config    *config.Config
	Sandboxes *sandbox.Director
	Git       *git.Git
}

// Result describes a completed fetch.
type Result struct {
	SandboxDir string
	// HostDir is <sandbox>/<host> of the package repository, the
	// directory users continue from.
	HostDir string
	// OSDir is the clone of the package repository.
	OSDir string
	// ImagesDir is the clone of the image repository.
	ImagesDir string
}

// Repos returns the repositories Fetch clones, package repository first.
func (f *Fetcher) Repos() ([]config.RepoRef, error) {
	var refs []config.RepoRef
	for _, raw := range []string{f.Config.Upstream.OSRepo, f.Config.Upstream.ImagesRepo} {
		ref, err := config.ParseRepo(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Fetch creates a sandbox and clones every repository into
// <sandbox>/<host>/<org>/<repo> with depth 1. A failed clone is returned
// as is; the sandbox and earlier clones stay on disk.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	refs, err := f.Repos()
	if err != nil {
		return nil, err
	}

	sandboxDir, err := f.Sandboxes.Create()
	if err != nil {
		return nil, err
	}

	dirs := make([]string, len(refs))
	for i, ref := range refs {
		dest, err := securejoin.SecureJoin(sandboxDir, ref.Path())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve clone path for %s: %w", ref.Slug(), err)
		}
		logging.Debug("cloning", "repo", ref.Slug(), "dest", dest)
		if err := f.Git.Clone(ctx, ref.CloneURL(), dest, 1); err != nil {
			return nil, err
		}
		dirs[i] = dest
	}

	hostDir, err := securejoin.SecureJoin(sandboxDir, refs[0].Host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve host path: %w", err)
	}

	return &Result{
		SandboxDir: sandboxDir,
		HostDir:    hostDir,
		OSDir:      dirs[0],
		ImagesDir:  dirs[1],
	}, nil
}
