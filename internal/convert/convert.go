package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/wolfi-dev/internal/branch"
	"github.com/firefly-engineering/wolfi-dev/internal/config"
	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/git"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/probe"
	"github.com/firefly-engineering/wolfi-dev/internal/recipe"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// BranchPreparer prepares the working branch a conversion lands on.
type BranchPreparer interface {
	Prepare(ctx context.Context, branch string) (*branch.Result, error)
}

// Converter turns an Alpine APKBUILD into a Wolfi package recipe.
type Converter struct {
	Config   *config.Config
	Exec     system.CommandExecutor
	FS       system.FileSystem
	Prober   probe.Prober
	Branches BranchPreparer

	// Out receives the converted recipe.
	Out io.Writer

	// ScratchRoot is where scratch directories are created; empty means
	// the OS temp dir.
	ScratchRoot string
}

// Options controls a single conversion.
type Options struct {
	// Workdir is checked for an existing <package>.yaml.
	Workdir string
	// KeepScratch leaves the scratch directory on disk.
	KeepScratch bool
}

// Result describes a finished conversion.
type Result struct {
	Package    string
	Section    string
	Branch     *branch.Result
	RecipePath string
	Recipe     *recipe.Recipe
	// ScratchDir is set only when the scratch directory was kept.
	ScratchDir string
	NextSteps  []string
}

// Convert runs the full conversion for pkg. Nothing is written before the
// upstream recipe is found and the package is known to be unpublished.
func (c *Converter) Convert(ctx context.Context, pkg string, opts Options) (*Result, error) {
	if pkg == "" {
		return nil, clierrors.MissingInput("package name")
	}
	if err := git.ValidateBranchName(pkg); err != nil {
		return nil, err
	}
	log := logging.With("package", pkg)

	section, err := c.FindUpstream(ctx, pkg)
	if err != nil {
		return nil, err
	}
	log.Debug("found upstream recipe", "section", section)

	if opts.Workdir != "" && c.FS.Exists(filepath.Join(opts.Workdir, pkg+".yaml")) {
		if err := c.checkPublished(ctx, pkg); err != nil {
			return nil, err
		}
		log.Debug("local recipe exists but is not published, continuing")
	}

	br, err := c.Branches.Prepare(ctx, pkg)
	if err != nil {
		return nil, err
	}

	scratch, err := c.FS.MkdirTemp(c.ScratchRoot, "wolfi-dev-convert-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	keep := opts.KeepScratch || c.Config.KeepScratch
	defer func() {
		if keep {
			logging.UserInfo("Kept scratch directory %s", scratch)
			return
		}
		if err := c.FS.RemoveAll(scratch); err != nil {
			logging.Warn("failed to remove scratch directory", "path", scratch, "error", err)
		}
	}()

	if err := c.Exec.ExecuteInteractive(ctx, system.RunOptions{Dir: br.RepoDir},
		"melange", "convert", "apkbuild", pkg,
		"--base-uri-format", c.Config.AlpineURIFormat(section),
		"--out-dir", scratch,
	); err != nil {
		return nil, clierrors.CommandFailed("melange convert", err)
	}

	recipePath, err := c.install(scratch, br.RepoDir, pkg)
	if err != nil {
		return nil, err
	}

	if err := c.Exec.ExecuteInteractive(ctx, system.RunOptions{Dir: br.RepoDir}, "yam", pkg+".yaml"); err != nil {
		return nil, clierrors.CommandFailed("yam", err)
	}

	data, err := c.FS.ReadFile(recipePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	// The recipe is printed even when it fails validation.
	if c.Out != nil {
		if _, err := c.Out.Write(data); err != nil {
			return nil, fmt.Errorf("failed to print recipe: %w", err)
		}
	}

	rec, err := recipe.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("converted recipe %s: %w", recipePath, err)
	}
	if err := rec.Validate(pkg); err != nil {
		return nil, fmt.Errorf("converted recipe %s is invalid: %w", recipePath, err)
	}
	log.Debug("recipe converted", "summary", rec.Summary())

	result := &Result{
		Package:    pkg,
		Section:    section,
		Branch:     br,
		RecipePath: recipePath,
		Recipe:     rec,
		NextSteps:  NextSteps(pkg, br.RepoDir),
	}
	if keep {
		result.ScratchDir = scratch
	}
	return result, nil
}

// install moves the converted recipe from scratch into the repository.
func (c *Converter) install(scratch, repoDir, pkg string) (string, error) {
	src, err := securejoin.SecureJoin(scratch, pkg+".yaml")
	if err != nil {
		return "", fmt.Errorf("failed to resolve converted recipe path: %w", err)
	}
	if !c.FS.Exists(src) {
		return "", fmt.Errorf("melange convert produced no %s.yaml", pkg)
	}

	dst, err := securejoin.SecureJoin(repoDir, pkg+".yaml")
	if err != nil {
		return "", fmt.Errorf("failed to resolve recipe path: %w", err)
	}
	if err := system.MoveFile(c.FS, src, dst); err != nil {
		return "", fmt.Errorf("failed to move recipe into repository: %w", err)
	}
	return dst, nil
}

// NextSteps returns the follow-up instructions printed after a conversion.
func NextSteps(pkg, repoDir string) []string {
	return []string{
		fmt.Sprintf("Review and edit %s", filepath.Join(repoDir, pkg+".yaml")),
		fmt.Sprintf("Enter the build environment: cd %s && wolfi-dev local-shell", repoDir),
		fmt.Sprintf("Build the package: make package/%s", pkg),
		fmt.Sprintf("Install and test it: apk add %s", pkg),
	}
}
