package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/term"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/runtime"
	"github.com/firefly-engineering/wolfi-dev/internal/source"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// Variant selects which build environment to enter.
type Variant string

const (
	// Shell runs a plain wolfi-base container with the project mounted.
	Shell Variant = "shell"
	// SDK enters the project's SDK development container.
	SDK Variant = "sdk"
	// Local enters the SDK container wired to a local package repository.
	Local Variant = "local"
)

const (
	// ContainerWorkdir is where the project is mounted in a shell container.
	ContainerWorkdir = "/work"

	// SigningKey is the local melange signing key file name.
	SigningKey = "local-melange.rsa"

	markerTarget = "local-wolfi"
)

var markerRegex = regexp.MustCompile(`(?m)^` + markerTarget + `\s*:`)

// Launcher starts interactive build environments.
type Launcher struct {
	Config  *config.Config
	Exec    system.CommandExecutor
	FS      system.FileSystem
	Runtime runtime.Runtime
	Fetcher *source.Fetcher
	Policy  runtime.PullPolicy

	// StdinIsTerminal decides whether the shell container gets a TTY.
	StdinIsTerminal func() bool
}

// Image returns the image a variant runs.
func (l *Launcher) Image(v Variant) string {
	if v == Shell {
		return l.Config.Upstream.BaseImage
	}
	return l.Config.Upstream.SDKImage
}

// IsProject reports whether dir contains a Makefile with the local-wolfi
// target.
func (l *Launcher) IsProject(dir string) bool {
	data, err := l.FS.ReadFile(filepath.Join(dir, "Makefile"))
	if err != nil {
		return false
	}
	return markerRegex.Match(data)
}

// ProjectDir returns workdir when it is a package project. Otherwise the
// upstream sources are fetched into a new sandbox and the package
// repository clone is returned.
func (l *Launcher) ProjectDir(ctx context.Context, workdir string) (string, error) {
	if l.IsProject(workdir) {
		return workdir, nil
	}

	logging.UserInfo("No %s target in %s, fetching sources", markerTarget, filepath.Join(workdir, "Makefile"))
	result, err := l.Fetcher.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return result.OSDir, nil
}

// Launch enters the variant's environment and blocks until it exits.
// extra is appended to the container run (Shell) or make (SDK, Local)
// command line.
func (l *Launcher) Launch(ctx context.Context, v Variant, workdir string, extra []string) error {
	switch v {
	case Shell, SDK, Local:
	default:
		return fmt.Errorf("unknown launcher variant: %s", v)
	}

	if _, err := runtime.EnsureImage(ctx, l.Runtime, l.Image(v), l.Policy); err != nil {
		return err
	}

	project, err := l.ProjectDir(ctx, workdir)
	if err != nil {
		return err
	}
	log := logging.With("variant", string(v), "project", project)

	switch v {
	case Shell:
		dockerArgs, err := l.Config.DockerArgs()
		if err != nil {
			return clierrors.ConfigError("invalid docker_run_opts", err)
		}
		log.Debug("starting shell container")
		return l.Runtime.Run(ctx, runtime.RunOptions{
			Image:       l.Image(v),
			Interactive: true,
			TTY:         l.stdinIsTerminal(),
			Remove:      true,
			Mounts:      []runtime.Mount{{Host: project, Container: ContainerWorkdir}},
			WorkingDir:  ContainerWorkdir,
			ExtraArgs:   append(dockerArgs, extra...),
		})

	case SDK:
		log.Debug("starting sdk container")
		return l.make(ctx, project, "dev-container-wolfi", extra)

	default:
		if err := l.prepareLocal(ctx, project); err != nil {
			return err
		}
		log.Debug("starting local sdk container")
		return l.make(ctx, project, markerTarget, extra)
	}
}

// prepareLocal makes sure the local package directory and signing key
// exist.
func (l *Launcher) prepareLocal(ctx context.Context, project string) error {
	if err := l.FS.MkdirAll(filepath.Join(project, "packages"), 0755); err != nil {
		return fmt.Errorf("failed to create packages directory: %w", err)
	}

	if _, err := l.FS.Stat(filepath.Join(project, SigningKey)); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check signing key: %w", err)
	}

	logging.UserInfo("Generating signing key %s", SigningKey)
	if err := l.Exec.ExecuteInteractive(ctx, system.RunOptions{Dir: project}, "melange", "keygen", SigningKey); err != nil {
		return clierrors.CommandFailed("melange keygen", err)
	}
	return nil
}

func (l *Launcher) make(ctx context.Context, project, target string, extra []string) error {
	args := append([]string{target}, extra...)
	if err := l.Exec.ExecuteInteractive(ctx, system.RunOptions{Dir: project}, "make", args...); err != nil {
		return clierrors.CommandFailed("make "+target, err)
	}
	return nil
}

func (l *Launcher) stdinIsTerminal() bool {
	if l.StdinIsTerminal != nil {
		return l.StdinIsTerminal()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
