// Package app provides the application context for wolfi-dev.
// It allows dependency injection for testing.
package app

import (
	"io"
	"os"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/bootstrap"
	"github.com/firefly-engineering/wolfi-dev/internal/branch"
	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/convert"
	"github.com/firefly-engineering/wolfi-dev/internal/git"
	"github.com/firefly-engineering/wolfi-dev/internal/github"
	"github.com/firefly-engineering/wolfi-dev/internal/image"
	"github.com/firefly-engineering/wolfi-dev/internal/launcher"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/probe"
	"github.com/firefly-engineering/wolfi-dev/internal/runtime"
	"github.com/firefly-engineering/wolfi-dev/internal/sandbox"
	"github.com/firefly-engineering/wolfi-dev/internal/source"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the resolved configuration
	Config *config.Config

	// Exec runs external commands
	Exec system.CommandExecutor

	// FS is the file system
	FS system.FileSystem

	// Runtime is the container runtime; resolved on first use when nil
	Runtime runtime.Runtime

	// Prober checks upstream URLs
	Prober probe.Prober

	// Host connects to the machine bootstrap provisions; localhost when nil
	Host bootstrap.Connector

	// Workdir replaces the shell's current directory
	Workdir string

	// Out receives command output meant for stdout
	Out io.Writer

	// Now is the clock used for sandbox names and image ages
	Now func() time.Time
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Exec = exec
	}
}

// WithFS sets a custom file system
func WithFS(fsys system.FileSystem) Option {
	return func(a *App) {
		a.FS = fsys
	}
}

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithProber sets a custom existence prober
func WithProber(p probe.Prober) Option {
	return func(a *App) {
		a.Prober = p
	}
}

// WithHost sets the connector used by bootstrap
func WithHost(connect bootstrap.Connector) Option {
	return func(a *App) {
		a.Host = connect
	}
}

// WithWorkdir sets the working directory
func WithWorkdir(dir string) Option {
	return func(a *App) {
		a.Workdir = dir
	}
}

// WithOutput sets the stdout writer
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.Out = w
	}
}

// WithClock sets the clock
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.Now = now
	}
}

// New creates a new App with the given options.
// The container runtime is not detected until a command needs it.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.Exec == nil {
		app.Exec = system.DefaultExecutor()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Prober == nil {
		app.Prober = probe.NewHTTPProber(time.Duration(app.Config.ProbeTimeout))
	}
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Workdir == "" {
		if wd, err := os.Getwd(); err == nil {
			app.Workdir = wd
		} else {
			logging.Debug("failed to get working directory", "error", err)
		}
	}

	return app
}

// ContainerRuntime returns the configured runtime, detecting it on first
// use.
func (a *App) ContainerRuntime() (runtime.Runtime, error) {
	if a.Runtime != nil {
		return a.Runtime, nil
	}
	rt, err := runtime.New(runtime.RuntimeType(a.Config.Runtime), a.Exec)
	if err != nil {
		return nil, err
	}
	a.Runtime = rt
	return rt, nil
}

// Sandboxes returns the sandbox director for the configured root.
func (a *App) Sandboxes() *sandbox.Director {
	d := sandbox.NewDirector(a.Config.SandboxRoot, a.FS)
	d.Now = a.Now
	return d
}

// Git returns a git wrapper bound to the app's executor.
func (a *App) Git() *git.Git {
	return git.New(a.Exec)
}

// Fetcher returns the upstream source fetcher.
func (a *App) Fetcher() *source.Fetcher {
	return &source.Fetcher{Config: a.Config, Sandboxes: a.Sandboxes(), Git: a.Git()}
}

// Branches returns the branch preparer.
func (a *App) Branches() *branch.Preparer {
	return &branch.Preparer{
		Config:    a.Config,
		Sandboxes: a.Sandboxes(),
		Git:       a.Git(),
		GitHub:    github.New(a.Exec),
	}
}

// Launcher returns the container launcher, resolving the runtime.
func (a *App) Launcher() (*launcher.Launcher, error) {
	rt, err := a.ContainerRuntime()
	if err != nil {
		return nil, err
	}
	policy := runtime.PolicyFromConfig(a.Config)
	policy.Now = a.Now
	return &launcher.Launcher{
		Config:  a.Config,
		Exec:    a.Exec,
		FS:      a.FS,
		Runtime: rt,
		Fetcher: a.Fetcher(),
		Policy:  policy,
	}, nil
}

// Converter returns the Alpine converter writing recipes to Out.
func (a *App) Converter() *convert.Converter {
	return &convert.Converter{
		Config:   a.Config,
		Exec:     a.Exec,
		FS:       a.FS,
		Prober:   a.Prober,
		Branches: a.Branches(),
		Out:      a.Out,
	}
}

// Images returns the image builder for the working directory.
func (a *App) Images() *image.Builder {
	return &image.Builder{Config: a.Config, Exec: a.Exec, Dir: a.Workdir}
}

// Bootstrapper returns the host bootstrapper.
func (a *App) Bootstrapper() *bootstrap.Bootstrapper {
	b := bootstrap.New(a.Exec)
	if a.Host != nil {
		b.Connect = a.Host
	}
	return b
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
