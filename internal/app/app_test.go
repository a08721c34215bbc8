package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/k0sproject/rig"

	"github.com/firefly-engineering/wolfi-dev/internal/bootstrap"
	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/probe"
	"github.com/firefly-engineering/wolfi-dev/internal/runtime"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

func TestNew(t *testing.T) {
	app := New()

	if app == nil {
		t.Fatal("New() returned nil")
	}
	if app.Config == nil || app.Exec == nil || app.FS == nil || app.Prober == nil || app.Out == nil {
		t.Errorf("New() left a dependency nil: %+v", app)
	}
	if app.Workdir == "" {
		t.Error("Workdir should default to the current directory")
	}
	if app.Runtime != nil {
		t.Error("Runtime should be resolved lazily")
	}
}

func TestNew_WithOptions(t *testing.T) {
	cfg := config.Default()
	cfg.GitHubUsername = "octocat"
	exec := system.NewMockExecutor()
	fsys := system.NewMockFS()
	rt := runtime.NewMockRuntime()
	prober := probe.NewMockProber()
	out := &bytes.Buffer{}
	clock := func() time.Time { return time.Unix(0, 0) }

	app := New(
		WithConfig(cfg),
		WithExecutor(exec),
		WithFS(fsys),
		WithRuntime(rt),
		WithProber(prober),
		WithWorkdir("/work"),
		WithOutput(out),
		WithClock(clock),
	)

	if app.Config != cfg || app.Exec != exec || app.FS != fsys || app.Runtime != rt || app.Prober != prober {
		t.Error("options were not applied")
	}
	if app.Workdir != "/work" || app.Out != out {
		t.Errorf("Workdir = %q, Out = %v", app.Workdir, app.Out)
	}
	if !app.Now().Equal(time.Unix(0, 0)) {
		t.Error("WithClock was not applied")
	}
}

func TestContainerRuntime_Detects(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Missing["docker"] = true
	app := New(WithExecutor(exec), WithWorkdir("/work"))

	rt, err := app.ContainerRuntime()
	if err != nil {
		t.Fatalf("ContainerRuntime() error: %v", err)
	}
	if rt.Name() != "podman" {
		t.Errorf("Name() = %q, want podman", rt.Name())
	}
	if again, _ := app.ContainerRuntime(); again != rt {
		t.Error("runtime should be cached")
	}
}

func TestContainerRuntime_NoneInstalled(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.Missing["docker"] = true
	exec.Missing["podman"] = true
	app := New(WithExecutor(exec), WithWorkdir("/work"))

	if _, err := app.ContainerRuntime(); err == nil {
		t.Error("ContainerRuntime() should fail without docker or podman")
	}
	if _, err := app.Launcher(); err == nil {
		t.Error("Launcher() should fail without a runtime")
	}
}

func TestServices(t *testing.T) {
	cfg := config.Default()
	cfg.SandboxRoot = "/sandboxes"
	out := &bytes.Buffer{}
	app := New(
		WithConfig(cfg),
		WithExecutor(system.NewMockExecutor()),
		WithFS(system.NewMockFS()),
		WithRuntime(runtime.NewMockRuntime()),
		WithWorkdir("/src/images"),
		WithOutput(out),
	)

	if d := app.Sandboxes(); d.Root != "/sandboxes" {
		t.Errorf("Sandboxes().Root = %q", d.Root)
	}
	if b := app.Images(); b.Dir != "/src/images" {
		t.Errorf("Images().Dir = %q", b.Dir)
	}
	if c := app.Converter(); c.Out != out || c.Branches == nil {
		t.Errorf("Converter() = %+v", c)
	}
	l, err := app.Launcher()
	if err != nil {
		t.Fatalf("Launcher() error: %v", err)
	}
	if l.Policy.Mode != config.PullAlways {
		t.Errorf("Launcher().Policy = %+v", l.Policy)
	}
	if app.Bootstrapper() == nil || app.Fetcher() == nil {
		t.Error("service constructors returned nil")
	}
}

func TestBootstrapper_UsesInjectedHost(t *testing.T) {
	host := bootstrap.NewMockHost()
	want := host.Target(rig.OSVersion{ID: "wolfi"})
	app := New(WithHost(func() (*bootstrap.Target, error) { return want, nil }))

	got, err := app.Bootstrapper().Connect()
	if err != nil || got != want {
		t.Errorf("Connect() = %v, %v", got, err)
	}
	if New().Bootstrapper().Connect == nil {
		t.Error("default bootstrapper has no connector")
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	custom := New(WithWorkdir("/custom"))
	SetDefault(custom)
	if Default != custom {
		t.Error("SetDefault did not set custom app")
	}

	ResetDefault()
	if Default == custom {
		t.Error("ResetDefault did not reset the app")
	}
}
