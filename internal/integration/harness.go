package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/app"
	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/runtime"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// EnvEnable turns integration tests on.
const EnvEnable = "WOLFI_DEV_INTEGRATION_TESTS"

// Harness provides an application context backed by the real executor,
// file system and container runtime, rooted in a temp directory.
type Harness struct {
	t       *testing.T
	tempDir string
	cfg     *config.Config
	rt      runtime.Runtime
}

// Enabled reports whether integration tests were requested.
func Enabled() bool {
	return os.Getenv(EnvEnable) == "1"
}

// NewHarness creates a new test harness.
// It skips the test if integration tests are disabled or no runtime is
// available.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	if !Enabled() {
		t.Skipf("integration tests disabled (set %s=1 to enable)", EnvEnable)
	}

	exec := system.DefaultExecutor()
	rt, err := runtime.New(runtime.RuntimeType(os.Getenv(config.EnvRuntime)), exec)
	if err != nil {
		t.Skipf("no container runtime available: %v", err)
	}

	tempDir := t.TempDir()
	cfg := config.Default()
	cfg.SandboxRoot = filepath.Join(tempDir, "sandboxes")
	cfg.PullPolicy = config.PullMissing
	if err := os.MkdirAll(cfg.SandboxRoot, 0755); err != nil {
		t.Fatalf("Failed to create sandbox root: %v", err)
	}

	return &Harness{
		t:       t,
		tempDir: tempDir,
		cfg:     cfg,
		rt:      rt,
	}
}

// Config returns the harness configuration.
func (h *Harness) Config() *config.Config {
	return h.cfg
}

// Runtime returns the container runtime.
func (h *Harness) Runtime() runtime.Runtime {
	return h.rt
}

// App returns an application context working in workdir.
func (h *Harness) App(workdir string) *app.App {
	return app.New(
		app.WithConfig(h.cfg),
		app.WithRuntime(h.rt),
		app.WithWorkdir(workdir),
	)
}

// CreateProject creates a directory whose Makefile carries the
// local-wolfi target, plus a marker file the container can look for.
func (h *Harness) CreateProject(name string) string {
	h.t.Helper()

	path := filepath.Join(h.tempDir, "projects", name)
	if err := os.MkdirAll(path, 0755); err != nil {
		h.t.Fatalf("Failed to create project: %v", err)
	}

	files := map[string]string{
		"Makefile": "local-wolfi:\n\t@echo local-wolfi\n",
		"marker":   name + "\n",
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(path, file), []byte(content), 0644); err != nil {
			h.t.Fatalf("Failed to write %s: %v", file, err)
		}
	}
	return path
}

// Context returns a context that expires after timeout, or at the test
// deadline when that comes first.
func (h *Harness) Context(timeout time.Duration) context.Context {
	deadline := time.Now().Add(timeout)
	if d, ok := h.t.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	h.t.Cleanup(cancel)
	return ctx
}
