package runtime

import (
	"context"
	"strings"
	"testing"
	"time"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

func TestDockerRuntime_Name(t *testing.T) {
	rt := NewDockerRuntime("docker", system.NewMockExecutor())

	if rt.Name() != "docker" {
		t.Errorf("Name() = %q, want %q", rt.Name(), "docker")
	}

	rt.Command = "podman"
	if rt.Name() != "podman" {
		t.Errorf("Name() = %q, want %q", rt.Name(), "podman")
	}
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name string
		opts RunOptions
		want string
	}{
		{
			name: "shell with tty",
			opts: RunOptions{
				Image:       "cgr.dev/chainguard/wolfi-base:latest",
				Interactive: true,
				TTY:         true,
				Remove:      true,
				Mounts:      []Mount{{Host: "/src/os", Container: "/work"}},
				WorkingDir:  "/work",
				ExtraArgs:   []string{"--network", "host"},
			},
			want: "run --rm -it -v /src/os:/work -w /work --network host cgr.dev/chainguard/wolfi-base:latest",
		},
		{
			name: "no tty",
			opts: RunOptions{Image: "img", Interactive: true, Remove: true},
			want: "run --rm -i img",
		},
		{
			name: "env and command",
			opts: RunOptions{Image: "img", Env: []string{"A=1"}, Command: []string{"sh", "-c", "true"}},
			want: "run -e A=1 img sh -c true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(runArgs(tt.opts), " ")
			if got != tt.want {
				t.Errorf("runArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDockerRuntime_Run(t *testing.T) {
	exec := system.NewMockExecutor()
	rt := NewDockerRuntime("podman", exec)

	err := rt.Run(context.Background(), RunOptions{Image: "img", Interactive: true})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	cmd, _ := exec.LastCommand()
	if cmd.Line() != "podman run -i img" || !cmd.Interactive {
		t.Errorf("command = %+v", cmd)
	}

	if err := rt.Run(context.Background(), RunOptions{}); err == nil {
		t.Error("Run() without an image should fail")
	}
}

func TestDockerRuntime_RunPropagatesExitCode(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("docker run", nil, &system.MockExitError{Code: 130})

	err := NewDockerRuntime("docker", exec).Run(context.Background(), RunOptions{Image: "img"})
	if code := clierrors.GetExitCode(err); code != 130 {
		t.Errorf("exit code = %d, want 130", code)
	}
}

func TestDockerRuntime_Pull(t *testing.T) {
	exec := system.NewMockExecutor()

	if err := NewDockerRuntime("docker", exec).Pull(context.Background(), "ghcr.io/wolfi-dev/sdk:latest"); err != nil {
		t.Fatalf("Pull() error: %v", err)
	}
	cmd, _ := exec.LastCommand()
	if cmd.Line() != "docker pull ghcr.io/wolfi-dev/sdk:latest" {
		t.Errorf("command = %q", cmd.Line())
	}
}

func TestDockerRuntime_Inspect(t *testing.T) {
	tagged := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		output      string
		err         error
		wantPresent bool
		wantTime    time.Time
		wantErr     bool
	}{
		{
			name:        "docker with tag time",
			output:      `[{"Created":"2026-09-01T12:00:00Z","Metadata":{"LastTagTime":"2026-10-01T12:00:00Z"}}]`,
			wantPresent: true,
			wantTime:    tagged,
		},
		{
			name:        "podman without metadata",
			output:      `[{"Created":"2026-09-01T12:00:00Z"}]`,
			wantPresent: true,
			wantTime:    created,
		},
		{
			name:   "docker missing image",
			output: "Error: No such image: img",
			err:    &system.MockExitError{Code: 1},
		},
		{
			name:   "podman missing image",
			output: "Error: img: image not known",
			err:    &system.MockExitError{Code: 125},
		},
		{
			name:    "daemon down",
			output:  "Cannot connect to the Docker daemon",
			err:     &system.MockExitError{Code: 1},
			wantErr: true,
		},
		{
			name:    "garbage",
			output:  "not json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := system.NewMockExecutor()
			exec.AddResponse("docker image inspect", []byte(tt.output), tt.err)

			info, err := NewDockerRuntime("docker", exec).Inspect(context.Background(), "img")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Inspect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if info.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", info.Present, tt.wantPresent)
			}
			if !info.LastTagTime.Equal(tt.wantTime) {
				t.Errorf("LastTagTime = %v, want %v", info.LastTagTime, tt.wantTime)
			}
		})
	}
}
