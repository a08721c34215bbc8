package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// DockerRuntime implements Runtime with the docker or podman CLI.
type DockerRuntime struct {
	// Command is the container command to use (docker or podman)
	Command string

	exec system.CommandExecutor
}

// NewDockerRuntime creates a runtime that invokes command through exec.
func NewDockerRuntime(command string, exec system.CommandExecutor) *DockerRuntime {
	return &DockerRuntime{Command: command, exec: exec}
}

// Name returns the runtime identifier
func (r *DockerRuntime) Name() string {
	return r.Command
}

// Pull fetches image, streaming progress to the terminal.
func (r *DockerRuntime) Pull(ctx context.Context, image string) error {
	logging.Debug("pulling image", "image", image, "runtime", r.Command)
	if err := r.exec.ExecuteInteractive(ctx, system.RunOptions{}, r.Command, "pull", image); err != nil {
		return clierrors.CommandFailed(r.Command+" pull", err)
	}
	return nil
}

// imageInspect holds the relevant fields from "image inspect"
type imageInspect struct {
	Created  time.Time `json:"Created"`
	Metadata struct {
		LastTagTime time.Time `json:"LastTagTime"`
	} `json:"Metadata"`
}

// Inspect reports local presence and age of image.
func (r *DockerRuntime) Inspect(ctx context.Context, image string) (*ImageInfo, error) {
	info := &ImageInfo{Ref: image}

	output, err := r.exec.Execute(ctx, r.Command, "image", "inspect", image)
	if err != nil {
		if isNoSuchImage(string(output)) {
			return info, nil
		}
		return nil, clierrors.CommandFailed(r.Command+" image inspect", fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err))
	}

	var inspects []imageInspect
	if err := json.Unmarshal(output, &inspects); err != nil {
		return nil, fmt.Errorf("failed to parse image inspect output: %w", err)
	}
	if len(inspects) == 0 {
		return info, nil
	}

	info.Present = true
	info.LastTagTime = inspects[0].Metadata.LastTagTime
	if info.LastTagTime.IsZero() {
		info.LastTagTime = inspects[0].Created
	}
	return info, nil
}

func isNoSuchImage(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no such image") || strings.Contains(lower, "image not known")
}

// Run starts a container with stdio attached and waits for it.
func (r *DockerRuntime) Run(ctx context.Context, opts RunOptions) error {
	if opts.Image == "" {
		return fmt.Errorf("run: image must be set")
	}

	args := runArgs(opts)
	logging.Debug("running container", "image", opts.Image, "runtime", r.Command)

	if err := r.exec.ExecuteInteractive(ctx, system.RunOptions{}, r.Command, args...); err != nil {
		return clierrors.CommandFailed(r.Command+" run", err)
	}
	return nil
}

func runArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}
	switch {
	case opts.Interactive && opts.TTY:
		args = append(args, "-it")
	case opts.Interactive:
		args = append(args, "-i")
	case opts.TTY:
		args = append(args, "-t")
	}

	for _, m := range opts.Mounts {
		args = append(args, "-v", fmt.Sprintf("%s:%s", m.Host, m.Container))
	}
	if opts.WorkingDir != "" {
		args = append(args, "-w", opts.WorkingDir)
	}
	for _, env := range opts.Env {
		args = append(args, "-e", env)
	}

	args = append(args, opts.ExtraArgs...)
	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return args
}

// Ensure DockerRuntime implements Runtime
var _ Runtime = (*DockerRuntime)(nil)
