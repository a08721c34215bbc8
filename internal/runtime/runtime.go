// Package runtime defines the container runtime interface for wolfi-dev.
// The abstraction lets docker and podman share one code path and lets
// launchers be tested against a mock.
package runtime

import (
	"context"
	"time"
)

// ImageInfo describes a locally stored image.
type ImageInfo struct {
	Ref     string
	Present bool
	// LastTagTime is when the image was last pulled or tagged locally.
	// Runtimes that do not record it report the image creation time.
	LastTagTime time.Time
}

// Mount binds a host path into the container.
type Mount struct {
	Host      string
	Container string
}

// RunOptions holds options for running a container.
type RunOptions struct {
	Image       string
	Interactive bool     // keep stdin open
	TTY         bool     // allocate a pseudo-terminal
	Remove      bool     // remove the container on exit
	Mounts      []Mount  // bind mounts
	WorkingDir  string   // working directory inside the container
	Env         []string // KEY=value pairs
	ExtraArgs   []string // passed to "run" before the image
	Command     []string // command and arguments after the image
}

// Runtime is the interface that container backends must implement.
type Runtime interface {
	// Name returns the runtime identifier ("docker" or "podman")
	Name() string

	// Pull fetches image from its registry
	Pull(ctx context.Context, image string) error

	// Inspect reports whether image is stored locally and how old it is.
	// A missing image is not an error.
	Inspect(ctx context.Context, image string) (*ImageInfo, error)

	// Run starts a container attached to the terminal and waits for it
	// to exit. A non-zero container exit is returned as an error carrying
	// that code.
	Run(ctx context.Context, opts RunOptions) error
}
