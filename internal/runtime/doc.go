// Package runtime provides a unified interface for container runtimes.
//
// Supported runtimes:
//   - docker
//   - podman
//
// Both are driven through their CLI by DockerRuntime. Detect resolves the
// configured selection ("auto", "docker", "podman") against PATH.
//
// # Pull Policy
//
// EnsureImage decides whether to pull before a launch:
//
//	always    pull on every launch (default)
//	missing   pull only when the image is not stored locally
//	max-age   pull when the local copy was tagged longer ago than pull_max_age
//
// # Mock Runtime
//
// For testing, use NewMockRuntime() to create a mock implementation that
// records calls and tracks which images are present.
package runtime
