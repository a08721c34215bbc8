// Package config provides the resolved configuration for wolfi-dev.
//
// # Sources
//
// Configuration is assembled in order, later sources winning:
//
//   - built-in defaults (Default)
//   - a TOML file, $XDG_CONFIG_HOME/wolfi-dev/config.toml or --config
//   - environment variables (GITHUB_USERNAME, GCLOUD_USERNAME, DOCKER_RUN_OPTS,
//     TERRAFORM, WOLFI_DEV_SANDBOX_ROOT, WOLFI_DEV_RUNTIME, WOLFI_DEV_PULL_POLICY)
//
// # Example
//
//	github_username = "octocat"
//	docker_run_opts = "-e GOPROXY=direct --network host"
//	pull_policy = "max-age"
//	pull_max_age = "12h"
//
//	[upstream]
//	alpine_sections = ["main", "community", "testing"]
//
// # Validation
//
// Load validates after parsing: sandbox_root must be absolute, runtime and
// pull_policy must be known values, docker_run_opts must split as shell
// words, and the upstream repositories must be https://host/org/repo URLs.
package config
