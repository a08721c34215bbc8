package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

const (
	AppName = "wolfi-dev"

	DefaultOSRepo           = "https://github.com/wolfi-dev/os"
	DefaultImagesRepo       = "https://github.com/chainguard-images/images"
	DefaultBranch           = "main"
	DefaultAlpineBaseURI    = "https://git.alpinelinux.org/aports/plain"
	DefaultPublishedBaseURI = "https://raw.githubusercontent.com/wolfi-dev/os/main"
	DefaultBaseImage        = "cgr.dev/chainguard/wolfi-base:latest"
	DefaultSDKImage         = "ghcr.io/wolfi-dev/sdk:latest"
	DefaultProbeTimeout     = 15 * time.Second
)

// Pull policies for container images.
const (
	PullAlways  = "always"
	PullMissing = "missing"
	PullMaxAge  = "max-age"
)

// Environment variables that override the config file.
const (
	EnvGitHubUsername = "GITHUB_USERNAME"
	EnvGCloudUsername = "GCLOUD_USERNAME"
	EnvDockerRunOpts  = "DOCKER_RUN_OPTS"
	EnvTerraform      = "TERRAFORM"
	EnvSandboxRoot    = "WOLFI_DEV_SANDBOX_ROOT"
	EnvRuntime        = "WOLFI_DEV_RUNTIME"
	EnvPullPolicy     = "WOLFI_DEV_PULL_POLICY"
)

// Duration is a time.Duration that reads and writes as "90s", "168h" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Upstream holds the fixed locations the workflow talks to.
type Upstream struct {
	OSRepo           string   `toml:"os_repo"`
	ImagesRepo       string   `toml:"images_repo"`
	DefaultBranch    string   `toml:"default_branch"`
	AlpineBaseURI    string   `toml:"alpine_base_uri"`
	AlpineSections   []string `toml:"alpine_sections"`
	PublishedBaseURI string   `toml:"published_base_uri"`
	BaseImage        string   `toml:"base_image"`
	SDKImage         string   `toml:"sdk_image"`
}

// Config is the resolved configuration handed to every operation.
type Config struct {
	GitHubUsername string   `toml:"github_username"`
	GCloudUsername string   `toml:"gcloud_username"`
	DockerRunOpts  string   `toml:"docker_run_opts"`
	TerraformPath  string   `toml:"terraform_path"`
	SandboxRoot    string   `toml:"sandbox_root"`
	Runtime        string   `toml:"runtime"`
	PullPolicy     string   `toml:"pull_policy"`
	PullMaxAge     Duration `toml:"pull_max_age"`
	ProbeTimeout   Duration `toml:"probe_timeout"`
	KeepScratch    bool     `toml:"keep_scratch"`
	Upstream       Upstream `toml:"upstream"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SandboxRoot:  os.TempDir(),
		Runtime:      "auto",
		PullPolicy:   PullAlways,
		PullMaxAge:   Duration(24 * time.Hour),
		ProbeTimeout: Duration(DefaultProbeTimeout),
		Upstream: Upstream{
			OSRepo:           DefaultOSRepo,
			ImagesRepo:       DefaultImagesRepo,
			DefaultBranch:    DefaultBranch,
			AlpineBaseURI:    DefaultAlpineBaseURI,
			AlpineSections:   []string{"main", "community"},
			PublishedBaseURI: DefaultPublishedBaseURI,
			BaseImage:        DefaultBaseImage,
			SDKImage:         DefaultSDKImage,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wolfi-dev/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path means DefaultPath, which may be absent.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				logging.Warn("unknown config keys", "file", path, "keys", undecoded)
			}
		case optional && os.IsNotExist(err):
			logging.Debug("no config file", "path", path)
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if getenv != nil {
		cfg.applyEnv(getenv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvGitHubUsername, &c.GitHubUsername},
		{EnvGCloudUsername, &c.GCloudUsername},
		{EnvDockerRunOpts, &c.DockerRunOpts},
		{EnvTerraform, &c.TerraformPath},
		{EnvSandboxRoot, &c.SandboxRoot},
		{EnvRuntime, &c.Runtime},
		{EnvPullPolicy, &c.PullPolicy},
	}
	for _, o := range overrides {
		if v := getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if c.SandboxRoot == "" || !filepath.IsAbs(c.SandboxRoot) {
		return fmt.Errorf("sandbox_root must be an absolute path (got %q)", c.SandboxRoot)
	}

	validRuntimes := map[string]bool{"auto": true, "docker": true, "podman": true}
	if !validRuntimes[c.Runtime] {
		return fmt.Errorf("invalid runtime: %s (must be auto, docker, or podman)", c.Runtime)
	}

	switch c.PullPolicy {
	case PullAlways, PullMissing:
	case PullMaxAge:
		if c.PullMaxAge <= 0 {
			return fmt.Errorf("pull_max_age must be positive when pull_policy is %s", PullMaxAge)
		}
	default:
		return fmt.Errorf("invalid pull_policy: %s (must be always, missing, or max-age)", c.PullPolicy)
	}

	if _, err := c.DockerArgs(); err != nil {
		return fmt.Errorf("docker_run_opts: %w", err)
	}

	if len(c.Upstream.AlpineSections) == 0 {
		return fmt.Errorf("upstream.alpine_sections must not be empty")
	}

	for _, repo := range []string{c.Upstream.OSRepo, c.Upstream.ImagesRepo} {
		if _, err := ParseRepo(repo); err != nil {
			return err
		}
	}

	return nil
}

// DockerArgs splits docker_run_opts the way a shell would.
func (c *Config) DockerArgs() ([]string, error) {
	if strings.TrimSpace(c.DockerRunOpts) == "" {
		return nil, nil
	}
	return shellquote.Split(c.DockerRunOpts)
}

// AlpineURIFormat returns the melange --base-uri-format for a section.
func (c *Config) AlpineURIFormat(section string) string {
	return strings.TrimSuffix(c.Upstream.AlpineBaseURI, "/") + "/" + section + "/%s/APKBUILD"
}

// AlpineRecipeURL returns the APKBUILD location of pkg in section.
func (c *Config) AlpineRecipeURL(section, pkg string) string {
	return fmt.Sprintf(c.AlpineURIFormat(section), pkg)
}

// PublishedRecipeURL returns where a merged recipe for pkg is published.
func (c *Config) PublishedRecipeURL(pkg string) string {
	return strings.TrimSuffix(c.Upstream.PublishedBaseURI, "/") + "/" + pkg + ".yaml"
}

// TargetRepository is the registry image builds push to.
func (c *Config) TargetRepository() string {
	if c.GCloudUsername == "" {
		return ""
	}
	return "ttl.sh/" + c.GCloudUsername
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
