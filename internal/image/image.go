// Package image builds and scaffolds container images in an image
// repository checkout through its Makefile.
package image

import (
	"context"
	"fmt"
	"regexp"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// validImageName matches image names accepted by the image repository.
var validImageName = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Builder runs image targets in Dir.
type Builder struct {
	Config *config.Config
	Exec   system.CommandExecutor
	Dir    string
}

// Env returns the environment passed to make: the target repository for
// pushed images and, when configured, the terraform binary.
func (b *Builder) Env() []string {
	target := b.Config.TargetRepository()
	if target == "" {
		target = "target_repository"
	}
	env := []string{"TF_VAR_target_repository=" + target}
	if b.Config.TerraformPath != "" {
		env = append(env, "TERRAFORM="+b.Config.TerraformPath)
	}
	return env
}

// Build runs make image/<name>.
func (b *Builder) Build(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if b.Config.GCloudUsername == "" {
		logging.UserWarning("%s is not set; images will not be pushed to ttl.sh", config.EnvGCloudUsername)
	}
	return b.make(ctx, "image/"+name)
}

// Scaffold runs make init-image for a new image with the given entrypoint.
func (b *Builder) Scaffold(ctx context.Context, name, entrypoint string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if entrypoint == "" {
		return clierrors.MissingInput("entrypoint")
	}
	return b.make(ctx, "init-image", "IMAGE_NAME="+name, "ENTRYPOINT="+entrypoint)
}

func (b *Builder) make(ctx context.Context, args ...string) error {
	logging.Debug("running image target", "dir", b.Dir, "target", args[0])
	opts := system.RunOptions{Dir: b.Dir, Env: b.Env()}
	if err := b.Exec.ExecuteInteractive(ctx, opts, "make", args...); err != nil {
		return clierrors.CommandFailed("make "+args[0], err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return clierrors.MissingInput("image name")
	}
	if !validImageName.MatchString(name) {
		return clierrors.InvalidInput(fmt.Sprintf("image name %q contains invalid characters (allowed: lowercase alphanumeric, dots, hyphens, underscores)", name))
	}
	return nil
}
