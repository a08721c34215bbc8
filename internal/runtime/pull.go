package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

// PullPolicy decides whether a launch pulls its image first.
type PullPolicy struct {
	// Mode is one of config.PullAlways, config.PullMissing, config.PullMaxAge.
	Mode string
	// MaxAge applies to config.PullMaxAge.
	MaxAge time.Duration
	// Now is replaceable for tests.
	Now func() time.Time
}

// PolicyFromConfig builds the pull policy configured in cfg.
func PolicyFromConfig(cfg *config.Config) PullPolicy {
	return PullPolicy{
		Mode:   cfg.PullPolicy,
		MaxAge: time.Duration(cfg.PullMaxAge),
		Now:    time.Now,
	}
}

// EnsureImage applies policy to image and reports whether it pulled.
// "always" pulls on every call without inspecting. When inspection fails
// under the other modes the image is pulled.
func EnsureImage(ctx context.Context, rt Runtime, image string, policy PullPolicy) (bool, error) {
	mode := policy.Mode
	if mode == "" {
		mode = config.PullAlways
	}

	pull := func(reason string) (bool, error) {
		logging.Debug("pulling image", "image", image, "policy", mode, "reason", reason)
		if err := rt.Pull(ctx, image); err != nil {
			return false, err
		}
		return true, nil
	}

	switch mode {
	case config.PullAlways:
		return pull("always")
	case config.PullMissing, config.PullMaxAge:
	default:
		return false, fmt.Errorf("unknown pull policy: %s", mode)
	}

	info, err := rt.Inspect(ctx, image)
	if err != nil {
		logging.Warn("could not inspect image, pulling", "image", image, "error", err)
		return pull("inspect failed")
	}
	if !info.Present {
		return pull("missing")
	}
	if mode == config.PullMissing {
		logging.Debug("image present, skipping pull", "image", image)
		return false, nil
	}

	now := time.Now
	if policy.Now != nil {
		now = policy.Now
	}
	if age := now().Sub(info.LastTagTime); age > policy.MaxAge {
		return pull(fmt.Sprintf("stale (%s old)", age.Round(time.Minute)))
	}
	logging.Debug("image fresh, skipping pull", "image", image)
	return false, nil
}
