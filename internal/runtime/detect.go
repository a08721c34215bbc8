package runtime

import (
	"fmt"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// RuntimeType identifies which container runtime to use
type RuntimeType string

const (
	RuntimeDocker RuntimeType = "docker"
	RuntimePodman RuntimeType = "podman"
	RuntimeAuto   RuntimeType = "auto"
)

// detectionOrder is the auto-detection preference.
var detectionOrder = []RuntimeType{RuntimeDocker, RuntimePodman}

// Detect resolves want to an installed runtime. "auto" (or empty) picks the
// first of docker and podman found on PATH.
func Detect(want RuntimeType, exec system.CommandExecutor) (RuntimeType, error) {
	switch want {
	case RuntimeDocker, RuntimePodman:
		if _, err := exec.LookPath(string(want)); err != nil {
			if found := Available(exec); len(found) > 0 {
				return "", fmt.Errorf("%s not found in PATH, but %s is (set runtime = \"%s\" or \"auto\")", want, found[0], found[0])
			}
			return "", fmt.Errorf("%s not found in PATH (run wolfi-dev bootstrap)", want)
		}
		return want, nil
	case RuntimeAuto, "":
		found := Available(exec)
		if len(found) == 0 {
			return "", fmt.Errorf("neither %s nor %s found in PATH (run wolfi-dev bootstrap)", detectionOrder[0], detectionOrder[1])
		}
		logging.Debug("detected container runtime", "runtime", found[0])
		return found[0], nil
	default:
		return "", fmt.Errorf("unknown runtime: %s", want)
	}
}

// Available returns the runtimes found on PATH.
func Available(exec system.CommandExecutor) []RuntimeType {
	var found []RuntimeType
	for _, rt := range detectionOrder {
		if _, err := exec.LookPath(string(rt)); err == nil {
			found = append(found, rt)
		}
	}
	return found
}

// New detects the runtime selected by want and returns it.
func New(want RuntimeType, exec system.CommandExecutor) (Runtime, error) {
	rt, err := Detect(want, exec)
	if err != nil {
		return nil, err
	}
	return NewDockerRuntime(string(rt), exec), nil
}
