package sandbox

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

// Stale returns the sandboxes created more than olderThan ago.
func (d *Director) Stale(olderThan time.Duration) ([]Info, error) {
	all, err := d.List()
	if err != nil {
		return nil, err
	}

	now := d.Now()
	var stale []Info
	for _, sb := range all {
		if sb.Age(now) > olderThan {
			stale = append(stale, sb)
		}
	}
	return stale, nil
}

// Remove deletes a sandbox directory. Only directories directly below Root
// with a sandbox name are accepted.
func (d *Director) Remove(sb Info) error {
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return fmt.Errorf("invalid sandbox root: %w", err)
	}

	if filepath.Dir(sb.Path) != root || !sandboxNameRegex.MatchString(filepath.Base(sb.Path)) {
		return fmt.Errorf("refusing to remove %s: not a sandbox below %s", sb.Path, root)
	}

	logging.Debug("removing sandbox", "path", sb.Path)
	if err := d.FS.RemoveAll(sb.Path); err != nil {
		return fmt.Errorf("failed to remove sandbox %s: %w", sb.Name, err)
	}
	return nil
}

// PruneResult reports what Prune removed.
type PruneResult struct {
	Removed []Info
	Failed  map[string]error
}

// Prune removes every stale sandbox. onRemove, when set, is called after
// each attempt so callers can drive a progress display. Failures do not
// stop the sweep.
func (d *Director) Prune(olderThan time.Duration, onRemove func(Info, error)) (*PruneResult, error) {
	stale, err := d.Stale(olderThan)
	if err != nil {
		return nil, err
	}

	result := &PruneResult{Failed: make(map[string]error)}
	for _, sb := range stale {
		err := d.Remove(sb)
		if err != nil {
			result.Failed[sb.Name] = err
		} else {
			result.Removed = append(result.Removed, sb)
		}
		if onRemove != nil {
			onRemove(sb, err)
		}
	}
	return result, nil
}
