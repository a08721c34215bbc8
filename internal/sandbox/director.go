package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

const (
	// NamePrefix starts every sandbox directory name.
	NamePrefix = "wolfi-dev"

	timestampLayout = "20060102-150405"
	suffixAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLen       = 8
	maxAttempts     = 16
)

// sandboxNameRegex matches names produced by Create.
var sandboxNameRegex = regexp.MustCompile(`^` + NamePrefix + `-(\d{8}-\d{6})-[a-z0-9]{8}$`)

// Director creates and tracks sandbox directories below Root.
type Director struct {
	Root string
	FS   system.FileSystem

	// Now and Suffix are replaceable for tests.
	Now    func() time.Time
	Suffix func() string
}

// Info describes an existing sandbox directory.
type Info struct {
	Name      string
	Path      string
	CreatedAt time.Time
}

// Age returns how long ago the sandbox was created.
func (i Info) Age(now time.Time) time.Duration {
	return now.Sub(i.CreatedAt)
}

// NewDirector returns a Director rooted at root.
func NewDirector(root string, fsys system.FileSystem) *Director {
	return &Director{
		Root:   root,
		FS:     fsys,
		Now:    time.Now,
		Suffix: randomSuffix,
	}
}

func randomSuffix() string {
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// Name builds a sandbox name for the given time and suffix.
func Name(t time.Time, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", NamePrefix, t.Format(timestampLayout), suffix)
}

// Create makes a new, empty sandbox directory and returns its absolute path.
// The directory is created with an exclusive mkdir; on a name collision a
// fresh suffix is drawn.
func (d *Director) Create() (string, error) {
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return "", fmt.Errorf("invalid sandbox root: %w", err)
	}
	if err := d.FS.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create sandbox root: %w", err)
	}

	stamp := d.Now()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		path := filepath.Join(root, Name(stamp, d.Suffix()))
		err := d.FS.Mkdir(path, 0755)
		if err == nil {
			logging.Debug("created sandbox", "path", path)
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create sandbox: %w", err)
		}
		logging.Debug("sandbox name taken, retrying", "path", path)
	}

	return "", fmt.Errorf("failed to create sandbox: no free name after %d attempts", maxAttempts)
}

// List returns the sandboxes below Root, newest first.
func (d *Director) List() ([]Info, error) {
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox root: %w", err)
	}

	entries, err := d.FS.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sandbox root: %w", err)
	}

	var sandboxes []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := sandboxNameRegex.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		created, err := time.ParseInLocation(timestampLayout, m[1], time.Local)
		if err != nil {
			if info, infoErr := entry.Info(); infoErr == nil {
				created = info.ModTime()
			}
		}

		sandboxes = append(sandboxes, Info{
			Name:      entry.Name(),
			Path:      filepath.Join(root, entry.Name()),
			CreatedAt: created,
		})
	}

	sort.Slice(sandboxes, func(i, j int) bool {
		return sandboxes[i].CreatedAt.After(sandboxes[j].CreatedAt)
	})

	return sandboxes, nil
}
