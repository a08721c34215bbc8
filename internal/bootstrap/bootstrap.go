package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/k0sproject/rig"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/system"
)

// DockerGroup grants access to the docker daemon socket.
const DockerGroup = "docker"

// Bootstrapper provisions the host with the workflow's tools. Package
// installs and group changes run over the rig connection; user-level
// commands run through Exec.
type Bootstrapper struct {
	Exec    system.CommandExecutor
	Connect Connector

	Getenv func(string) string
	Setenv func(key, value string) error
}

// New returns a Bootstrapper for the local machine.
func New(exec system.CommandExecutor) *Bootstrapper {
	return &Bootstrapper{
		Exec:    exec,
		Connect: LocalTarget,
		Getenv:  os.Getenv,
		Setenv:  os.Setenv,
	}
}

// Options controls a bootstrap run.
type Options struct {
	// NoNewgrp skips entering a new group session after joining docker.
	NoNewgrp bool
}

// Report summarises what a run changed.
type Report struct {
	OS           rig.OSVersion
	Family       string
	Missing      []string
	Packages     []string
	GoModules    []string
	PathLine     string
	AddedToGroup bool
}

// Run detects the OS, installs missing tools and ensures docker group
// membership. When the user was added to the group and NoNewgrp is unset,
// the process is replaced by "newgrp docker", so Run only returns on error.
func (b *Bootstrapper) Run(ctx context.Context, opts Options) (*Report, error) {
	target, err := b.Connect()
	if err != nil {
		return nil, err
	}
	defer target.Close()

	mod, err := ModuleFor(target.OS)
	if err != nil {
		return nil, err
	}
	report := &Report{OS: target.OS, Family: mod.Family()}
	logging.UserInfo("Detected %s (%s family)", describeOS(target.OS), mod.Family())

	binDir, err := b.extendPath()
	if err != nil {
		return nil, err
	}
	report.PathLine = fmt.Sprintf(`export PATH="$PATH:%s"`, binDir)

	report.Missing = MissingTools(b.Exec, RequiredTools...)
	report.Packages, report.GoModules = mod.Plan(report.Missing)
	if len(report.GoModules) > 0 {
		if _, err := b.Exec.LookPath("go"); err != nil && mod.GoPackage() != "" {
			report.Packages = append(report.Packages, mod.GoPackage())
		}
	}

	if len(report.Packages) > 0 {
		if err := mod.InstallPackage(target.Host, report.Packages...); err != nil {
			return nil, clierrors.CommandFailed(mod.Family()+" package install", err)
		}
	}

	for _, m := range report.GoModules {
		err := b.Exec.ExecuteInteractive(ctx, system.RunOptions{Env: []string{"GOBIN=" + binDir}}, "go", "install", m)
		if err != nil {
			return nil, clierrors.CommandFailed("go install "+m, err)
		}
	}

	if len(report.Packages)+len(report.GoModules) > 0 {
		logging.UserSuccess("Installed %s", strings.Join(append(slices.Clone(report.Packages), report.GoModules...), ", "))
	} else {
		logging.UserSuccess("All required tools are installed")
	}
	if len(report.GoModules) > 0 {
		logging.UserInfo("Add this to your shell profile: %s", report.PathLine)
	}

	inGroup, err := b.inGroup(ctx, DockerGroup)
	if err != nil {
		return nil, err
	}
	if inGroup {
		return report, nil
	}

	user, err := b.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := mod.AddToGroup(target.Host, user, DockerGroup); err != nil {
		return nil, clierrors.CommandFailed("adding "+user+" to the "+DockerGroup+" group", err)
	}
	report.AddedToGroup = true
	logging.UserSuccess("Added %s to the %s group", user, DockerGroup)

	if opts.NoNewgrp {
		logging.UserWarning("Log out and back in (or run 'newgrp %s') for the group change to apply", DockerGroup)
		return report, nil
	}
	target.Close()
	if err := b.Exec.ReplaceProcess("newgrp", DockerGroup); err != nil {
		return report, fmt.Errorf("failed to start newgrp session: %w", err)
	}
	return report, nil
}

// extendPath adds $HOME/go/bin to PATH for this process and returns it.
func (b *Bootstrapper) extendPath() (string, error) {
	home := b.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("HOME is not set")
	}
	binDir := filepath.Join(home, "go", "bin")

	path := b.Getenv("PATH")
	if slices.Contains(filepath.SplitList(path), binDir) {
		return binDir, nil
	}
	if path != "" {
		path += string(os.PathListSeparator)
	}
	if err := b.Setenv("PATH", path+binDir); err != nil {
		return "", fmt.Errorf("failed to extend PATH: %w", err)
	}
	logging.Debug("extended PATH", "dir", binDir)
	return binDir, nil
}

func (b *Bootstrapper) inGroup(ctx context.Context, group string) (bool, error) {
	out, err := b.Exec.Execute(ctx, "id", "-nG")
	if err != nil {
		return false, clierrors.CommandFailed("id -nG", err)
	}
	return slices.Contains(strings.Fields(string(out)), group), nil
}

func (b *Bootstrapper) currentUser(ctx context.Context) (string, error) {
	if user := b.Getenv("USER"); user != "" {
		return user, nil
	}
	out, err := b.Exec.Execute(ctx, "id", "-un")
	if err != nil {
		return "", clierrors.CommandFailed("id -un", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// MissingTools returns the tools not found on PATH, in the given order.
func MissingTools(exec system.CommandExecutor, tools ...string) []string {
	var missing []string
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}

// CheckTools fails with a pointer to "wolfi-dev bootstrap" when any of
// tools is missing.
func CheckTools(exec system.CommandExecutor, tools ...string) error {
	missing := MissingTools(exec, tools...)
	if len(missing) == 0 {
		return nil
	}
	return clierrors.New(clierrors.ExitMissingInput,
		fmt.Sprintf("missing required tools: %s (run 'wolfi-dev bootstrap')", strings.Join(missing, ", ")))
}
