package bootstrap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/k0sproject/rig"
	"github.com/k0sproject/rig/exec"
	rigos "github.com/k0sproject/rig/os"
	"github.com/k0sproject/rig/os/registry"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
)

// RequiredTools are the executables the workflow commands call.
var RequiredTools = []string{"git", "gh", "make", "docker", "melange", "yam"}

// Host runs shell commands on the machine being provisioned.
// *rig.Connection satisfies it.
type Host interface {
	Exec(cmd string, opts ...exec.Option) error
	ExecOutput(cmd string, opts ...exec.Option) (string, error)
	Sudo(cmd string) (string, error)
}

// OSModule provisions one family of distributions.
type OSModule interface {
	// Family names the group of distributions.
	Family() string
	// Plan maps missing tools to packages and Go modules, deduplicated
	// and in tool order.
	Plan(missing []string) (packages, modules []string)
	// GoPackage provides the go toolchain for the planned modules.
	GoPackage() string
	InstallPackage(h Host, pkgs ...string) error
	AddToGroup(h Host, user, group string) error
}

// catalog maps tools to what provides them on one family.
type catalog struct {
	packages  map[string][]string
	goInstall map[string]string
}

func (c catalog) plan(missing []string) (packages, modules []string) {
	for _, tool := range missing {
		if mod, ok := c.goInstall[tool]; ok {
			modules = append(modules, mod)
			continue
		}
		for _, pkg := range c.packages[tool] {
			if !slices.Contains(packages, pkg) {
				packages = append(packages, pkg)
			}
		}
	}
	return packages, modules
}

var wolfiCatalog = catalog{
	packages: map[string][]string{
		"git":     {"git"},
		"gh":      {"gh"},
		"make":    {"make"},
		"docker":  {"docker"},
		"melange": {"melange"},
		"yam":     {"yam"},
	},
}

var debianCatalog = catalog{
	packages: map[string][]string{
		"git":    {"git"},
		"gh":     {"gh"},
		"make":   {"make"},
		"docker": {"docker.io"},
	},
	goInstall: map[string]string{
		"melange": "chainguard.dev/melange@latest",
		"yam":     "github.com/chainguard-dev/yam@latest",
	},
}

// Wolfi provisions Wolfi and Chainguard OS hosts with apk.
type Wolfi struct {
	rigos.Linux
}

// Debian provisions Debian, Ubuntu and their derivatives with apt-get.
type Debian struct {
	rigos.Linux
}

func init() {
	registry.RegisterOSModule(
		func(os rig.OSVersion) bool {
			return os.ID == "wolfi" || os.ID == "chainguard"
		},
		func() any {
			return &Wolfi{}
		},
	)
	registry.RegisterOSModule(
		func(os rig.OSVersion) bool {
			if os.ID == "debian" || os.ID == "ubuntu" {
				return true
			}
			like := strings.Fields(os.IDLike)
			return slices.Contains(like, "debian") || slices.Contains(like, "ubuntu")
		},
		func() any {
			return &Debian{}
		},
	)
}

func (Wolfi) Family() string { return "wolfi" }

func (Wolfi) Plan(missing []string) ([]string, []string) { return wolfiCatalog.plan(missing) }

// GoPackage is empty: every tool is packaged for wolfi.
func (Wolfi) GoPackage() string { return "" }

// InstallPackage installs packages via apk.
func (Wolfi) InstallPackage(h Host, pkgs ...string) error {
	if err := h.Exec("apk update", exec.Sudo(h), exec.StreamOutput()); err != nil {
		return fmt.Errorf("failed to update apk cache: %w", err)
	}
	if len(pkgs) < 1 {
		return nil
	}
	if err := h.Exec(installCommand("apk add", pkgs), exec.Sudo(h), exec.StreamOutput()); err != nil {
		return fmt.Errorf("failed to install apk packages: %w", err)
	}
	return nil
}

func (Wolfi) AddToGroup(h Host, user, group string) error {
	cmd := "addgroup " + shellescape.Quote(user) + " " + shellescape.Quote(group)
	if err := h.Exec(cmd, exec.Sudo(h)); err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", user, group, err)
	}
	return nil
}

func (Debian) Family() string { return "debian" }

func (Debian) Plan(missing []string) ([]string, []string) { return debianCatalog.plan(missing) }

func (Debian) GoPackage() string { return "golang-go" }

// InstallPackage installs packages via apt-get.
func (Debian) InstallPackage(h Host, pkgs ...string) error {
	if err := h.Exec("apt-get update", exec.Sudo(h), exec.StreamOutput()); err != nil {
		return fmt.Errorf("failed to update apt cache: %w", err)
	}
	if len(pkgs) < 1 {
		return nil
	}
	if err := h.Exec(installCommand("apt-get install -y", pkgs), exec.Sudo(h), exec.StreamOutput()); err != nil {
		return fmt.Errorf("failed to install apt packages: %w", err)
	}
	return nil
}

func (Debian) AddToGroup(h Host, user, group string) error {
	cmd := "usermod -aG " + shellescape.Quote(group) + " " + shellescape.Quote(user)
	if err := h.Exec(cmd, exec.Sudo(h)); err != nil {
		return fmt.Errorf("failed to add %s to %s: %w", user, group, err)
	}
	return nil
}

func installCommand(prefix string, pkgs []string) string {
	var cmd strings.Builder
	cmd.WriteString(prefix)
	cmd.WriteString(" --")
	for _, pkg := range pkgs {
		cmd.WriteRune(' ')
		cmd.WriteString(shellescape.Quote(pkg))
	}
	return cmd.String()
}

// ModuleFor returns the registered module for osv, or an UnsupportedOS
// error.
func ModuleFor(osv rig.OSVersion) (OSModule, error) {
	build, err := registry.GetOSModuleBuilder(osv)
	if err != nil {
		return nil, clierrors.UnsupportedOS(describeOS(osv))
	}
	mod, ok := build().(OSModule)
	if !ok {
		return nil, clierrors.UnsupportedOS(describeOS(osv))
	}
	return mod, nil
}

func describeOS(osv rig.OSVersion) string {
	if osv.Name != "" {
		return osv.Name
	}
	if s := strings.TrimSpace(osv.ID + " " + osv.Version); s != "" {
		return s
	}
	return "unknown"
}
