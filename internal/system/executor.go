package system

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return e.ExecuteIn(ctx, "", name, args...)
}

func (e *osExecutor) ExecuteIn(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	logging.Debug("exec", "cmd", CommandLine(name, args...), "dir", dir)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (e *osExecutor) ExecuteInteractive(ctx context.Context, opts RunOptions, name string, args ...string) error {
	logging.Debug("exec interactive", "cmd", CommandLine(name, args...), "dir", opts.Dir)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (e *osExecutor) ReplaceProcess(name string, args ...string) error {
	binary, err := exec.LookPath(name)
	if err != nil {
		return err
	}

	logging.Debug("exec replace", "cmd", CommandLine(name, args...))

	// Build argv with program name as first element
	argv := append([]string{name}, args...)

	return syscall.Exec(binary, argv, os.Environ())
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// CommandLine renders a command as a shell-quoted string for logs and errors.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
