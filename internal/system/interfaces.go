// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io"
	"io/fs"
	"os"
)

// FileSystem is the subset of os used by wolfi-dev. Paths are host paths.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)

	// Mkdir creates exactly one directory and fails with fs.ErrExist when
	// the path is taken. Sandbox uniqueness relies on this.
	Mkdir(path string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	MkdirTemp(dir, pattern string) (string, error)

	Rename(oldpath, newpath string) error
	CopyFile(src, dst string) error

	Exists(path string) bool
	IsDir(path string) bool
}

// RunOptions configures a command attached to the terminal.
type RunOptions struct {
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

// CommandExecutor runs external tools.
type CommandExecutor interface {
	// Execute runs a command and returns its combined output.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteIn is Execute with dir as the working directory.
	ExecuteIn(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

	// ExecuteInteractive connects the command to stdin, stdout and stderr
	// and waits for it.
	ExecuteInteractive(ctx context.Context, opts RunOptions, name string, args ...string) error

	// ReplaceProcess execs name in place of the current process. It only
	// returns on failure.
	ReplaceProcess(name string, args ...string) error

	LookPath(name string) (string, error)
}

// DefaultFS returns the FileSystem backed by the os package.
func DefaultFS() FileSystem {
	return &osFileSystem{}
}

// DefaultExecutor returns the CommandExecutor backed by os/exec.
func DefaultExecutor() CommandExecutor {
	return &osExecutor{}
}

type osFileSystem struct{}

func (*osFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (*osFileSystem) Remove(path string) error             { return os.Remove(path) }
func (*osFileSystem) RemoveAll(path string) error          { return os.RemoveAll(path) }
func (*osFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
func (*osFileSystem) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }
func (*osFileSystem) Mkdir(path string, perm fs.FileMode) error  { return os.Mkdir(path, perm) }
func (*osFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
func (*osFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}
func (*osFileSystem) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (*osFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (*osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (*osFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile streams src into dst, keeping the source permissions.
func (*osFileSystem) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// MoveFile renames src to dst, falling back to copy and remove when the
// two paths live on different filesystems.
func MoveFile(fsys FileSystem, src, dst string) error {
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	}
	if err := fsys.CopyFile(src, dst); err != nil {
		return err
	}
	return fsys.Remove(src)
}
