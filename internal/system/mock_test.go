package system

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMockFS_ReadWriteFile(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.WriteFile("/test/file.txt", []byte("hello world"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	data, err := mockFS.ReadFile("/test/file.txt")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("ReadFile = %q, want %q", string(data), "hello world")
	}

	if _, err := mockFS.ReadFile("/nonexistent"); err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_Mkdir(t *testing.T) {
	mockFS := NewMockFS()

	if err := mockFS.Mkdir("/tmp/box", 0755); err != nil {
		t.Fatalf("Mkdir error: %v", err)
	}
	if !mockFS.IsDir("/tmp/box") {
		t.Error("/tmp/box should be a directory")
	}

	err := mockFS.Mkdir("/tmp/box", 0755)
	if !errors.Is(err, fs.ErrExist) {
		t.Errorf("second Mkdir error = %v, want fs.ErrExist", err)
	}
}

func TestMockFS_MkdirTemp(t *testing.T) {
	mockFS := NewMockFS()

	a, err := mockFS.MkdirTemp("/scratch", "convert-*")
	if err != nil {
		t.Fatalf("MkdirTemp error: %v", err)
	}
	b, _ := mockFS.MkdirTemp("/scratch", "convert-*")

	if a == b {
		t.Errorf("MkdirTemp returned the same path twice: %s", a)
	}
	if filepath.Dir(a) != "/scratch" {
		t.Errorf("MkdirTemp dir = %s, want /scratch", filepath.Dir(a))
	}
	if !mockFS.IsDir(a) {
		t.Errorf("%s should exist", a)
	}
}

func TestMockFS_RenameFileAndDir(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/a/curl.yaml", []byte("package: {}"), 0644)
	mockFS.AddFile("/tree/sub/file", []byte("x"), 0644)

	if err := mockFS.Rename("/a/curl.yaml", "/b/curl.yaml"); err != nil {
		t.Fatalf("Rename file error: %v", err)
	}
	if mockFS.Exists("/a/curl.yaml") || !mockFS.Exists("/b/curl.yaml") {
		t.Error("file should have moved")
	}

	if err := mockFS.Rename("/tree", "/moved"); err != nil {
		t.Fatalf("Rename dir error: %v", err)
	}
	if _, ok := mockFS.GetFile("/moved/sub/file"); !ok {
		t.Error("nested file should follow its directory")
	}

	if err := mockFS.Rename("/missing", "/x"); err != fs.ErrNotExist {
		t.Errorf("Rename missing error = %v, want fs.ErrNotExist", err)
	}
}

func TestMoveFile_FallsBackToCopy(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/scratch/curl.yaml", []byte("data"), 0644)
	mockFS.FailOn("Rename", errors.New("invalid cross-device link"))

	if err := MoveFile(mockFS, "/scratch/curl.yaml", "/repo/curl.yaml"); err != nil {
		t.Fatalf("MoveFile error: %v", err)
	}

	if data, ok := mockFS.GetFile("/repo/curl.yaml"); !ok || string(data) != "data" {
		t.Errorf("destination = %q, %v", data, ok)
	}
	if mockFS.Exists("/scratch/curl.yaml") {
		t.Error("source should be removed after copy")
	}
}

func TestMockFS_ReadDirReportsModTime(t *testing.T) {
	mockFS := NewMockFS()
	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	mockFS.AddDirAt("/root/old", old)
	mockFS.AddFile("/root/file.txt", []byte("x"), 0644)

	entries, err := mockFS.ReadDir("/root")
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ReadDir returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Name() != "old" {
			continue
		}
		info, _ := e.Info()
		if !info.ModTime().Equal(old) {
			t.Errorf("ModTime = %v, want %v", info.ModTime(), old)
		}
		if !e.IsDir() {
			t.Error("old should be a directory")
		}
	}
}

func TestMockFS_RemoveAll(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/dir/file1.txt", []byte("x"), 0644)
	mockFS.AddDir("/dir/subdir")
	mockFS.AddFile("/dirx/keep.txt", []byte("y"), 0644)

	if err := mockFS.RemoveAll("/dir"); err != nil {
		t.Fatalf("RemoveAll error: %v", err)
	}

	if mockFS.Exists("/dir/file1.txt") || mockFS.Exists("/dir/subdir") || mockFS.Exists("/dir") {
		t.Error("/dir tree should be removed")
	}
	if !mockFS.Exists("/dirx/keep.txt") {
		t.Error("sibling with shared prefix should survive")
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.FailOn("ReadFile", fs.ErrPermission)

	if _, err := mockFS.ReadFile("/anything"); err != fs.ErrPermission {
		t.Errorf("ReadFile error = %v, want ErrPermission", err)
	}
}

func TestOSFileSystem_MkdirIsExclusive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "box")
	fsys := &osFileSystem{}

	if err := fsys.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Mkdir error: %v", err)
	}
	if err := fsys.Mkdir(dir, 0755); !errors.Is(err, fs.ErrExist) {
		t.Errorf("second Mkdir error = %v, want fs.ErrExist", err)
	}
}

func TestMoveFile_OSFileSystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.yaml")
	dst := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MoveFile(&osFileSystem{}, src, dst); err != nil {
		t.Fatalf("MoveFile error: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("destination missing: %v", err)
	}
}

func TestMockExecutor_LongestPrefixWins(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("git", []byte("generic"), nil)
	exec.AddResponse("git ls-remote", []byte("remote"), nil)
	exec.AddResponse("git ls-remote --exit-code", []byte("exact"), nil)

	out, _ := exec.Execute(context.Background(), "git", "ls-remote", "--exit-code", "--heads", "origin")
	if string(out) != "exact" {
		t.Errorf("output = %q, want %q", out, "exact")
	}

	out, _ = exec.Execute(context.Background(), "git", "clone", "x")
	if string(out) != "generic" {
		t.Errorf("output = %q, want %q", out, "generic")
	}

	// "git ls" must not match "git ls-remote"
	exec.AddResponse("git ls", []byte("wrong"), nil)
	out, _ = exec.Execute(context.Background(), "git", "ls-remote")
	if string(out) != "remote" {
		t.Errorf("output = %q, want %q", out, "remote")
	}
}

func TestMockExecutor_HandlerAndDefault(t *testing.T) {
	exec := NewMockExecutor()
	exec.DefaultResponse = MockResponse{Output: []byte("default")}
	exec.Handler = func(cmd MockCommand) (MockResponse, bool) {
		if cmd.Name == "melange" {
			return MockResponse{Output: []byte("handled")}, true
		}
		return MockResponse{}, false
	}

	out, _ := exec.Execute(context.Background(), "melange", "convert")
	if string(out) != "handled" {
		t.Errorf("output = %q, want %q", out, "handled")
	}

	out, _ = exec.Execute(context.Background(), "unknown", "command")
	if string(out) != "default" {
		t.Errorf("output = %q, want %q", out, "default")
	}
}

func TestMockExecutor_RecordsDirAndEnv(t *testing.T) {
	exec := NewMockExecutor()
	exitErr := &MockExitError{Code: 3}
	exec.AddResponse("make local-wolfi", nil, exitErr)

	err := exec.ExecuteInteractive(context.Background(), RunOptions{Dir: "/src", Env: []string{"A=1"}}, "make", "local-wolfi")
	if err != exitErr {
		t.Errorf("error = %v, want %v", err, exitErr)
	}

	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("No command recorded")
	}
	if cmd.Dir != "/src" || len(cmd.Env) != 1 || !cmd.Interactive {
		t.Errorf("recorded command = %+v", cmd)
	}

	if got := exec.CommandsMatching("make"); len(got) != 1 {
		t.Errorf("CommandsMatching(make) = %d, want 1", len(got))
	}
	if got := exec.Lines(); len(got) != 1 || got[0] != "make local-wolfi" {
		t.Errorf("Lines() = %v", got)
	}
}

func TestMockExecutor_LookPath(t *testing.T) {
	exec := NewMockExecutor()
	exec.Missing["yam"] = true

	if _, err := exec.LookPath("git"); err != nil {
		t.Errorf("LookPath(git) error: %v", err)
	}
	if _, err := exec.LookPath("yam"); err == nil {
		t.Error("LookPath(yam) should fail")
	}
}

func TestMockExecutor_Reset(t *testing.T) {
	exec := NewMockExecutor()
	exec.Execute(context.Background(), "cmd1")
	exec.Execute(context.Background(), "cmd2")

	if len(exec.Commands) != 2 {
		t.Errorf("Commands length = %d, want 2", len(exec.Commands))
	}

	exec.Reset()

	if len(exec.Commands) != 0 {
		t.Errorf("Commands length after reset = %d, want 0", len(exec.Commands))
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine("docker", "run", "-e", "A=b c")
	if got != `docker run -e 'A=b c'` {
		t.Errorf("CommandLine() = %q", got)
	}
}
