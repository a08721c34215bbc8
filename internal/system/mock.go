package system

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFS is an in-memory FileSystem. Directories are tracked explicitly,
// and adding a file or directory creates its parents.
type MockFS struct {
	mu    sync.RWMutex
	nodes map[string]*mockNode
	temp  int
	fail  map[string]error
}

type mockNode struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
	dir     bool
}

func dirNode(t time.Time) *mockNode {
	return &mockNode{dir: true, mode: fs.ModeDir | 0755, modTime: t}
}

// NewMockFS creates an empty MockFS.
func NewMockFS() *MockFS {
	return &MockFS{
		nodes: make(map[string]*mockNode),
		fail:  make(map[string]error),
	}
}

// FailOn makes every later call of the named FileSystem method (for
// example "Mkdir" or "Rename") return err. MkdirTemp shares "Mkdir".
func (m *MockFS) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[method] = err
}

func (m *MockFS) failure(method string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fail[method]
}

// AddFile stores a file and creates its parent directories.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, &mockNode{data: data, mode: mode, modTime: time.Now()})
}

// AddDir creates a directory and its parents.
func (m *MockFS) AddDir(path string) {
	m.AddDirAt(path, time.Now())
}

// AddDirAt creates a directory with the given modification time.
func (m *MockFS) AddDirAt(path string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(path, dirNode(modTime))
}

// GetFile returns a file's contents without going through ReadFile.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[path]
	if !ok || n.dir {
		return nil, false
	}
	return n.data, true
}

// put must be called with mu held.
func (m *MockFS) put(path string, n *mockNode) {
	m.nodes[path] = n
	for d := filepath.Dir(path); d != "/" && d != "."; d = filepath.Dir(d) {
		if _, ok := m.nodes[d]; !ok {
			m.nodes[d] = dirNode(time.Now())
		}
	}
}

// within reports whether p is root or below it.
func within(p, root string) bool {
	return p == root || strings.HasPrefix(p, root+"/")
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if err := m.failure("ReadFile"); err != nil {
		return nil, err
	}
	data, ok := m.GetFile(path)
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if err := m.failure("WriteFile"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes[path] = &mockNode{data: data, mode: perm, modTime: time.Now()}
	return nil
}

func (m *MockFS) Remove(path string) error {
	if err := m.failure("Remove"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[path]; !ok {
		return fs.ErrNotExist
	}
	delete(m.nodes, path)
	return nil
}

func (m *MockFS) RemoveAll(path string) error {
	if err := m.failure("RemoveAll"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := range m.nodes {
		if within(p, path) {
			delete(m.nodes, p)
		}
	}
	return nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if err := m.failure("Stat"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return mockInfo{name: filepath.Base(path), node: *n}, nil
}

func (m *MockFS) Mkdir(path string, perm fs.FileMode) error {
	if err := m.failure("Mkdir"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[path]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	m.nodes[path] = dirNode(time.Now())
	return nil
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := m.failure("MkdirAll"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[path]; ok && n.dir {
		return nil
	}
	m.put(path, dirNode(time.Now()))
	return nil
}

// MkdirTemp replaces the first "*" in pattern (or appends) a sequence number.
func (m *MockFS) MkdirTemp(dir, pattern string) (string, error) {
	if err := m.failure("Mkdir"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.temp++
	seq := fmt.Sprint(m.temp)
	name := pattern + seq
	if strings.Contains(pattern, "*") {
		name = strings.Replace(pattern, "*", seq, 1)
	}
	if dir == "" {
		dir = "/tmp"
	}
	path := filepath.Join(dir, name)
	m.put(path, dirNode(time.Now()))
	return path, nil
}

// Rename moves a file or a whole directory tree.
func (m *MockFS) Rename(oldpath, newpath string) error {
	if err := m.failure("Rename"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[oldpath]; !ok {
		return fs.ErrNotExist
	}

	moved := make(map[string]*mockNode)
	for p, n := range m.nodes {
		if within(p, oldpath) {
			moved[newpath+strings.TrimPrefix(p, oldpath)] = n
			delete(m.nodes, p)
		}
	}
	for p, n := range moved {
		m.put(p, n)
	}
	return nil
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.nodes[path]
	return ok
}

func (m *MockFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[path]
	return ok && n.dir
}

// ReadDir lists direct children sorted by name, like os.ReadDir.
func (m *MockFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if err := m.failure("ReadDir"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []fs.DirEntry
	for p, n := range m.nodes {
		if p != path && filepath.Dir(p) == path {
			entries = append(entries, mockInfo{name: filepath.Base(p), node: *n})
		}
	}
	if n, ok := m.nodes[path]; (!ok || !n.dir) && len(entries) == 0 {
		return nil, fs.ErrNotExist
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MockFS) CopyFile(src, dst string) error {
	if err := m.failure("CopyFile"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[src]
	if !ok || n.dir {
		return fs.ErrNotExist
	}
	m.nodes[dst] = &mockNode{data: append([]byte(nil), n.data...), mode: n.mode, modTime: time.Now()}
	return nil
}

// mockInfo serves as both fs.FileInfo and fs.DirEntry.
type mockInfo struct {
	name string
	node mockNode
}

func (i mockInfo) Name() string               { return i.name }
func (i mockInfo) Size() int64                { return int64(len(i.node.data)) }
func (i mockInfo) Mode() fs.FileMode          { return i.node.mode }
func (i mockInfo) ModTime() time.Time         { return i.node.modTime }
func (i mockInfo) IsDir() bool                { return i.node.dir }
func (i mockInfo) Sys() any                   { return nil }
func (i mockInfo) Type() fs.FileMode          { return i.node.mode.Type() }
func (i mockInfo) Info() (fs.FileInfo, error) { return i, nil }

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command prefixes to responses. The longest key that
	// prefixes "name arg1 arg2..." wins.
	Responses map[string]MockResponse

	// Handler, when set, is consulted before Responses. Returning false
	// falls through to the table.
	Handler func(cmd MockCommand) (MockResponse, bool)

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Missing lists executables LookPath should not find.
	Missing map[string]bool

	// ReplaceProcessErr is returned by ReplaceProcess if set.
	ReplaceProcessErr error
}

// MockCommand records an executed command.
type MockCommand struct {
	Name        string
	Args        []string
	Dir         string
	Env         []string
	Interactive bool
}

// Line returns the command as a space-joined string.
func (c MockCommand) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// MockExitError carries an exit code like *exec.ExitError does.
type MockExitError struct {
	Code int
}

func (e *MockExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
func (e *MockExitError) ExitCode() int { return e.Code }

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
		Missing:   make(map[string]bool),
	}
}

// AddResponse adds a response for a specific command prefix.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

func (m *MockExecutor) respond(cmd MockCommand) ([]byte, error) {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	handler := m.Handler
	m.mu.Unlock()

	if handler != nil {
		if resp, ok := handler(cmd); ok {
			return resp.Output, resp.Err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	line := cmd.Line()
	best := ""
	var match *MockResponse
	for pattern, resp := range m.Responses {
		if (line == pattern || strings.HasPrefix(line, pattern+" ")) && len(pattern) >= len(best) {
			best = pattern
			r := resp
			match = &r
		}
	}
	if match != nil {
		return match.Output, match.Err
	}

	return m.DefaultResponse.Output, m.DefaultResponse.Err
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return m.respond(MockCommand{Name: name, Args: args})
}

func (m *MockExecutor) ExecuteIn(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	return m.respond(MockCommand{Name: name, Args: args, Dir: dir})
}

func (m *MockExecutor) ExecuteInteractive(ctx context.Context, opts RunOptions, name string, args ...string) error {
	_, err := m.respond(MockCommand{Name: name, Args: args, Dir: opts.Dir, Env: opts.Env, Interactive: true})
	return err
}

func (m *MockExecutor) ReplaceProcess(name string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args})

	if m.ReplaceProcessErr != nil {
		return m.ReplaceProcessErr
	}
	// In tests, we can't actually replace the process, so just return an error
	// that indicates this was called
	return errors.New("mock: ReplaceProcess called (would exec in real implementation)")
}

func (m *MockExecutor) LookPath(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Missing[name] {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + name, nil
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// CommandsMatching returns the recorded commands whose line starts with prefix.
func (m *MockExecutor) CommandsMatching(prefix string) []MockCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCommand
	for _, c := range m.Commands {
		line := c.Line()
		if line == prefix || strings.HasPrefix(line, prefix+" ") {
			out = append(out, c)
		}
	}
	return out
}

// Lines returns every recorded command as a space-joined string.
func (m *MockExecutor) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]string, len(m.Commands))
	for i, c := range m.Commands {
		lines[i] = c.Line()
	}
	return lines
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}
