package bootstrap

import (
	"strings"
	"sync"

	"github.com/k0sproject/rig"
	"github.com/k0sproject/rig/exec"
)

// MockHost implements Host for testing. Commands are recorded after exec
// options are applied, so sudo-wrapped commands appear as "sudo <cmd>"
// unless Root is set.
type MockHost struct {
	mu sync.Mutex

	// Commands records every executed command line.
	Commands []string

	// Responses maps command prefixes to responses; the longest match wins.
	Responses map[string]MockHostResponse

	// Root makes Sudo a no-op.
	Root bool

	// Closed is set when the target built by Target is closed.
	Closed bool
}

// MockHostResponse defines the response for a command.
type MockHostResponse struct {
	Output string
	Err    error
}

// NewMockHost creates a new MockHost.
func NewMockHost() *MockHost {
	return &MockHost{Responses: make(map[string]MockHostResponse)}
}

// AddResponse adds a response for a command prefix.
func (m *MockHost) AddResponse(pattern, output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockHostResponse{Output: output, Err: err}
}

// Target wraps the host as a connected target reporting osv.
func (m *MockHost) Target(osv rig.OSVersion) *Target {
	return NewTarget(m, osv, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Closed = true
	})
}

func (m *MockHost) Sudo(cmd string) (string, error) {
	if m.Root {
		return cmd, nil
	}
	return "sudo " + cmd, nil
}

func (m *MockHost) Exec(cmd string, opts ...exec.Option) error {
	_, err := m.ExecOutput(cmd, opts...)
	return err
}

func (m *MockHost) ExecOutput(cmd string, opts ...exec.Option) (string, error) {
	line, err := exec.Build(opts...).Command(cmd)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = append(m.Commands, line)

	best := ""
	var match *MockHostResponse
	for pattern, resp := range m.Responses {
		if (line == pattern || strings.HasPrefix(line, pattern+" ")) && len(pattern) >= len(best) {
			best = pattern
			r := resp
			match = &r
		}
	}
	if match == nil {
		return "", nil
	}
	return match.Output, match.Err
}

// Lines returns a copy of the recorded commands.
func (m *MockHost) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Commands...)
}
