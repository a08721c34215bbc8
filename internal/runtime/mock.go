package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockRuntime is a mock implementation of Runtime for testing
type MockRuntime struct {
	mu sync.RWMutex

	// Images tracks locally stored images by reference
	Images map[string]*ImageInfo

	// Errors allows injecting errors for specific operations
	// ("Pull", "Inspect", "Run")
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []MockCall

	// Runs records the options of every Run call
	Runs []RunOptions

	// Now stamps pulled images; defaults to time.Now
	Now func() time.Time
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockRuntime creates a new mock runtime
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{
		Images:  make(map[string]*ImageInfo),
		Errors:  make(map[string]error),
		CallLog: make([]MockCall, 0),
	}
}

func (m *MockRuntime) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockRuntime) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// AddImage records image as present, last tagged at tagged
func (m *MockRuntime) AddImage(image string, tagged time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[image] = &ImageInfo{Ref: image, Present: true, LastTagTime: tagged}
}

// GetCalls returns all recorded calls
func (m *MockRuntime) GetCalls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	calls := make([]MockCall, len(m.CallLog))
	copy(calls, m.CallLog)
	return calls
}

// Methods returns the names of the recorded calls in order
func (m *MockRuntime) Methods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.CallLog))
	for i, c := range m.CallLog {
		out[i] = c.Method
	}
	return out
}

// ClearCalls clears the call log
func (m *MockRuntime) ClearCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = make([]MockCall, 0)
	m.Runs = nil
}

func (m *MockRuntime) Name() string {
	return "mock"
}

func (m *MockRuntime) Pull(ctx context.Context, image string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Pull", image)

	if err := m.Errors["Pull"]; err != nil {
		return err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	m.Images[image] = &ImageInfo{Ref: image, Present: true, LastTagTime: now()}
	return nil
}

func (m *MockRuntime) Inspect(ctx context.Context, image string) (*ImageInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Inspect", image)

	if err := m.Errors["Inspect"]; err != nil {
		return nil, err
	}
	if info, ok := m.Images[image]; ok {
		cp := *info
		return &cp, nil
	}
	return &ImageInfo{Ref: image}, nil
}

func (m *MockRuntime) Run(ctx context.Context, opts RunOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Run", opts.Image)
	m.Runs = append(m.Runs, opts)

	if err := m.Errors["Run"]; err != nil {
		return err
	}
	if info, ok := m.Images[opts.Image]; !ok || !info.Present {
		return fmt.Errorf("mock: image %s not present locally", opts.Image)
	}
	return nil
}

// Ensure MockRuntime implements Runtime
var _ Runtime = (*MockRuntime)(nil)
