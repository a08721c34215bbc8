package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

// Result is the outcome of an existence probe.
type Result int

const (
	// Failed means the probe could not decide (network error, 5xx, ...).
	Failed Result = iota
	// Found means the resource exists.
	Found
	// NotFound means the server positively reported absence.
	NotFound
)

func (r Result) String() string {
	switch r {
	case Found:
		return "found"
	case NotFound:
		return "not-found"
	default:
		return "failed"
	}
}

// Prober checks whether a remote resource exists.
type Prober interface {
	Probe(ctx context.Context, url string) (Result, error)
}

// HTTPProber probes URLs with HEAD requests.
type HTTPProber struct {
	client    *http.Client
	userAgent string
}

// NewHTTPProber creates a prober whose requests time out after timeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		client:    &http.Client{Timeout: timeout},
		userAgent: "wolfi-dev",
	}
}

// Probe issues a HEAD request for url. 2xx is Found, 404 and 410 are
// NotFound. Anything else, including transport errors, is Failed with a
// non-nil error. Servers that reject HEAD are retried with GET.
func (p *HTTPProber) Probe(ctx context.Context, url string) (Result, error) {
	status, err := p.do(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = p.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		logging.Debug("probe failed", "url", url, "error", err)
		return Failed, err
	}

	result, err := classify(status)
	logging.Debug("probe", "url", url, "status", status, "result", result)
	return result, err
}

func (p *HTTPProber) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return resp.StatusCode, nil
}

func classify(status int) (Result, error) {
	switch {
	case status >= 200 && status < 300:
		return Found, nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return NotFound, nil
	default:
		return Failed, fmt.Errorf("unexpected status: %d %s", status, http.StatusText(status))
	}
}

// MockProber returns canned results for tests.
type MockProber struct {
	mu sync.Mutex

	// Results maps a URL to its outcome. Unknown URLs are NotFound.
	Results map[string]Result

	// Errors maps a URL to the error returned with a Failed result.
	Errors map[string]error

	// Calls records every probed URL.
	Calls []string
}

// NewMockProber creates an empty MockProber.
func NewMockProber() *MockProber {
	return &MockProber{
		Results: make(map[string]Result),
		Errors:  make(map[string]error),
	}
}

// Set registers the outcome for url.
func (m *MockProber) Set(url string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[url] = result
}

// Fail registers a Failed outcome with err for url.
func (m *MockProber) Fail(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[url] = Failed
	m.Errors[url] = err
}

func (m *MockProber) Probe(ctx context.Context, url string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, url)

	result, ok := m.Results[url]
	if !ok {
		return NotFound, nil
	}
	if result == Failed {
		err := m.Errors[url]
		if err == nil {
			err = fmt.Errorf("mock: probe of %s failed", url)
		}
		return Failed, err
	}
	return result, nil
}

// Called reports whether url was probed.
func (m *MockProber) Called(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Calls {
		if c == url {
			return true
		}
	}
	return false
}
