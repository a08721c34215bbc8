package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProber_Probe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		switch r.URL.Path {
		case "/main/curl/APKBUILD":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tests := []struct {
		path    string
		want    Result
		wantErr bool
	}{
		{"/main/curl/APKBUILD", Found, false},
		{"/community/curl/APKBUILD", NotFound, false},
		{"/gone", NotFound, false},
		{"/broken", Failed, true},
	}

	p := NewHTTPProber(5 * time.Second)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := p.Probe(context.Background(), srv.URL+tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Probe() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPProber_FallsBackToGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte("package:\n  name: curl\n"))
	}))
	defer srv.Close()

	got, err := NewHTTPProber(5*time.Second).Probe(context.Background(), srv.URL+"/curl.yaml")
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if got != Found {
		t.Errorf("Probe() = %v, want found", got)
	}
}

func TestHTTPProber_TransportErrorIsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got, err := NewHTTPProber(time.Second).Probe(context.Background(), url)
	if err == nil {
		t.Error("Probe() should return an error for an unreachable server")
	}
	if got != Failed {
		t.Errorf("Probe() = %v, want failed", got)
	}
}

func TestHTTPProber_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	got, err := NewHTTPProber(50*time.Millisecond).Probe(context.Background(), srv.URL)
	if err == nil || got != Failed {
		t.Errorf("Probe() = %v, %v; want failed with error", got, err)
	}
}

func TestResult_String(t *testing.T) {
	tests := map[Result]string{
		Found:    "found",
		NotFound: "not-found",
		Failed:   "failed",
	}
	for r, want := range tests {
		if got := r.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestMockProber(t *testing.T) {
	m := NewMockProber()
	m.Set("https://a", Found)
	m.Fail("https://b", errors.New("timeout"))

	if r, _ := m.Probe(context.Background(), "https://a"); r != Found {
		t.Errorf("Probe(a) = %v", r)
	}
	if r, err := m.Probe(context.Background(), "https://b"); r != Failed || err == nil {
		t.Errorf("Probe(b) = %v, %v", r, err)
	}
	if r, _ := m.Probe(context.Background(), "https://c"); r != NotFound {
		t.Errorf("Probe(c) = %v", r)
	}
	if !m.Called("https://c") || m.Called("https://d") {
		t.Error("Called() does not reflect probed URLs")
	}
}
