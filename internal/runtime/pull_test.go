package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/firefly-engineering/wolfi-dev/internal/config"
)

const sdkImage = "ghcr.io/wolfi-dev/sdk:latest"

func TestEnsureImage(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		mode       string
		maxAge     time.Duration
		taggedAgo  time.Duration // negative means absent
		inspectErr error
		wantPull   bool
		wantCalls  string
	}{
		{"always pulls present image", config.PullAlways, 0, time.Minute, nil, true, "Pull"},
		{"empty mode means always", "", 0, time.Minute, nil, true, "Pull"},
		{"missing skips present image", config.PullMissing, 0, 30 * 24 * time.Hour, nil, false, "Inspect"},
		{"missing pulls absent image", config.PullMissing, 0, -1, nil, true, "Inspect,Pull"},
		{"max-age skips fresh image", config.PullMaxAge, 24 * time.Hour, time.Hour, nil, false, "Inspect"},
		{"max-age pulls stale image", config.PullMaxAge, 24 * time.Hour, 48 * time.Hour, nil, true, "Inspect,Pull"},
		{"max-age pulls absent image", config.PullMaxAge, 24 * time.Hour, -1, nil, true, "Inspect,Pull"},
		{"inspect failure pulls", config.PullMissing, 0, time.Hour, errors.New("daemon down"), true, "Inspect,Pull"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewMockRuntime()
			if tt.taggedAgo >= 0 {
				rt.AddImage(sdkImage, now.Add(-tt.taggedAgo))
			}
			if tt.inspectErr != nil {
				rt.SetError("Inspect", tt.inspectErr)
			}

			policy := PullPolicy{Mode: tt.mode, MaxAge: tt.maxAge, Now: func() time.Time { return now }}
			pulled, err := EnsureImage(context.Background(), rt, sdkImage, policy)
			if err != nil {
				t.Fatalf("EnsureImage() error: %v", err)
			}
			if pulled != tt.wantPull {
				t.Errorf("pulled = %v, want %v", pulled, tt.wantPull)
			}
			if got := strings.Join(rt.Methods(), ","); got != tt.wantCalls {
				t.Errorf("calls = %s, want %s", got, tt.wantCalls)
			}
		})
	}
}

func TestEnsureImage_PullError(t *testing.T) {
	rt := NewMockRuntime()
	rt.SetError("Pull", errors.New("registry unreachable"))

	if _, err := EnsureImage(context.Background(), rt, sdkImage, PullPolicy{Mode: config.PullAlways}); err == nil {
		t.Error("EnsureImage() should return the pull error")
	}
}

func TestEnsureImage_UnknownPolicy(t *testing.T) {
	rt := NewMockRuntime()
	if _, err := EnsureImage(context.Background(), rt, sdkImage, PullPolicy{Mode: "sometimes"}); err == nil {
		t.Error("EnsureImage() should reject an unknown policy")
	}
	if len(rt.GetCalls()) != 0 {
		t.Error("no runtime call expected")
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PullPolicy = config.PullMaxAge
	cfg.PullMaxAge = config.Duration(6 * time.Hour)

	p := PolicyFromConfig(cfg)
	if p.Mode != config.PullMaxAge || p.MaxAge != 6*time.Hour || p.Now == nil {
		t.Errorf("PolicyFromConfig() = %+v", p)
	}
}
