// Package integration provides a test harness for integration tests
// that require a real container runtime.
//
// # Test Harness
//
// Harness builds an application context on the real executor and file
// system, with the sandbox root inside t.TempDir:
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if not enabled
//
//	    project := h.CreateProject("demo")
//	    a := h.App(project)
//
//	    // Launch containers, create sandboxes...
//	}
//
// # Running Integration Tests
//
//	WOLFI_DEV_INTEGRATION_TESTS=1 go test -v ./internal/integration/...
//
// WOLFI_DEV_RUNTIME=podman selects podman instead of auto-detection.
package integration
