package bootstrap

import (
	"fmt"
	"sync"

	"github.com/k0sproject/rig"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
)

// Target is a connected host with its resolved OS identity.
type Target struct {
	Host Host
	OS   rig.OSVersion

	close func()
}

// NewTarget wraps an already connected host.
func NewTarget(h Host, osv rig.OSVersion, disconnect func()) *Target {
	return &Target{Host: h, OS: osv, close: disconnect}
}

// Close disconnects from the host. Later calls do nothing.
func (t *Target) Close() {
	if t.close != nil {
		t.close()
		t.close = nil
	}
}

// Connector opens the host a bootstrap provisions.
type Connector func() (*Target, error)

var setRigLogger sync.Once

// LocalTarget connects to the local machine. rig resolves the OS from
// /etc/os-release while connecting.
func LocalTarget() (*Target, error) {
	setRigLogger.Do(func() { rig.SetLogger(rigLogger{}) })

	conn := &rig.Connection{Localhost: &rig.Localhost{Enabled: true}}
	if err := conn.Connect(); err != nil {
		return nil, clierrors.Wrap(clierrors.ExitUnsupportedOS, "could not identify the host operating system", err)
	}
	if conn.OSVersion == nil {
		conn.Disconnect()
		return nil, clierrors.UnsupportedOS("unknown")
	}
	return NewTarget(conn, *conn.OSVersion, conn.Disconnect), nil
}

// rigLogger routes rig's printf-style logging into slog.
type rigLogger struct{}

func (rigLogger) Tracef(format string, args ...any) { logging.Debug(fmt.Sprintf(format, args...)) }
func (rigLogger) Debugf(format string, args ...any) { logging.Debug(fmt.Sprintf(format, args...)) }
func (rigLogger) Infof(format string, args ...any)  { logging.Info(fmt.Sprintf(format, args...)) }
func (rigLogger) Warnf(format string, args ...any)  { logging.Warn(fmt.Sprintf(format, args...)) }
func (rigLogger) Errorf(format string, args ...any) { logging.Error(fmt.Sprintf(format, args...)) }
