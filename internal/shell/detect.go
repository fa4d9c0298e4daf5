package shell

import (
	"context"
	"os"
	"os/user"
	"strings"

	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/process"
)

// FallbackShell is reported when no lookup yields a login shell.
const FallbackShell = "/bin/sh"

// Detector looks up a user's registered login shell.
type Detector struct {
	runner process.Runner
	log    *zap.Logger
}

// NewDetector creates a login shell detector.
func NewDetector(runner process.Runner, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{runner: runner, log: log}
}

// DetectLoginShell returns the login shell of username. An empty username
// means the current user. It never fails.
func (d *Detector) DetectLoginShell(ctx context.Context, username string) *DetectionResult {
	if username == "" {
		username = CurrentUsername()
	}

	if username != "" {
		// Method 1: directory service (macOS)
		if path := d.fromDirectoryService(ctx, username); path != "" {
			return d.newResult(path, MethodDirectoryService)
		}

		// Method 2: user account database
		if path := d.fromAccountDatabase(ctx, username); path != "" {
			return d.newResult(path, MethodAccountDatabase)
		}
	}

	// Method 3: hardcoded fallback
	return d.newResult(FallbackShell, MethodFallback)
}

func (d *Detector) newResult(path, method string) *DetectionResult {
	result := &DetectionResult{
		Shell:     ParseShellFromPath(path),
		ShellPath: path,
		Method:    method,
	}
	if !result.Shell.IsValid() {
		d.log.Debug("Login shell not recognized, guidance will be generic",
			zap.String("shell", path),
			zap.String("method", method))
	}
	return result
}

// fromDirectoryService parses "UserShell: /bin/zsh" from dscl.
func (d *Detector) fromDirectoryService(ctx context.Context, username string) string {
	out, err := process.Output(ctx, d.runner, "dscl", ".", "-read", "/Users/"+username, "UserShell")
	if err != nil {
		d.log.Debug("dscl lookup failed", zap.Error(err))
		return ""
	}

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.TrimSpace(key) == "UserShell" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// fromAccountDatabase reads the seventh passwd field from getent.
func (d *Detector) fromAccountDatabase(ctx context.Context, username string) string {
	out, err := process.Output(ctx, d.runner, "getent", "passwd", username)
	if err != nil {
		d.log.Debug("getent lookup failed", zap.Error(err))
		return ""
	}

	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Split(line, ":")
	if len(fields) < 7 {
		return ""
	}
	return strings.TrimSpace(fields[6])
}

// CurrentUsername returns the current user's login name, or "" when it
// cannot be determined.
func CurrentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
