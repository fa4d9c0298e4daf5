package installer

import (
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/algorithmiaio/mia-install/internal/binary"
	"github.com/algorithmiaio/mia-install/internal/config"
	"github.com/algorithmiaio/mia-install/internal/platform"
	"github.com/algorithmiaio/mia-install/internal/shell"
)

// Report describes what one run did. A partially filled Report is returned
// alongside fatal errors.
type Report struct {
	RunID   string
	Mode    Mode
	Triple  platform.Triple
	Distro  *platform.Distro
	Options *config.Options
	Layout  Layout

	// Artifact is the release that was installed
	Artifact *binary.Artifact
	// Installed lists placed files in order
	Installed []string
	// Removed lists files deleted, including an old binary found on PATH
	Removed []string
	// Migrated is set when the legacy config was moved this run
	Migrated bool

	Shell    *shell.DetectionResult
	Guidance []string

	// Ignored collects best-effort failures
	Ignored *multierror.Error

	// States is the path taken through the state machine
	States []State

	StartedAt time.Time
	Duration  time.Duration
}

// IgnoredErrors returns the best-effort failures, or nil.
func (r *Report) IgnoredErrors() []error {
	if r.Ignored == nil {
		return nil
	}
	return r.Ignored.Errors
}
