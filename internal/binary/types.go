package binary

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/algorithmiaio/mia-install/internal/platform"
)

const (
	// DefaultBaseURL is where mia releases are published
	DefaultBaseURL = "https://github.com/algorithmiaio/algorithmia-cli/releases/download"
	// DefaultVersion is the mia release installed when none is configured
	DefaultVersion = "1.0.0"
	// BinaryName is the executable's name inside the archive and on disk
	BinaryName = "mia"
)

// Archive-relative paths of the completion files
var (
	ZshCompletionPath  = filepath.Join("completions", "zsh", "_mia")
	BashCompletionPath = filepath.Join("completions", "bash", "mia")
)

// Artifact identifies one release archive
type Artifact struct {
	Version  string
	Triple   platform.Triple
	FileName string // algorithmia-v{version}-{triple}.tar.gz
	URL      string
}

// Staged points at the unpacked files of an artifact
type Staged struct {
	Artifact       *Artifact
	Dir            string
	Binary         string
	ZshCompletion  string
	BashCompletion string
}

// DownloadError reports a failed artifact fetch. StatusCode is zero for
// transport failures.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d %s",
			e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// LayoutError reports an archive that is missing an expected file
type LayoutError struct {
	Missing string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("release archive is missing %s", e.Missing)
}
