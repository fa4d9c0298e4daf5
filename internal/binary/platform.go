package binary

import (
	"fmt"
	"strings"

	"github.com/algorithmiaio/mia-install/internal/platform"
)

// constructArtifact builds the release coordinates for a triple
// Pattern: {base}/v{version}/algorithmia-v{version}-{triple}.tar.gz
func constructArtifact(baseURL, version string, triple platform.Triple) (*Artifact, error) {
	if !triple.OS.Supported() {
		return nil, fmt.Errorf("no release for %s", triple)
	}

	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil, fmt.Errorf("version is required")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	fileName := fmt.Sprintf("algorithmia-v%s-%s.tar.gz", version, triple)

	return &Artifact{
		Version:  version,
		Triple:   triple,
		FileName: fileName,
		URL:      fmt.Sprintf("%s/v%s/%s", baseURL, version, fileName),
	}, nil
}
