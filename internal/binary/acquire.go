package binary

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/platform"
)

// Acquirer fetches a release archive and unpacks it into a staging directory
type Acquirer struct {
	baseURL    string
	version    string
	downloader *Downloader
	extractor  *Extractor
	log        *zap.Logger
}

// Config holds configuration for the acquirer
type Config struct {
	// BaseURL is the release root (default: DefaultBaseURL)
	BaseURL string
	// Version is the release to fetch (default: DefaultVersion)
	Version string
	// Retries is the number of extra download attempts
	Retries int
	// Client overrides the HTTP client
	Client *http.Client
	Logger *zap.Logger
}

// NewAcquirer creates a new acquirer
func NewAcquirer(config Config) *Acquirer {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Version == "" {
		config.Version = DefaultVersion
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Acquirer{
		baseURL:    config.BaseURL,
		version:    config.Version,
		downloader: NewDownloader(config.Client, config.Retries, config.Logger),
		extractor:  NewExtractor(),
		log:        config.Logger,
	}
}

// Artifact returns the release coordinates for triple
func (a *Acquirer) Artifact(triple platform.Triple) (*Artifact, error) {
	return constructArtifact(a.baseURL, a.version, triple)
}

// Acquire downloads the archive for triple into stagingDir and unpacks it.
// The caller owns stagingDir and removes it.
func (a *Acquirer) Acquire(ctx context.Context, triple platform.Triple, stagingDir string) (*Staged, error) {
	startTime := time.Now()

	artifact, err := a.Artifact(triple)
	if err != nil {
		return nil, fmt.Errorf("construct artifact: %w", err)
	}

	archivePath := filepath.Join(stagingDir, artifact.FileName)
	if err := a.downloader.DownloadToFile(ctx, artifact.URL, archivePath); err != nil {
		return nil, err
	}

	contentsDir := filepath.Join(stagingDir, "contents")
	if err := a.extractor.ExtractTarGz(archivePath, contentsDir); err != nil {
		return nil, fmt.Errorf("extract %s: %w", artifact.FileName, err)
	}

	staged, err := checkLayout(contentsDir)
	if err != nil {
		return nil, err
	}
	staged.Artifact = artifact

	a.log.Debug("artifact staged",
		zap.String("artifact", artifact.FileName),
		zap.String("dir", contentsDir),
		zap.Duration("elapsed", time.Since(startTime)))

	return staged, nil
}
