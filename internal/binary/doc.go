// Package binary fetches and unpacks the prebuilt mia release for a
// platform triple.
//
// # Release Layout
//
// Releases are published as one tar.gz per triple:
//
//	{base_url}/v{version}/algorithmia-v{version}-{triple}.tar.gz
//
// and each archive carries:
//
//	mia                    the executable
//	completions/zsh/_mia   zsh completion
//	completions/bash/mia   bash completion
//
// # Usage
//
//	acq := binary.NewAcquirer(binary.Config{Version: "1.0.0"})
//
//	staging, err := os.MkdirTemp("", "mia-install-")
//	if err != nil {
//	    return err
//	}
//	defer os.RemoveAll(staging)
//
//	staged, err := acq.Acquire(ctx, triple, staging)
//	if err != nil {
//	    return err // *binary.DownloadError for HTTP failures
//	}
//
// Acquire only ever writes inside the staging directory. Placing the staged
// files onto the system is the installer's job.
//
// # Architecture
//
//   - Acquirer: download then extract then layout check
//   - Downloader: HTTP download with optional retries
//   - Extractor: tar.gz extraction confined to a directory
//   - platform.go: release URL construction
package binary
