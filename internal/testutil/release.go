package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
)

// ReleaseFiles returns the contents of a well-formed mia release archive.
func ReleaseFiles() map[string]string {
	return map[string]string{
		"mia":                  "#!/bin/sh\necho mia\n",
		"completions/zsh/_mia": "#compdef mia\n",
		"completions/bash/mia": "complete -F _mia mia\n",
	}
}

// ReleaseArchive builds a tar.gz holding files. Entries named "mia" are
// marked executable.
func ReleaseArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range names {
		mode := int64(0o644)
		if name == "mia" {
			mode = 0o755
		}
		header := &tar.Header{
			Name:     name,
			Mode:     mode,
			Size:     int64(len(files[name])),
			Typeflag: tar.TypeReg,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("write header for %s: %v", name, err)
		}
		if _, err := tarWriter.Write([]byte(files[name])); err != nil {
			t.Fatalf("write content for %s: %v", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// ReleaseServer serves a release archive for any *.tar.gz path and records
// every requested path.
type ReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	status   int
}

// NewReleaseServer starts a server that serves files as a release archive.
// It is closed when the test ends.
func NewReleaseServer(t *testing.T, files map[string]string) *ReleaseServer {
	t.Helper()

	archive := ReleaseArchive(t, files)
	rs := &ReleaseServer{status: http.StatusOK}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.URL.Path)
		status := rs.status
		rs.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if !strings.HasSuffix(r.URL.Path, ".tar.gz") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(rs.Close)
	return rs
}

// FailWith makes every subsequent request answer status.
func (rs *ReleaseServer) FailWith(status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status = status
}

// Requests returns the request paths received so far.
func (rs *ReleaseServer) Requests() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}
