// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Root    string
	Home    string
	Prefix  string
	PathDir string
	ZshDir  string
	BashDir string
}

// SetupTestEnv creates isolated test directories for each test.
// This ensures installer tests never touch:
// - the real /usr/local prefix or system completion directories
// - the user's ~/.algorithmia configuration
// - a mia binary already on the developer's PATH
//
// Cleanup is handled by t.TempDir().
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Root:    tmpDir,
		Home:    filepath.Join(tmpDir, "home"),
		Prefix:  filepath.Join(tmpDir, "prefix"),
		PathDir: filepath.Join(tmpDir, "path"),
		ZshDir:  filepath.Join(tmpDir, "zsh", "site-functions"),
		BashDir: filepath.Join(tmpDir, "bash_completion.d"),
	}

	t.Setenv("HOME", env.Home)
	// Tests plant old mia binaries in PathDir; the system dirs stay
	// reachable for mkdir, install and rm.
	t.Setenv("PATH", strings.Join([]string{env.PathDir, "/usr/bin", "/bin"}, string(os.PathListSeparator)))
	t.Setenv("MIA_PREFIX", "")
	t.Setenv("MIA_CONFIG", "")
	t.Setenv("MIA_VERSION", "")
	t.Setenv("MIA_BASE_URL", "")

	for _, dir := range []string{env.Home, env.PathDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Exists reports whether path exists without following symlinks.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
