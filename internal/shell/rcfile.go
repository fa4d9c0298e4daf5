package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// RCFilePath returns the rc file guidance should point a shell's user at,
// or "" for unknown shells.
func RCFilePath(shell ShellType, homeDir string) string {
	switch shell {
	case ShellBash:
		return filepath.Join(homeDir, ".bashrc")
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc")
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish")
	default:
		return ""
	}
}

// ContainsPath checks if dir is an entry of the PATH-style list pathEnv.
func ContainsPath(pathEnv, dir string) bool {
	if pathEnv == "" || dir == "" {
		return false
	}
	dirClean := filepath.Clean(strings.TrimSpace(dir))
	for _, p := range filepath.SplitList(pathEnv) {
		if filepath.Clean(strings.TrimSpace(p)) == dirClean {
			return true
		}
	}
	return false
}

// displayPath abbreviates paths under the home directory with ~.
func displayPath(path, homeDir string) string {
	if homeDir == "" {
		return path
	}
	if rel, err := filepath.Rel(homeDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.Join("~", rel)
	}
	return path
}

// homeDir returns the user's home directory, or "" when unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
