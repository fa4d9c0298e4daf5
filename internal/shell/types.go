package shell

import (
	"path/filepath"
	"strings"
)

// ShellType represents a shell the guidance knows about
type ShellType string

const (
	// ShellBash represents the Bash shell
	ShellBash ShellType = "bash"
	// ShellZsh represents the Z shell
	ShellZsh ShellType = "zsh"
	// ShellFish represents the Fish shell
	ShellFish ShellType = "fish"
	// ShellUnknown represents an unknown or unsupported shell
	ShellUnknown ShellType = "unknown"
)

// String returns the string representation of the shell type
func (s ShellType) String() string {
	return string(s)
}

// IsValid returns true if the shell type is known
func (s ShellType) IsValid() bool {
	switch s {
	case ShellBash, ShellZsh, ShellFish:
		return true
	default:
		return false
	}
}

// Detection methods reported in DetectionResult.Method
const (
	MethodDirectoryService = "directory service"
	MethodAccountDatabase  = "account database"
	MethodFallback         = "fallback"
)

// DetectionResult contains the result of login shell detection
type DetectionResult struct {
	// Shell is the classified shell type
	Shell ShellType
	// ShellPath is the filesystem path to the shell binary
	ShellPath string
	// Method describes how the shell was detected
	Method string
}

// ParseShellFromPath extracts the shell type from a shell binary path
// Examples:
//   - /bin/bash -> bash
//   - /usr/bin/zsh -> zsh
//   - /usr/local/bin/fish -> fish
func ParseShellFromPath(shellPath string) ShellType {
	if shellPath == "" {
		return ShellUnknown
	}

	switch strings.ToLower(filepath.Base(shellPath)) {
	case "bash":
		return ShellBash
	case "zsh":
		return ShellZsh
	case "fish":
		return ShellFish
	default:
		return ShellUnknown
	}
}
