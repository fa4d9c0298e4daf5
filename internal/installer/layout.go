package installer

import (
	"path/filepath"

	"github.com/algorithmiaio/mia-install/internal/binary"
)

// System completion directories. They do not follow the prefix.
const (
	DefaultZshCompletionDir  = "/usr/local/share/zsh/site-functions"
	DefaultBashCompletionDir = "/etc/bash_completion.d"
)

// Layout is where an install places its files.
type Layout struct {
	Prefix            string
	BinName           string
	ZshCompletionDir  string
	BashCompletionDir string
}

// DefaultLayout returns the layout for prefix.
func DefaultLayout(prefix string) Layout {
	return Layout{
		Prefix:            prefix,
		BinName:           binary.BinaryName,
		ZshCompletionDir:  DefaultZshCompletionDir,
		BashCompletionDir: DefaultBashCompletionDir,
	}
}

// BinDir is {prefix}/bin.
func (l Layout) BinDir() string {
	return filepath.Join(l.Prefix, "bin")
}

// BinaryPath is {prefix}/bin/mia.
func (l Layout) BinaryPath() string {
	return filepath.Join(l.BinDir(), l.BinName)
}

// ZshCompletionPath is the installed zsh completion, _mia.
func (l Layout) ZshCompletionPath() string {
	return filepath.Join(l.ZshCompletionDir, "_"+l.BinName)
}

// BashCompletionPath is the installed bash completion, mia.
func (l Layout) BashCompletionPath() string {
	return filepath.Join(l.BashCompletionDir, l.BinName)
}

// Targets lists every installed path in placement order.
func (l Layout) Targets() []string {
	return []string{l.BinaryPath(), l.ZshCompletionPath(), l.BashCompletionPath()}
}
