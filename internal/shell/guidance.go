package shell

import (
	"fmt"
	"path/filepath"
)

// GuidanceInput describes what was installed and where.
type GuidanceInput struct {
	Shell          ShellType
	BinDir         string
	ZshCompletion  string
	BashCompletion string
	// PathEnv is the PATH at install time.
	PathEnv string
	// HomeDir abbreviates paths in the output; defaults to the user's home.
	HomeDir string
}

// Guidance returns post-install advice lines for the detected shell.
func Guidance(in GuidanceInput) []string {
	home := in.HomeDir
	if home == "" {
		home = homeDir()
	}
	rc := displayPath(RCFilePath(in.Shell, home), home)

	var lines []string

	if !ContainsPath(in.PathEnv, in.BinDir) {
		switch in.Shell {
		case ShellFish:
			lines = append(lines,
				fmt.Sprintf("%s is not on your PATH. Add it with:", in.BinDir),
				fmt.Sprintf("  fish_add_path %s", in.BinDir))
		case ShellBash, ShellZsh:
			lines = append(lines,
				fmt.Sprintf("%s is not on your PATH. Add this line to %s:", in.BinDir, rc),
				fmt.Sprintf("  export PATH=\"%s:$PATH\"", in.BinDir))
		default:
			lines = append(lines,
				fmt.Sprintf("%s is not on your PATH. Add it in your shell's startup file.", in.BinDir))
		}
	}

	switch in.Shell {
	case ShellZsh:
		lines = append(lines,
			fmt.Sprintf("Zsh completions were installed to %s.", in.ZshCompletion),
			fmt.Sprintf("If they do not load, add this to %s:", rc),
			fmt.Sprintf("  fpath=(%s $fpath)", filepath.Dir(in.ZshCompletion)),
			"  autoload -Uz compinit && compinit")
	case ShellBash:
		lines = append(lines,
			fmt.Sprintf("Bash completions were installed to %s.", in.BashCompletion),
			"They load automatically when bash-completion is enabled; for the current shell run:",
			fmt.Sprintf("  source %s", in.BashCompletion))
	default:
		lines = append(lines,
			fmt.Sprintf("Completions are available for zsh (%s) and bash (%s).", in.ZshCompletion, in.BashCompletion))
	}

	return lines
}
