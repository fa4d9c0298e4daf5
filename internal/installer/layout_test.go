package installer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout("/opt/tools")

	assert.Equal(t, "/opt/tools/bin", l.BinDir())
	assert.Equal(t, "/opt/tools/bin/mia", l.BinaryPath())
	assert.Equal(t, "/usr/local/share/zsh/site-functions/_mia", l.ZshCompletionPath())
	assert.Equal(t, "/etc/bash_completion.d/mia", l.BashCompletionPath())
	assert.Equal(t, []string{
		"/opt/tools/bin/mia",
		"/usr/local/share/zsh/site-functions/_mia",
		"/etc/bash_completion.d/mia",
	}, l.Targets())
}

func TestLayout_CompletionsIgnorePrefix(t *testing.T) {
	a := DefaultLayout("/usr/local")
	b := DefaultLayout("/home/me/.local")

	assert.Equal(t, a.ZshCompletionPath(), b.ZshCompletionPath())
	assert.Equal(t, a.BashCompletionPath(), b.BashCompletionPath())
}

func TestLayout_TrailingSlashPrefix(t *testing.T) {
	assert.Equal(t, "/usr/local/bin/mia", DefaultLayout("/usr/local/").BinaryPath())
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateStart:           "start",
		StateResolvePlatform: "resolve-platform",
		StateInstall:         "install",
		StateUninstall:       "uninstall",
		StateUnsupported:     "unsupported",
		StateReportResult:    "report-result",
		StateDone:            "done",
		State(99):            "unknown",
	}
	for state, want := range tests {
		assert.Equal(t, want, state.String())
	}
	assert.Equal(t, "uninstall", ModeUninstall.String())
	assert.Equal(t, "install", ModeInstall.String())
}
