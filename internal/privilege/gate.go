// Package privilege decides whether filesystem mutations run elevated.
package privilege

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/platform"
	"github.com/algorithmiaio/mia-install/internal/process"
)

// DefaultTool is the elevation command mutations are wrapped in.
const DefaultTool = "sudo"

// Config holds the inputs of the elevation decision.
type Config struct {
	// OS is the resolved platform OS.
	OS platform.OSKind
	// DisableSudo forces every mutation to run unelevated.
	DisableSudo bool
	// EUID returns the effective user id. It is called on every decision.
	// Defaults to os.Geteuid.
	EUID func() int
	// Tool is the elevation command. Defaults to DefaultTool.
	Tool string
}

// Gate runs mutating commands directly or under the elevation tool.
type Gate struct {
	runner process.Runner
	cfg    Config
	log    *zap.Logger
}

// NewGate creates a gate that issues commands through runner.
func NewGate(runner process.Runner, cfg Config, log *zap.Logger) *Gate {
	if cfg.EUID == nil {
		cfg.EUID = os.Geteuid
	}
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{runner: runner, cfg: cfg, log: log}
}

// ShouldElevate evaluates the decision rule against the current identity.
func (g *Gate) ShouldElevate() bool {
	return NeedsElevation(g.cfg.OS, g.cfg.DisableSudo, g.cfg.EUID() == 0)
}

// Run executes a mutating command, elevated when ShouldElevate says so.
// The wrapped command's exit status is forwarded unchanged.
func (g *Gate) Run(ctx context.Context, name string, args ...string) (process.Result, error) {
	cmdName, cmdArgs := name, args
	if g.ShouldElevate() {
		g.log.Debug("Elevating command",
			zap.String("tool", g.cfg.Tool),
			zap.String("command", process.CommandString(name, args...)))
		cmdName, cmdArgs = g.cfg.Tool, append([]string{name}, args...)
	}

	res, err := g.runner.Run(ctx, cmdName, cmdArgs...)
	if err != nil {
		g.log.Debug("Command failed",
			zap.String("command", process.CommandString(cmdName, cmdArgs...)),
			zap.Int("exit_code", process.ExitCode(err)),
			zap.Error(err))
	}
	return res, err
}

// NeedsElevation is the elevation decision rule: mutations run directly on
// the unsupported Windows family, when elevation was disabled, or when the
// caller is already the superuser. Everything else is elevated.
func NeedsElevation(osKind platform.OSKind, disableSudo, isRoot bool) bool {
	switch {
	case osKind == platform.OSWindowsGNU:
		return false
	case disableSudo:
		return false
	case isRoot:
		return false
	default:
		return true
	}
}
