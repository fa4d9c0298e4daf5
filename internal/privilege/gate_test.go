package privilege

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/algorithmiaio/mia-install/internal/platform"
	"github.com/algorithmiaio/mia-install/internal/process"
	"github.com/algorithmiaio/mia-install/internal/testutil"
)

func TestNeedsElevation_AllCombinations(t *testing.T) {
	for _, windows := range []bool{false, true} {
		for _, disableSudo := range []bool{false, true} {
			for _, isRoot := range []bool{false, true} {
				name := fmt.Sprintf("windows=%v/disable=%v/root=%v", windows, disableSudo, isRoot)
				t.Run(name, func(t *testing.T) {
					osKind := platform.OSLinuxGNU
					if windows {
						osKind = platform.OSWindowsGNU
					}
					want := !windows && !disableSudo && !isRoot
					assert.Equal(t, want, NeedsElevation(osKind, disableSudo, isRoot))
				})
			}
		}
	}
}

func TestGate_Run(t *testing.T) {
	for _, osKind := range []platform.OSKind{platform.OSLinuxGNU, platform.OSAppleDarwin, platform.OSWindowsGNU} {
		for _, disableSudo := range []bool{false, true} {
			for _, euid := range []int{0, 1000} {
				name := fmt.Sprintf("%s/disable=%v/euid=%d", osKind, disableSudo, euid)
				t.Run(name, func(t *testing.T) {
					runner := testutil.NewFakeRunner()
					uid := euid
					gate := NewGate(runner, Config{
						OS:          osKind,
						DisableSudo: disableSudo,
						EUID:        func() int { return uid },
					}, nil)

					_, _ = gate.Run(context.Background(), "rm", "-f", "/usr/local/bin/mia")

					calls := runner.Calls()
					require.Len(t, calls, 1)
					wantElevated := osKind != platform.OSWindowsGNU && !disableSudo && euid != 0
					assert.Equal(t, wantElevated, calls[0].Elevated())
					if wantElevated {
						assert.Equal(t, "sudo rm -f /usr/local/bin/mia", calls[0].String())
					} else {
						assert.Equal(t, "rm -f /usr/local/bin/mia", calls[0].String())
					}
				})
			}
		}
	}
}

func TestGate_EvaluatedPerCall(t *testing.T) {
	runner := testutil.NewFakeRunner()
	euid := 1000
	gate := NewGate(runner, Config{
		OS:   platform.OSLinuxGNU,
		EUID: func() int { return euid },
	}, nil)

	ctx := context.Background()
	_, _ = gate.Run(ctx, "mkdir", "-p", "/a")
	euid = 0
	_, _ = gate.Run(ctx, "mkdir", "-p", "/b")
	euid = 501
	_, _ = gate.Run(ctx, "mkdir", "-p", "/c")

	assert.Equal(t, []string{
		"sudo mkdir -p /a",
		"mkdir -p /b",
		"sudo mkdir -p /c",
	}, runner.CommandLines())
}

func TestGate_ForwardsExitStatus(t *testing.T) {
	runner := testutil.NewFakeRunner().Fail("sudo install -m 0755 a b", 42)
	gate := NewGate(runner, Config{OS: platform.OSLinuxGNU, EUID: func() int { return 1000 }}, nil)

	res, err := gate.Run(context.Background(), "install", "-m", "0755", "a", "b")
	require.Error(t, err)
	assert.Equal(t, 42, res.ExitCode)
	assert.Equal(t, 42, process.ExitCode(err))
}

func TestGate_LogsFailedExitStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	runner := testutil.NewFakeRunner().Fail("sudo rm -f /x", 13)
	gate := NewGate(runner, Config{OS: platform.OSLinuxGNU, EUID: func() int { return 1000 }}, zap.New(core))

	_, err := gate.Run(context.Background(), "rm", "-f", "/x")
	require.Error(t, err)

	failed := logs.FilterMessage("Command failed").All()
	require.Len(t, failed, 1)
	fields := failed[0].ContextMap()
	assert.Equal(t, "sudo rm -f /x", fields["command"])
	assert.EqualValues(t, 13, fields["exit_code"])
}

func TestGate_CustomTool(t *testing.T) {
	runner := testutil.NewFakeRunner()
	gate := NewGate(runner, Config{OS: platform.OSAppleDarwin, EUID: func() int { return 501 }, Tool: "doas"}, nil)

	_, _ = gate.Run(context.Background(), "rm", "-f", "x")
	assert.Equal(t, []string{"doas rm -f x"}, runner.CommandLines())
}
