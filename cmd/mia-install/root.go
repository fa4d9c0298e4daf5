package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/binary"
	"github.com/algorithmiaio/mia-install/internal/config"
	"github.com/algorithmiaio/mia-install/internal/installer"
	"github.com/algorithmiaio/mia-install/internal/logging"
	"github.com/algorithmiaio/mia-install/internal/platform"
	"github.com/algorithmiaio/mia-install/internal/process"
	"github.com/algorithmiaio/mia-install/internal/shell"
)

// app holds parsed command-line state for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	uninstall   bool
	verbose     bool
	disableSudo bool
	yes         bool
	prefix      string
	configFile  string
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mia-install [flags]",
		Short: "Install the mia command-line tool",
		Long: `Install the mia command-line tool.

mia-install downloads the mia release built for this machine and
places the binary under <prefix>/bin, along with zsh and bash completions.

Filesystem changes run through sudo unless you are root or pass
--disable-sudo.

Environment:
  MIA_PREFIX     install root (default /usr/local)
  MIA_CONFIG     Lua config file
  MIA_VERSION    release version to install
  MIA_BASE_URL   release download location`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				fmt.Fprintf(a.stderr, "Warning: unexpected argument %q\n", args[0])
				return cmd.Help()
			}
			return a.run(cmd)
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.Flags()
	flags.BoolVar(&a.uninstall, "uninstall", false, "remove mia instead of installing it")
	flags.BoolVar(&a.verbose, "verbose", false, "print diagnostic output")
	flags.BoolVar(&a.disableSudo, "disable-sudo", false, "never run commands through sudo")
	flags.BoolVarP(&a.yes, "yes", "y", false, "assume yes for any prompt")
	flags.StringVar(&a.prefix, "prefix", config.DefaultPrefix, "install root; the binary goes in <prefix>/bin")
	flags.StringVar(&a.configFile, "config", "", "Lua config file (overrides $MIA_CONFIG)")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(a.stderr, "Warning: %v\n", err)
		return pflag.ErrHelp
	})

	return cmd
}

// flagLayer returns the values given explicitly on the command line.
func (a *app) flagLayer(flags *pflag.FlagSet) (config.Layer, error) {
	var layer config.Layer
	if flags.Changed("prefix") {
		if a.prefix == "" {
			return layer, &config.ValidationError{Field: "--prefix", Message: "requires a non-empty value"}
		}
		layer.Prefix = &a.prefix
	}
	if flags.Changed("disable-sudo") {
		layer.DisableSudo = &a.disableSudo
	}
	return layer, nil
}

func (a *app) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	layer, err := a.flagLayer(cmd.Flags())
	if err != nil {
		return err
	}

	log := logging.New(a.stderr, a.verbose)
	defer func() { _ = log.Sync() }()

	runner := process.NewExecRunner(log)
	detected := shell.NewDetector(runner, log).DetectLoginShell(ctx, "")
	log.Debug("Detected login shell",
		zap.String("shell", detected.ShellPath),
		zap.String("method", detected.Method))

	resolver := platform.NewResolver(runner,
		platform.WithLoginShell(detected.ShellPath),
		platform.WithLogger(log))

	orch := installer.New(resolver, runner,
		installer.WithShell(detected),
		installer.WithOutput(a.stdout),
		installer.WithLogger(log))

	base := config.Defaults(binary.DefaultBaseURL, binary.DefaultVersion)
	base.Uninstall = a.uninstall
	base.Verbose = a.verbose
	base.Yes = a.yes

	report, err := orch.Run(ctx, installer.Request{
		Base:       base,
		Flags:      layer,
		ConfigFile: config.ConfigPath(a.configFile, os.Getenv),
	})
	if err != nil {
		return err
	}

	for _, ignored := range report.IgnoredErrors() {
		log.Warn("Step failed, continuing", zap.Error(ignored))
	}
	log.Debug("Run finished",
		zap.String("run", report.RunID),
		zap.Stringer("mode", report.Mode),
		zap.Duration("took", report.Duration))
	return nil
}
