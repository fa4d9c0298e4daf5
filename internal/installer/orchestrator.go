package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/binary"
	"github.com/algorithmiaio/mia-install/internal/config"
	"github.com/algorithmiaio/mia-install/internal/platform"
	"github.com/algorithmiaio/mia-install/internal/privilege"
	"github.com/algorithmiaio/mia-install/internal/process"
	"github.com/algorithmiaio/mia-install/internal/shell"
)

// Acquirer stages a release archive for a triple.
type Acquirer interface {
	Acquire(ctx context.Context, triple platform.Triple, stagingDir string) (*binary.Staged, error)
}

// Request carries the inputs of one run.
type Request struct {
	// Base holds defaults and the CLI switches
	Base config.Options
	// Flags holds values given on the command line
	Flags config.Layer
	// ConfigFile is the Lua config to evaluate, "" for none
	ConfigFile string
}

// UnsupportedOSError is returned for hosts the installer refuses to touch.
type UnsupportedOSError struct {
	Triple platform.Triple
}

func (e *UnsupportedOSError) Error() string {
	return fmt.Sprintf("unsupported platform %s: Windows is not supported by this installer", e.Triple)
}

// Orchestrator sequences platform resolution, placement and removal.
type Orchestrator struct {
	resolver    platform.Resolver
	runner      process.Runner
	newAcquirer func(opts *config.Options, log *zap.Logger) Acquirer
	detectDist  func(ctx context.Context, triple platform.Triple) (*platform.Distro, error)
	migrate     func(home string) (bool, error)
	lookPath    func(file string) (string, error)
	layout      func(prefix string) Layout
	euid        func() int
	getenv      func(string) string
	shell       *shell.DetectionResult
	home        string
	tempDir     string
	out         io.Writer
	clock       Clock
	log         *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAcquirer replaces the release acquirer factory.
func WithAcquirer(fn func(opts *config.Options, log *zap.Logger) Acquirer) Option {
	return func(o *Orchestrator) { o.newAcquirer = fn }
}

// WithDistroDetector replaces distribution detection.
func WithDistroDetector(fn func(ctx context.Context, triple platform.Triple) (*platform.Distro, error)) Option {
	return func(o *Orchestrator) { o.detectDist = fn }
}

// WithMigrator replaces the legacy config migration.
func WithMigrator(fn func(home string) (bool, error)) Option {
	return func(o *Orchestrator) { o.migrate = fn }
}

// WithLookPath replaces the PATH search for an old binary.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(o *Orchestrator) { o.lookPath = fn }
}

// WithLayout replaces how the prefix maps to install paths.
func WithLayout(fn func(prefix string) Layout) Option {
	return func(o *Orchestrator) { o.layout = fn }
}

// WithEUID replaces the effective user id source consulted by the gate.
func WithEUID(fn func() int) Option {
	return func(o *Orchestrator) { o.euid = fn }
}

// WithGetenv replaces environment lookups.
func WithGetenv(fn func(string) string) Option {
	return func(o *Orchestrator) { o.getenv = fn }
}

// WithShell sets the detected login shell used for guidance.
func WithShell(result *shell.DetectionResult) Option {
	return func(o *Orchestrator) { o.shell = result }
}

// WithHome sets the home directory for the legacy migration.
func WithHome(dir string) Option {
	return func(o *Orchestrator) { o.home = dir }
}

// WithTempDir sets the parent of the staging directory.
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithOutput sets where progress and guidance are printed.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithClock replaces the clock.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// New creates an orchestrator. runner executes every external command;
// mutations go through a privilege gate built on it.
func New(resolver platform.Resolver, runner process.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:    resolver,
		runner:      runner,
		newAcquirer: defaultAcquirer,
		detectDist:  platform.DetectDistro,
		migrate:     config.MigrateLegacyConfig,
		lookPath:    exec.LookPath,
		layout:      DefaultLayout,
		euid:        os.Geteuid,
		getenv:      os.Getenv,
		out:         io.Discard,
		clock:       RealClock{},
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.home == "" {
		o.home, _ = os.UserHomeDir()
	}
	return o
}

func defaultAcquirer(opts *config.Options, log *zap.Logger) Acquirer {
	return binary.NewAcquirer(binary.Config{
		BaseURL: opts.BaseURL,
		Version: opts.Version,
		Retries: opts.Retries,
		Logger:  log,
	})
}

// run is the mutable state of one Run call.
type run struct {
	req    Request
	report *Report
	gate   *privilege.Gate
	log    *zap.Logger
}

// Run drives the state machine to Done. Fatal errors stop it where they
// occur; the partial Report is still returned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: o.clock.Now(),
	}
	r := &run{
		req:    req,
		report: report,
		log:    o.log.With(zap.String("run", report.RunID)),
	}
	if req.Base.Uninstall {
		report.Mode = ModeUninstall
	}

	state := StateStart
	for state != StateDone {
		report.States = append(report.States, state)
		r.log.Debug("entering state", zap.Stringer("state", state))

		next, err := o.step(ctx, r, state)
		if err != nil {
			report.States = append(report.States, StateDone)
			report.Duration = since(o.clock, report.StartedAt)
			return report, err
		}
		state = next
	}
	report.States = append(report.States, StateDone)
	report.Duration = since(o.clock, report.StartedAt)

	return report, nil
}

func (o *Orchestrator) step(ctx context.Context, r *run, state State) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateDone, err
	}

	switch state {
	case StateStart:
		return StateResolvePlatform, nil
	case StateResolvePlatform:
		return o.resolvePlatform(ctx, r)
	case StateUnsupported:
		return StateDone, &UnsupportedOSError{Triple: r.report.Triple}
	case StateInstall:
		return StateReportResult, o.install(ctx, r)
	case StateUninstall:
		return StateReportResult, o.uninstall(ctx, r)
	case StateReportResult:
		o.reportResult(r)
		return StateDone, nil
	default:
		return StateDone, fmt.Errorf("unexpected state %s", state)
	}
}

func (o *Orchestrator) resolvePlatform(ctx context.Context, r *run) (State, error) {
	triple, err := o.resolver.Resolve(ctx)
	if err != nil {
		return StateDone, err
	}
	r.report.Triple = triple
	r.log.Debug("platform resolved", zap.Stringer("triple", triple))

	if !triple.OS.Supported() {
		return StateUnsupported, nil
	}

	distro, err := o.detectDist(ctx, triple)
	if err != nil {
		return StateDone, err
	}
	r.report.Distro = distro

	opts, err := config.Load(ctx, config.LoadInput{
		Base:       r.req.Base,
		Flags:      r.req.Flags,
		ConfigFile: r.req.ConfigFile,
		Getenv:     o.getenv,
		Triple:     triple,
		Distro:     distro,
		Logger:     r.log,
	})
	if err != nil {
		return StateDone, fmt.Errorf("load configuration: %w", err)
	}
	r.report.Options = opts
	r.report.Layout = o.layout(opts.Prefix)

	r.gate = privilege.NewGate(o.runner, privilege.Config{
		OS:          triple.OS,
		DisableSudo: opts.DisableSudo,
		EUID:        o.euid,
	}, r.log)

	if r.report.Mode == ModeUninstall {
		return StateUninstall, nil
	}
	return StateInstall, nil
}

// tryOrIgnore runs a best-effort step. A failure is logged and collected in
// the report; the run carries on.
func (o *Orchestrator) tryOrIgnore(r *run, what string, fn func() error) bool {
	err := fn()
	if err == nil {
		return true
	}
	r.log.Debug("ignoring failure", zap.String("step", what), zap.Error(err))
	r.report.Ignored = multierror.Append(r.report.Ignored, fmt.Errorf("%s: %w", what, err))
	return false
}

// mutate issues one filesystem command through the gate.
func (r *run) mutate(ctx context.Context, name string, args ...string) error {
	_, err := r.gate.Run(ctx, name, args...)
	return err
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}
