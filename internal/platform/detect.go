package platform

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/host"
	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/process"
)

// HostResolver implements Resolver using uname, sysctl and a probe binary.
type HostResolver struct {
	runner     process.Runner
	inspector  FormatInspector
	kernelArch func() (string, error)
	loginShell string
	fallback   string
	log        *zap.Logger
}

// ResolverOption configures a HostResolver.
type ResolverOption func(*HostResolver)

// WithLoginShell sets the login shell considered as the userland probe.
func WithLoginShell(path string) ResolverOption {
	return func(r *HostResolver) { r.loginShell = path }
}

// WithInspector replaces the executable format inspector.
func WithInspector(inspector FormatInspector) ResolverOption {
	return func(r *HostResolver) { r.inspector = inspector }
}

// WithFallbackProbe replaces DefaultProbeBinary.
func WithFallbackProbe(path string) ResolverOption {
	return func(r *HostResolver) { r.fallback = path }
}

// WithKernelArch replaces the machine-name source used when uname -m fails.
func WithKernelArch(fn func() (string, error)) ResolverOption {
	return func(r *HostResolver) { r.kernelArch = fn }
}

// WithLogger sets the resolver's logger.
func WithLogger(log *zap.Logger) ResolverOption {
	return func(r *HostResolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver that queries the host through runner.
func NewResolver(runner process.Runner, opts ...ResolverOption) *HostResolver {
	r := &HostResolver{
		runner:     runner,
		inspector:  NewHeaderInspector(),
		kernelArch: host.KernelArch,
		fallback:   DefaultProbeBinary,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve detects the host triple.
//
// The Darwin/i386 and 32-bit userland corrections are best-effort: when
// their probes cannot run the uncorrected value is kept. Normalization
// failures on either axis are fatal.
func (r *HostResolver) Resolve(ctx context.Context) (Triple, error) {
	rawOS, err := process.Output(ctx, r.runner, "uname", "-s")
	if err != nil {
		return Triple{}, &MissingToolError{Tool: "uname", Err: err}
	}

	rawMachine, err := r.rawMachine(ctx)
	if err != nil {
		return Triple{}, err
	}

	r.log.Debug("Read host signals",
		zap.String("os", rawOS),
		zap.String("machine", rawMachine))

	if rawOS == "Darwin" && rawMachine == "i386" && r.darwinHas64Bit(ctx) {
		r.log.Debug("Darwin kernel reports i386 on a 64-bit CPU, using x86_64")
		rawMachine = "x86_64"
	}

	osKind, err := NormalizeOS(rawOS)
	if err != nil {
		return Triple{}, err
	}

	cpuKind, err := NormalizeCPU(rawMachine)
	if err != nil {
		return Triple{}, err
	}

	if osKind == OSLinuxGNU && cpuKind == CPUX8664 && r.userland32Bit() {
		cpuKind = CPUI686
	}

	triple := Triple{CPU: cpuKind, OS: osKind}
	r.log.Debug("Resolved platform", zap.String("triple", triple.String()))
	return triple, nil
}

// rawMachine reads uname -m, falling back to the kernel architecture
// reported by gopsutil.
func (r *HostResolver) rawMachine(ctx context.Context) (string, error) {
	machine, err := process.Output(ctx, r.runner, "uname", "-m")
	if err == nil {
		return machine, nil
	}

	if r.kernelArch != nil {
		arch, archErr := r.kernelArch()
		if archErr == nil && arch != "" {
			r.log.Debug("uname -m failed, using kernel arch", zap.String("arch", arch), zap.Error(err))
			return arch, nil
		}
	}

	return "", &MissingToolError{Tool: "uname", Err: fmt.Errorf("read machine type: %w", err)}
}

// darwinHas64Bit queries the hw.optional.x86_64 capability flag.
func (r *HostResolver) darwinHas64Bit(ctx context.Context) bool {
	out, err := process.Output(ctx, r.runner, "sysctl", "-n", "hw.optional.x86_64")
	if err != nil {
		r.log.Debug("sysctl hw.optional.x86_64 unavailable", zap.Error(err))
		return false
	}
	return out == "1"
}

// userland32Bit reports whether the probe binary is a 32-bit executable.
// A probe that cannot be inspected reports false.
func (r *HostResolver) userland32Bit() bool {
	probe := selectProbeBinary(r.loginShell, r.fallback)
	format, err := r.inspector.Inspect(probe)
	if err != nil {
		r.log.Debug("Userland probe failed, keeping x86_64",
			zap.String("probe", probe),
			zap.Error(err))
		return false
	}

	r.log.Debug("Inspected userland probe",
		zap.String("probe", probe),
		zap.String("container", format.Container),
		zap.Int("bits", format.Bits))
	return !format.Is64Bit()
}
