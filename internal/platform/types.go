// Package platform resolves the host's platform triple for the mia
// release artifacts.
//
// Resolution reads the raw kernel name and machine type (uname), applies two
// best-effort corrections (Apple kernels that report a 64-bit CPU as i386,
// and 64-bit Linux kernels running a 32-bit userland) and normalizes both
// axes through explicit match tables. Either axis failing to normalize is a
// fatal UnsupportedPlatformError; no partial triple is ever produced.
//
// The package also reports Linux distribution details via gopsutil and can
// inject a read-only platform table into a Lua state for config files.
package platform

import (
	"context"
	"fmt"
)

// CPUKind is the normalized CPU axis of a triple.
type CPUKind int

const (
	// CPUI686 is 32-bit x86.
	CPUI686 CPUKind = iota + 1
	// CPUX8664 is 64-bit x86.
	CPUX8664
)

// String returns the triple spelling of the CPU kind.
func (c CPUKind) String() string {
	switch c {
	case CPUI686:
		return "i686"
	case CPUX8664:
		return "x86_64"
	default:
		return "unknown"
	}
}

// OSKind is the normalized OS axis of a triple.
type OSKind int

const (
	// OSLinuxGNU is Linux with a GNU userland.
	OSLinuxGNU OSKind = iota + 1
	// OSAppleDarwin is macOS.
	OSAppleDarwin
	// OSWindowsGNU is a Windows POSIX environment (MinGW, MSYS, Cygwin).
	// It is recognized only so the installer can refuse it explicitly.
	OSWindowsGNU
)

// String returns the triple spelling of the OS kind.
func (o OSKind) String() string {
	switch o {
	case OSLinuxGNU:
		return "unknown-linux-gnu"
	case OSAppleDarwin:
		return "apple-darwin"
	case OSWindowsGNU:
		return "pc-windows-gnu"
	default:
		return "unknown"
	}
}

// Supported returns false for OS kinds the installer refuses.
func (o OSKind) Supported() bool {
	return o == OSLinuxGNU || o == OSAppleDarwin
}

// Triple identifies a release artifact, e.g. x86_64-unknown-linux-gnu.
type Triple struct {
	CPU CPUKind
	OS  OSKind
}

// String returns "<cpu>-<os>".
func (t Triple) String() string {
	return t.CPU.String() + "-" + t.OS.String()
}

// IsLinux returns true if the triple targets Linux.
func (t Triple) IsLinux() bool {
	return t.OS == OSLinuxGNU
}

// IsMacOS returns true if the triple targets macOS.
func (t Triple) IsMacOS() bool {
	return t.OS == OSAppleDarwin
}

// IsWindows returns true if the triple targets the unsupported Windows family.
func (t Triple) IsWindows() bool {
	return t.OS == OSWindowsGNU
}

// Resolver produces the platform triple for the current host.
type Resolver interface {
	Resolve(ctx context.Context) (Triple, error)
}

// Axis names the triple component that failed to normalize.
type Axis string

const (
	AxisOS  Axis = "OS"
	AxisCPU Axis = "CPU"
)

// UnsupportedPlatformError reports a raw OS or machine name with no entry in
// the normalization tables.
type UnsupportedPlatformError struct {
	Axis Axis
	Raw  string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Axis == AxisCPU {
		return fmt.Sprintf("unknown CPU type: %s", e.Raw)
	}
	return fmt.Sprintf("unrecognized OS type: %s", e.Raw)
}

// MissingToolError reports a host tool required for detection that could not
// be run.
type MissingToolError struct {
	Tool string
	Err  error
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("need '%s' to detect the platform: %v", e.Tool, e.Err)
}

func (e *MissingToolError) Unwrap() error {
	return e.Err
}
