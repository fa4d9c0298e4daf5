package platform

import (
	"debug/elf"
	"debug/macho"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultProbeBinary is present on every supported Linux userland and is
// used when the login shell cannot serve as a probe.
const DefaultProbeBinary = "/usr/bin/env"

// BinaryFormat describes the executable format of a probe binary.
type BinaryFormat struct {
	Container string // "elf" or "macho"
	Bits      int    // 32 or 64
}

// Is64Bit returns true for a 64-bit executable.
func (f BinaryFormat) Is64Bit() bool {
	return f.Bits == 64
}

// FormatInspector reads the file-format signature of an executable.
type FormatInspector interface {
	Inspect(path string) (BinaryFormat, error)
}

// ErrUnknownFormat is returned for files that are neither ELF nor Mach-O.
var ErrUnknownFormat = errors.New("unrecognized executable format")

// HeaderInspector inspects ELF and Mach-O headers.
type HeaderInspector struct{}

// NewHeaderInspector creates a FormatInspector backed by debug/elf and
// debug/macho.
func NewHeaderInspector() FormatInspector {
	return &HeaderInspector{}
}

// Inspect returns the container and word size of the executable at path.
func (h *HeaderInspector) Inspect(path string) (BinaryFormat, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		switch f.Class {
		case elf.ELFCLASS64:
			return BinaryFormat{Container: "elf", Bits: 64}, nil
		case elf.ELFCLASS32:
			return BinaryFormat{Container: "elf", Bits: 32}, nil
		default:
			return BinaryFormat{}, fmt.Errorf("%s: unknown ELF class %v", path, f.Class)
		}
	}

	if f, err := macho.Open(path); err == nil {
		defer f.Close()
		return machoFormat(f.Cpu), nil
	}

	if f, err := macho.OpenFat(path); err == nil {
		defer f.Close()
		format := BinaryFormat{Container: "macho", Bits: 32}
		for _, arch := range f.Arches {
			if machoFormat(arch.Cpu).Is64Bit() {
				format.Bits = 64
			}
		}
		return format, nil
	}

	return BinaryFormat{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

func machoFormat(cpu macho.Cpu) BinaryFormat {
	switch cpu {
	case macho.CpuAmd64, macho.CpuArm64, macho.CpuPpc64:
		return BinaryFormat{Container: "macho", Bits: 64}
	default:
		return BinaryFormat{Container: "macho", Bits: 32}
	}
}

// isScript reports whether the file at path starts with a "#!" interpreter
// line. Unreadable files count as scripts so they are never probed.
func isScript(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		return true
	}
	return string(magic) == "#!"
}

// selectProbeBinary prefers the login shell when it exists and is a real
// binary, and falls back to DefaultProbeBinary otherwise.
func selectProbeBinary(loginShell, fallback string) string {
	if loginShell == "" {
		return fallback
	}
	info, err := os.Stat(loginShell)
	if err != nil || !info.Mode().IsRegular() {
		return fallback
	}
	if isScript(loginShell) {
		return fallback
	}
	return loginShell
}
