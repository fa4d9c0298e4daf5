package platform

import (
	"strings"
)

// osPattern maps a raw kernel name (uname -s) to an OSKind.
type osPattern struct {
	match  string
	prefix bool
	kind   OSKind
}

// osTable is checked in order; the first matching pattern wins.
var osTable = []osPattern{
	{match: "Linux", kind: OSLinuxGNU},
	{match: "Darwin", kind: OSAppleDarwin},
	{match: "MINGW", prefix: true, kind: OSWindowsGNU},
	{match: "MSYS", prefix: true, kind: OSWindowsGNU},
	{match: "CYGWIN", prefix: true, kind: OSWindowsGNU},
	{match: "Windows_NT", kind: OSWindowsGNU},
}

// cpuTable maps raw machine names (uname -m) to a CPUKind.
var cpuTable = map[string]CPUKind{
	"i386":   CPUI686,
	"i486":   CPUI686,
	"i686":   CPUI686,
	"i786":   CPUI686,
	"x86":    CPUI686,
	"x86_64": CPUX8664,
	"x86-64": CPUX8664,
	"x64":    CPUX8664,
	"amd64":  CPUX8664,
}

// NormalizeOS converts a raw kernel name to an OSKind.
func NormalizeOS(raw string) (OSKind, error) {
	raw = strings.TrimSpace(raw)
	for _, p := range osTable {
		if p.prefix && strings.HasPrefix(raw, p.match) {
			return p.kind, nil
		}
		if !p.prefix && raw == p.match {
			return p.kind, nil
		}
	}
	return 0, &UnsupportedPlatformError{Axis: AxisOS, Raw: raw}
}

// NormalizeCPU converts a raw machine name to a CPUKind.
func NormalizeCPU(raw string) (CPUKind, error) {
	raw = strings.TrimSpace(raw)
	if kind, ok := cpuTable[raw]; ok {
		return kind, nil
	}
	return 0, &UnsupportedPlatformError{Axis: AxisCPU, Raw: raw}
}
