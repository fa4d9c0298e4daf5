package installer

// State is a step of the orchestrator's state machine.
type State int

const (
	StateStart State = iota
	StateResolvePlatform
	StateInstall
	StateUninstall
	StateUnsupported
	StateReportResult
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateResolvePlatform:
		return "resolve-platform"
	case StateInstall:
		return "install"
	case StateUninstall:
		return "uninstall"
	case StateUnsupported:
		return "unsupported"
	case StateReportResult:
		return "report-result"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Mode selects the install or uninstall path.
type Mode int

const (
	ModeInstall Mode = iota
	ModeUninstall
)

func (m Mode) String() string {
	if m == ModeUninstall {
		return "uninstall"
	}
	return "install"
}
