// Package installer places the mia CLI and its shell completions on the
// host, or removes them.
//
// A run is a small state machine:
//
//	Start -> ResolvePlatform -> Install | Uninstall -> ReportResult -> Done
//	                         \-> Unsupported -> Done
//
// Configuration is resolved once the platform is known, since Lua config
// files can branch on it. Every filesystem mutation goes through a
// privilege.Gate. Best-effort steps record their failures on the Report
// instead of stopping the run.
package installer
