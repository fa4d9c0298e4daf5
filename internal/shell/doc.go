// Package shell detects the user's login shell and renders post-install
// guidance for it.
//
// # Shell Detection
//
// DetectLoginShell asks, in order:
//  1. The directory service (dscl, macOS)
//  2. The user account database (getent passwd)
//  3. A hardcoded fallback (/bin/sh)
//
// Detection never fails. The result only selects advisory text; no install
// step depends on it for correctness, with one exception: the platform
// resolver uses the login shell binary as its preferred userland probe.
//
// # Guidance
//
// Guidance tells the user how to load the installed completions in their
// shell and, when the install directory is not on PATH, how to add it.
package shell
