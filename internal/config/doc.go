// Package config resolves installer options and migrates the legacy mia
// configuration.
//
// # Sources
//
// Options are merged once per run, highest precedence first:
//
//  1. command-line flags
//  2. MIA_PREFIX, MIA_VERSION and MIA_BASE_URL
//  3. a Lua config file (--config or MIA_CONFIG)
//  4. defaults
//
// # Lua Config
//
// The config file runs in a sandboxed gopher-lua VM with the resolved
// platform injected as a read-only table, so values can depend on the host:
//
//	mia = {
//	  prefix = platform.is_macos and "/opt/mia" or "/usr/local",
//	  version = "1.0.0",
//	  base_url = "https://mirror.example.com/mia",
//	  disable_sudo = platform.when(platform.is_linux, false),
//	  retries = 2,
//	}
//
// os, io, debug, code loading and metatable access are removed. Evaluation
// stops after DefaultParseTimeout unless the context carries its own
// deadline. Unknown fields and wrongly typed values are a *ParseError.
//
// # Legacy Migration
//
// Older mia releases kept their config in the single file ~/.algorithmia.
// MigrateLegacyConfig turns it into ~/.algorithmia/config. It runs in the
// user's own home directory and never needs elevation.
package config
