package config

import (
	"fmt"
	"strings"
)

// Options is the resolved configuration of one installer run. It is built
// once by Load and passed down; nothing reads flags or environment after
// that.
type Options struct {
	// Prefix is the install root; the binary goes to {Prefix}/bin
	Prefix string
	// Version is the mia release to install
	Version string
	// BaseURL is the release download root
	BaseURL string
	// DisableSudo forces mutating commands to run unelevated
	DisableSudo bool
	// Retries is the number of extra download attempts
	Retries int

	// Uninstall switches the run to removal mode
	Uninstall bool
	// Verbose enables debug logging
	Verbose bool
	// Yes is accepted for compatibility; no prompt consults it
	Yes bool

	// ConfigFile is the Lua config that was loaded, if any
	ConfigFile string
}

// Layer is a partial set of options from one source. Nil fields are unset.
type Layer struct {
	Prefix      *string
	Version     *string
	BaseURL     *string
	DisableSudo *bool
	Retries     *int
}

// Apply overlays every set field of l onto o.
func (o *Options) Apply(l Layer) {
	if l.Prefix != nil {
		o.Prefix = *l.Prefix
	}
	if l.Version != nil {
		o.Version = *l.Version
	}
	if l.BaseURL != nil {
		o.BaseURL = *l.BaseURL
	}
	if l.DisableSudo != nil {
		o.DisableSudo = *l.DisableSudo
	}
	if l.Retries != nil {
		o.Retries = *l.Retries
	}
}

// Validate checks the resolved options.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Prefix) == "" {
		return &ValidationError{Field: "prefix", Message: "requires a non-empty value"}
	}
	if strings.TrimSpace(o.Version) == "" {
		return &ValidationError{Field: "version", Message: "requires a non-empty value"}
	}
	if o.Retries < 0 {
		return &ValidationError{Field: "retries", Message: fmt.Sprintf("must not be negative, got %d", o.Retries)}
	}
	if o.Retries > MaxRetries {
		return &ValidationError{Field: "retries", Message: fmt.Sprintf("must be at most %d, got %d", MaxRetries, o.Retries)}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
