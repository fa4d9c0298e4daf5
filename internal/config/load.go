package config

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/platform"
)

// Defaults returns the options used when no source sets a value.
func Defaults(baseURL, version string) Options {
	return Options{
		Prefix:  DefaultPrefix,
		Version: version,
		BaseURL: baseURL,
	}
}

// EnvLayer reads MIA_* variables. Empty values count as unset.
func EnvLayer(getenv func(string) string) Layer {
	if getenv == nil {
		getenv = os.Getenv
	}

	var layer Layer
	if v := strings.TrimSpace(getenv(EnvPrefix)); v != "" {
		layer.Prefix = &v
	}
	if v := strings.TrimSpace(getenv(EnvVersion)); v != "" {
		v = strings.TrimPrefix(v, "v")
		layer.Version = &v
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		layer.BaseURL = &v
	}
	return layer
}

// ConfigPath returns the Lua config to load: the explicit path if given,
// otherwise MIA_CONFIG. "" means no config file.
func ConfigPath(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(EnvConfig))
}

// LoadInput gathers the sources Load merges.
type LoadInput struct {
	// Base carries defaults and the CLI-only switches (Uninstall, Verbose, Yes)
	Base Options
	// Flags holds values set on the command line
	Flags Layer
	// ConfigFile is the Lua config path, "" for none
	ConfigFile string
	Getenv     func(string) string
	Triple     platform.Triple
	Distro     *platform.Distro
	Logger     *zap.Logger
}

// Load resolves options with precedence flags > environment > config file >
// defaults.
func Load(ctx context.Context, in LoadInput) (*Options, error) {
	log := in.Logger
	if log == nil {
		log = zap.NewNop()
	}

	opts := in.Base

	if in.ConfigFile != "" {
		fileLayer, err := NewParser(in.Triple, in.Distro, log).ParseFile(ctx, in.ConfigFile)
		if err != nil {
			return nil, err
		}
		opts.Apply(fileLayer)
		opts.ConfigFile = in.ConfigFile
	}

	opts.Apply(EnvLayer(in.Getenv))
	opts.Apply(in.Flags)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log.Debug("options resolved",
		zap.String("prefix", opts.Prefix),
		zap.String("version", opts.Version),
		zap.String("base_url", opts.BaseURL),
		zap.Bool("disable_sudo", opts.DisableSudo),
		zap.Int("retries", opts.Retries),
		zap.String("config", opts.ConfigFile))

	return &opts, nil
}
