package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func writeConfig(t *testing.T, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mia.lua")
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	opts, err := Load(context.Background(), LoadInput{
		Base:   Defaults("https://example.com/releases", "1.0.0"),
		Getenv: envFunc(nil),
		Triple: linuxTriple,
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultPrefix, opts.Prefix)
	assert.Equal(t, "1.0.0", opts.Version)
	assert.Equal(t, "https://example.com/releases", opts.BaseURL)
	assert.False(t, opts.DisableSudo)
	assert.Zero(t, opts.Retries)
	assert.Empty(t, opts.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
		mia = {
			prefix = "/from/lua",
			version = "3.0.0",
			base_url = "https://lua.example.com",
			disable_sudo = true,
			retries = 4,
		}
	`)

	tests := []struct {
		name        string
		env         map[string]string
		flags       Layer
		wantPrefix  string
		wantVersion string
		wantBaseURL string
		wantDisable bool
	}{
		{
			name:        "config file over defaults",
			wantPrefix:  "/from/lua",
			wantVersion: "3.0.0",
			wantBaseURL: "https://lua.example.com",
			wantDisable: true,
		},
		{
			name: "environment over config file",
			env: map[string]string{
				EnvPrefix:  "/from/env",
				EnvVersion: "v4.0.0",
			},
			wantPrefix:  "/from/env",
			wantVersion: "4.0.0",
			wantBaseURL: "https://lua.example.com",
			wantDisable: true,
		},
		{
			name: "flags over environment",
			env: map[string]string{
				EnvPrefix:  "/from/env",
				EnvBaseURL: "https://env.example.com",
			},
			flags: Layer{
				Prefix:      strPtr("/from/flag"),
				DisableSudo: boolPtr(false),
			},
			wantPrefix:  "/from/flag",
			wantVersion: "3.0.0",
			wantBaseURL: "https://env.example.com",
			wantDisable: false,
		},
		{
			name:        "empty environment is unset",
			env:         map[string]string{EnvPrefix: "  "},
			wantPrefix:  "/from/lua",
			wantVersion: "3.0.0",
			wantBaseURL: "https://lua.example.com",
			wantDisable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Load(context.Background(), LoadInput{
				Base:       Defaults("https://default.example.com", "1.0.0"),
				Flags:      tt.flags,
				ConfigFile: path,
				Getenv:     envFunc(tt.env),
				Triple:     linuxTriple,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantPrefix, opts.Prefix)
			assert.Equal(t, tt.wantVersion, opts.Version)
			assert.Equal(t, tt.wantBaseURL, opts.BaseURL)
			assert.Equal(t, tt.wantDisable, opts.DisableSudo)
			assert.Equal(t, 4, opts.Retries)
			assert.Equal(t, path, opts.ConfigFile)
		})
	}
}

func TestLoad_KeepsSwitches(t *testing.T) {
	base := Defaults("https://example.com", "1.0.0")
	base.Uninstall = true
	base.Verbose = true
	base.Yes = true

	opts, err := Load(context.Background(), LoadInput{Base: base, Getenv: envFunc(nil)})
	require.NoError(t, err)

	assert.True(t, opts.Uninstall)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.Yes)
}

func TestLoad_EmptyPrefixFlagRejected(t *testing.T) {
	_, err := Load(context.Background(), LoadInput{
		Base:   Defaults("https://example.com", "1.0.0"),
		Flags:  Layer{Prefix: strPtr("")},
		Getenv: envFunc(map[string]string{EnvPrefix: "/from/env"}),
	})

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr), "got %v", err)
	assert.Equal(t, "prefix", valErr.Field)
	assert.Equal(t, "prefix requires a non-empty value", err.Error())
}

func TestLoad_ConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), LoadInput{
			Base:       Defaults("https://example.com", "1.0.0"),
			ConfigFile: filepath.Join(t.TempDir(), "nope.lua"),
			Getenv:     envFunc(nil),
		})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("negative retries", func(t *testing.T) {
		_, err := Load(context.Background(), LoadInput{
			Base:       Defaults("https://example.com", "1.0.0"),
			ConfigFile: writeConfig(t, `mia = { retries = -1 }`),
			Getenv:     envFunc(nil),
		})
		var valErr *ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("too many retries", func(t *testing.T) {
		_, err := Load(context.Background(), LoadInput{
			Base:       Defaults("https://example.com", "1.0.0"),
			ConfigFile: writeConfig(t, `mia = { retries = 64 }`),
			Getenv:     envFunc(nil),
		})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "retries", valErr.Field)
		assert.Equal(t, "retries must be at most 10, got 64", err.Error())
	})

	t.Run("retries at the limit", func(t *testing.T) {
		opts, err := Load(context.Background(), LoadInput{
			Base:       Defaults("https://example.com", "1.0.0"),
			ConfigFile: writeConfig(t, `mia = { retries = 10 }`),
			Getenv:     envFunc(nil),
		})
		require.NoError(t, err)
		assert.Equal(t, MaxRetries, opts.Retries)
	})
}

func TestConfigPath(t *testing.T) {
	env := envFunc(map[string]string{EnvConfig: "/etc/mia.lua"})

	assert.Equal(t, "/tmp/x.lua", ConfigPath("/tmp/x.lua", env))
	assert.Equal(t, "/etc/mia.lua", ConfigPath("", env))
	assert.Equal(t, "", ConfigPath("", envFunc(nil)))
}

func TestOptionsApply_NilFieldsKeepValues(t *testing.T) {
	opts := Options{Prefix: "/a", Version: "1", BaseURL: "u", Retries: 2}
	opts.Apply(Layer{})

	assert.Equal(t, Options{Prefix: "/a", Version: "1", BaseURL: "u", Retries: 2}, opts)
}
