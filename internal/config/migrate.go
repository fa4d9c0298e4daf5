package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MigrateLegacyConfig moves a single-file ~/.algorithmia into
// ~/.algorithmia/config. It reports whether anything moved. When
// ~/.algorithmia is absent or already a directory it does nothing, so it is
// safe to call on every run. A symlink to a regular file is moved as a link.
func MigrateLegacyConfig(home string) (bool, error) {
	if home == "" {
		return false, fmt.Errorf("migrate legacy config: home directory is unknown")
	}

	legacy := filepath.Join(home, legacyConfigName)
	migrating := filepath.Join(home, legacyMigratingName)
	target := filepath.Join(legacy, migratedConfigName)

	info, err := os.Stat(legacy)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return resumeMigration(legacy, migrating, target)
	case err != nil:
		return false, fmt.Errorf("migrate legacy config: %w", err)
	case info.IsDir():
		return resumeMigration(legacy, migrating, target)
	case !info.Mode().IsRegular():
		return false, nil
	}

	if err := os.Rename(legacy, migrating); err != nil {
		return false, fmt.Errorf("migrate legacy config: %w", err)
	}
	if err := os.Mkdir(legacy, 0o700); err != nil {
		return false, fmt.Errorf("migrate legacy config: %w", err)
	}
	if err := os.Rename(migrating, target); err != nil {
		return false, fmt.Errorf("migrate legacy config: %w", err)
	}
	return true, nil
}

// resumeMigration finishes a run that stopped after the first rename.
func resumeMigration(legacy, migrating, target string) (bool, error) {
	info, err := os.Stat(migrating)
	if err != nil || !info.Mode().IsRegular() {
		return false, nil
	}
	if _, err := os.Lstat(target); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(legacy, 0o700); err != nil {
		return false, fmt.Errorf("migrate legacy config: %w", err)
	}
	if err := os.Rename(migrating, target); err != nil {
		return false, fmt.Errorf("migrate legacy config: %w", err)
	}
	return true, nil
}
