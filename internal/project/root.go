package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SettingsFile is the name of the per-project settings file.
const SettingsFile = "ablpp.toml"

// FindSettings walks up from startDir to the nearest ablpp.toml.
// ok is false when the filesystem root is reached without one.
func FindSettings(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, SettingsFile)
		switch _, err := os.Stat(candidate); {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
