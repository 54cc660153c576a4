package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ablpp/internal/project"
)

func addSettingsFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "settings file (default: nearest "+project.SettingsFile+" above the input)")
	pf.StringSlice("propath", nil, "include search path, overrides the settings file")
	pf.String("opsys", "", "value of the OPSYS preprocessor name")
	pf.String("window-system", "", "value of the WINDOW-SYSTEM preprocessor name")
	pf.String("proversion", "", "value of PROVERSION in &IF conditions")
	pf.Int("process-architecture", 0, "PROCESS-ARCHITECTURE in &IF conditions (32|64)")
	pf.Bool("batch-mode", false, "value of the BATCH-MODE preprocessor name")
	pf.Bool("backslash-escape", false, "treat backslash as an escape character")
	pf.Bool("fail-on-xcode", false, "fail on encrypted includes instead of skipping them")
	pf.String("encoding", "", "source encoding (any WHATWG label)")
}

// loadSettings reads the settings for a run over target (file or
// directory) and applies the flags the user set explicitly.
func loadSettings(cmd *cobra.Command, target string) (project.Settings, error) {
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return project.Settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var settings project.Settings
	if configPath != "" {
		settings, err = project.LoadSettings(configPath)
	} else {
		startDir := target
		if st, statErr := os.Stat(target); statErr == nil && !st.IsDir() {
			startDir = filepath.Dir(target)
		}
		settings, err = project.Discover(startDir)
	}
	if err != nil {
		return project.Settings{}, err
	}

	// Флаги перекрывают файл только если заданы явно
	if flags.Changed("propath") {
		if settings.Propath, err = flags.GetStringSlice("propath"); err != nil {
			return project.Settings{}, err
		}
	}
	stringFlags := map[string]*string{
		"opsys":         &settings.OpSys,
		"window-system": &settings.WindowSystem,
		"proversion":    &settings.ProVersion,
		"encoding":      &settings.Encoding,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return project.Settings{}, err
			}
		}
	}
	boolFlags := map[string]*bool{
		"batch-mode":       &settings.BatchMode,
		"backslash-escape": &settings.BackslashEscape,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			if *dst, err = flags.GetBool(name); err != nil {
				return project.Settings{}, err
			}
		}
	}
	if flags.Changed("fail-on-xcode") {
		fail, err := flags.GetBool("fail-on-xcode")
		if err != nil {
			return project.Settings{}, err
		}
		settings.SkipXCode = !fail
	}
	if flags.Changed("process-architecture") {
		if settings.ProcessArchitecture, err = flags.GetInt("process-architecture"); err != nil {
			return project.Settings{}, err
		}
	}

	if err := settings.Validate(); err != nil {
		return project.Settings{}, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}
