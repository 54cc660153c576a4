// Package project loads the session settings of a preprocessor run from
// ablpp.toml and turns them into a processor configuration.
package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/encoding/htmlindex"

	"ablpp/internal/eval"
	"ablpp/internal/preproc"
)

// Settings are the session attributes the preprocessor depends on.
//
//	propath              = ["src", "src/inc"]
//	opsys                = "WIN32"
//	window-system        = "MS-WINXP"
//	proversion           = "11.6"
//	process-architecture = 64
//	batch-mode           = false
//	backslash-escape     = false
//	skip-xcode           = true
//	token-start-chars    = ""
//	proparse-directives  = true
//	encoding             = "utf-8"
type Settings struct {
	// Path is the settings file the values came from, empty for defaults.
	Path string `toml:"-"`

	Propath             []string `toml:"propath"`
	OpSys               string   `toml:"opsys"`
	WindowSystem        string   `toml:"window-system"`
	ProVersion          string   `toml:"proversion"`
	ProcessArchitecture int      `toml:"process-architecture"`
	BatchMode           bool     `toml:"batch-mode"`
	BackslashEscape     bool     `toml:"backslash-escape"`
	SkipXCode           bool     `toml:"skip-xcode"`
	TokenStartChars     string   `toml:"token-start-chars"`
	ProparseDirectives  bool     `toml:"proparse-directives"`
	Encoding            string   `toml:"encoding"`
}

// Default returns the settings of a 64-bit Windows batch session.
func Default() Settings {
	return Settings{
		OpSys:               eval.DefaultEnv.OS,
		WindowSystem:        "MS-WINXP",
		ProVersion:          eval.DefaultEnv.Version,
		ProcessArchitecture: eval.DefaultEnv.Arch,
		SkipXCode:           true,
		ProparseDirectives:  true,
		Encoding:            "utf-8",
	}
}

// LoadSettings reads path on top of the defaults. Relative propath entries
// are taken relative to the directory of the file.
func LoadSettings(path string) (Settings, error) {
	s := Default()
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Settings{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	s.Path = path
	if meta.IsDefined("propath") {
		root := filepath.Dir(path)
		for i, dir := range s.Propath {
			if !filepath.IsAbs(dir) {
				s.Propath[i] = filepath.Join(root, filepath.FromSlash(dir))
			}
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Discover loads the nearest ablpp.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Settings, error) {
	path, ok, err := FindSettings(startDir)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadSettings(path)
}

// Validate checks the values that can be wrong on their own.
func (s Settings) Validate() error {
	if s.ProcessArchitecture != 32 && s.ProcessArchitecture != 64 {
		return fmt.Errorf("process-architecture must be 32 or 64, got %d", s.ProcessArchitecture)
	}
	if label := strings.ToLower(strings.TrimSpace(s.Encoding)); label != "" && label != "utf-8" && label != "utf8" {
		if _, err := htmlindex.Get(label); err != nil {
			return fmt.Errorf("unknown encoding %q", s.Encoding)
		}
	}
	if strings.TrimSpace(s.OpSys) == "" {
		return fmt.Errorf("opsys must not be empty")
	}
	return nil
}

// Env answers the session queries of &IF conditions.
func (s Settings) Env() eval.StaticEnv {
	return eval.StaticEnv{
		OS:      s.OpSys,
		Version: s.ProVersion,
		Path:    slices.Clone(s.Propath),
		Arch:    s.ProcessArchitecture,
	}
}

// Config builds the processor configuration. Finder and Reporter are left
// to the caller.
func (s Settings) Config() preproc.Config {
	cfg := preproc.DefaultConfig()
	cfg.Env = s.Env()
	cfg.WindowSystem = s.WindowSystem
	cfg.BatchMode = s.BatchMode
	cfg.Backslash = s.BackslashEscape
	cfg.TokenStartChars = s.TokenStartChars
	cfg.SkipXCode = s.SkipXCode
	cfg.ProparseDirectives = s.ProparseDirectives
	cfg.Encoding = s.Encoding
	return cfg
}
