package preproc

import (
	"ablpp/internal/diag"
	"ablpp/internal/eval"
)

// IncludeFinder maps an include reference name to a file path.
// *include.Resolver is the usual implementation.
type IncludeFinder interface {
	Resolve(name string) (string, error)
}

// Config holds everything a Processor reads from the session.
type Config struct {
	// Env answers OPSYS, PROVERSION, PROPATH and PROCESS-ARCHITECTURE.
	Env          eval.Env
	WindowSystem string
	BatchMode    bool

	// Backslash makes '\' an escape character besides '~'.
	Backslash bool
	// TokenStartChars are extra characters that may start an identifier.
	TokenStartChars string
	// SkipXCode reads encrypted includes as empty text; otherwise they are fatal.
	SkipXCode bool
	// ProparseDirectives turns {&_proparse_ ...} into directive tokens.
	ProparseDirectives bool
	// Encoding of include files, a WHATWG label. Empty means UTF-8.
	Encoding string
	// LexOnly keeps include references as tokens and skips conditional compilation.
	LexOnly bool

	// Finder resolves include names; nil means a resolver over Env.Propath().
	Finder IncludeFinder
	// Reporter receives &MESSAGE text and condition warnings. May be nil.
	Reporter diag.Reporter
}

// DefaultConfig is the configuration of a plain batch session.
func DefaultConfig() Config {
	return Config{
		Env:                eval.DefaultEnv,
		WindowSystem:       "MS-WINXP",
		SkipXCode:          true,
		ProparseDirectives: true,
	}
}
