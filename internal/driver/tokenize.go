package driver

import "context"

// Tokenize reads the unit in lex-only mode: include references stay in the
// token stream as INCLUDEDIRECTIVE tokens and &IF chains are not evaluated.
// Defines still take effect so that macro references expand.
func Tokenize(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.LexOnly = true
	return Preprocess(ctx, path, opts)
}
