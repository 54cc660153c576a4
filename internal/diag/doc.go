// Package diag defines the diagnostic model and the fatal error taxonomy of the preprocessor.
//
// Two kinds of findings exist:
//
//   - Fatal errors abort a compile unit. They are Go errors of the types in
//     errors.go (LexicalError, PreprocessorSyntaxError, IncludeNotFoundError,
//     XCodeEncounteredError). Each carries the failing position and the chain
//     of include references back to the main file.
//   - Non-fatal findings (&MESSAGE output, unparsable &IF conditions,
//     unsupported functions) are Diagnostics sent through a Reporter, usually
//     a BagReporter bounded by the --max-diagnostics limit.
//
// Rendering lives in internal/diagfmt. This package does no IO.
package diag
