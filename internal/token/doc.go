// Package token defines the lexical token model of the ABL front end.
// Invariants:
//   - Token.Pos is the position of the first character, Token.End the position of the last one.
//     Both carry a file index; they may differ when a token is stitched from an include.
//   - Characters produced by a macro expansion carry the position of the reference's '{'.
//   - Hidden tokens (whitespace, comments, directives) never reach the default channel;
//     they are chained onto the next visible token through HiddenBefore, most recent first.
//   - Keywords are identified case-insensitively and may be abbreviated down to their minimum length.
package token
