package source

import (
	"fmt"
)

// Pos is a position inside a compile unit: file index plus 1-based line and column.
// Zero Line means "no position".
type Pos struct {
	File FileID
	Line int
	Col  int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Col)
}

// LineColBefore сравнивает только строку и колонку (файл игнорируется).
func LineColBefore(line, col, otherLine, otherCol int) bool {
	return line < otherLine || (line == otherLine && col < otherCol)
}

// Compare упорядочивает позиции лексикографически по (line, col); file не участвует.
func (p Pos) Compare(other Pos) int {
	switch {
	case LineColBefore(p.Line, p.Col, other.Line, other.Col):
		return -1
	case LineColBefore(other.Line, other.Col, p.Line, p.Col):
		return 1
	default:
		return 0
	}
}

// Range is a half-open [Start, End) interval of positions in one file.
type Range struct {
	Start Pos
	End   Pos
}

// Contains reports whether line:col lies on or after Start and strictly before End.
func (r Range) Contains(line, col int) bool {
	if LineColBefore(line, col, r.Start.Line, r.Start.Col) {
		return false
	}
	return LineColBefore(line, col, r.End.Line, r.End.Col)
}

// Intersects reports whether the closed interval [from, to] touches the range.
// A point at Start is inside, a point at End is not.
func (r Range) Intersects(from, to Pos) bool {
	if LineColBefore(to.Line, to.Col, r.Start.Line, r.Start.Col) {
		return false
	}
	return LineColBefore(from.Line, from.Col, r.End.Line, r.End.Col)
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", r.Start.File, r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
}
