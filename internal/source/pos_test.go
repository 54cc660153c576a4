package source

import "testing"

func TestRangeContains(t *testing.T) {
	r := Range{Start: Pos{Line: 3, Col: 5}, End: Pos{Line: 3, Col: 30}}

	tests := []struct {
		line, col int
		want      bool
	}{
		{3, 5, true},
		{3, 10, true},
		{3, 29, true},
		{3, 30, false},
		{3, 50, false},
		{3, 4, false},
		{6, 1, false},
		{2, 99, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.line, tt.col); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestRangeIntersects(t *testing.T) {
	r := Range{Start: Pos{Line: 3, Col: 5}, End: Pos{Line: 4, Col: 2}}

	if !r.Intersects(Pos{Line: 1, Col: 1}, Pos{Line: 5, Col: 1}) {
		t.Error("enclosing range must intersect")
	}
	if r.Intersects(Pos{Line: 1, Col: 1}, Pos{Line: 2, Col: 1}) {
		t.Error("range before start must not intersect")
	}
	if !r.Intersects(Pos{Line: 3, Col: 5}, Pos{Line: 3, Col: 5}) {
		t.Error("point at start is contained")
	}
	if r.Intersects(Pos{Line: 4, Col: 2}, Pos{Line: 9, Col: 1}) {
		t.Error("point at end is not contained")
	}
}

func TestPosCompare(t *testing.T) {
	a := Pos{Line: 2, Col: 9}
	b := Pos{Line: 3, Col: 1}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("lexicographic order broken")
	}
}
