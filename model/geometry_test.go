package model

import "testing"

func TestChebyshev(t *testing.T) {
	tests := []struct {
		x1, y1, x2, y2 int
		want           int
	}{
		{0, 0, 0, 0, 0},
		{0, 0, 1, 1, 1},
		{0, 0, 3, 1, 3},
		{5, 5, 2, 9, 4},
		{-2, 0, 2, 0, 4},
	}
	for _, tc := range tests {
		got := Chebyshev(tc.x1, tc.y1, tc.x2, tc.y2)
		if got != tc.want {
			t.Errorf("Chebyshev(%d,%d,%d,%d) = %d, want %d", tc.x1, tc.y1, tc.x2, tc.y2, got, tc.want)
		}
	}
}

func TestNewLocation(t *testing.T) {
	tests := []struct {
		d      Direction
		wx, wy int
	}{
		{Up, 5, 4},
		{Down, 5, 6},
		{Left, 4, 5},
		{Right, 6, 5},
		{UpLeft, 4, 4},
		{DownRight, 6, 6},
		{Stay, 5, 5},
	}
	for _, tc := range tests {
		x, y := NewLocation(5, 5, tc.d)
		if x != tc.wx || y != tc.wy {
			t.Errorf("NewLocation(5,5,%s) = (%d,%d), want (%d,%d)", tc.d, x, y, tc.wx, tc.wy)
		}
	}
}

func TestDirectionsAreSingleSteps(t *testing.T) {
	for _, d := range Directions {
		x, y := NewLocation(0, 0, d)
		if Chebyshev(0, 0, x, y) != 1 {
			t.Errorf("direction %s moves %d tiles, want 1", d, Chebyshev(0, 0, x, y))
		}
	}
	if Direction("sideways").Valid() {
		t.Error("unknown direction should not be valid")
	}
}

func TestCoordLess(t *testing.T) {
	if !(Coord{1, 9}).Less(Coord{2, 0}) {
		t.Error("(1,9) should sort before (2,0)")
	}
	if !(Coord{1, 1}).Less(Coord{1, 2}) {
		t.Error("(1,1) should sort before (1,2)")
	}
	if (Coord{1, 1}).Less(Coord{1, 1}) {
		t.Error("equal coords must not be Less")
	}
}
