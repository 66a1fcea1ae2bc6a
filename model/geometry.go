package model

import "fmt"

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Less orders coordinates by x, then y.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

func (c Coord) Add(dx, dy int) Coord { return Coord{X: c.X + dx, Y: c.Y + dy} }

// Chebyshev is the grid movement metric: diagonal steps cost the same as orthogonal ones.
func Chebyshev(x1, y1, x2, y2 int) int {
	return max(abs(x1-x2), abs(y1-y2))
}

func (c Coord) Chebyshev(o Coord) int { return Chebyshev(c.X, c.Y, o.X, o.Y) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is a single-step move. y grows downward.
type Direction string

const (
	Up        Direction = "up"
	Down      Direction = "down"
	Left      Direction = "left"
	Right     Direction = "right"
	UpLeft    Direction = "up_left"
	UpRight   Direction = "up_right"
	DownLeft  Direction = "down_left"
	DownRight Direction = "down_right"
	Stay      Direction = "stay"
)

// Directions lists every non-stay direction in canonical order.
var Directions = []Direction{Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}

var offsets = map[Direction][2]int{
	Up:        {0, -1},
	Down:      {0, 1},
	Left:      {-1, 0},
	Right:     {1, 0},
	UpLeft:    {-1, -1},
	UpRight:   {1, -1},
	DownLeft:  {-1, 1},
	DownRight: {1, 1},
	Stay:      {0, 0},
}

// Offset returns (dx, dy) for d. Unknown directions do not move.
func (d Direction) Offset() (int, int) {
	o := offsets[d]
	return o[0], o[1]
}

// NewLocation returns the tile reached by stepping once from (x, y) in direction d.
func NewLocation(x, y int, d Direction) (int, int) {
	dx, dy := d.Offset()
	return x + dx, y + dy
}

func (d Direction) Valid() bool {
	_, ok := offsets[d]
	return ok
}
