// Package occupancy derives the garrison ring around owned structures. A Map
// is rebuilt from scratch every turn; only the pending set changes afterwards,
// as units claim ring tiles.
package occupancy

import (
	"slices"

	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/model"
)

// Status classifies one tile of the occupancy grid.
type Status int

const (
	OutOfRange Status = -2 // returned by At for off-grid probes
	Impassable Status = -1 // terrain; counts as blocked
	Free       Status = 0
	Blocked    Status = 1 // friendly structure
	MustOccupy Status = 2 // ring tile that a unit should hold
)

func (s Status) String() string {
	switch s {
	case OutOfRange:
		return "out_of_range"
	case Impassable:
		return "impassable"
	case Free:
		return "free"
	case Blocked:
		return "blocked"
	case MustOccupy:
		return "must_occupy"
	default:
		return "unknown"
	}
}

// IsBlocked reports whether s induces a ring around itself.
func (s Status) IsBlocked() bool { return s == Blocked || s == Impassable }

// Options tunes which tiles induce a ring.
type Options struct {
	// StructuresOnly rings friendly structures only; impassable terrain
	// still blocks but does not pull units toward it.
	StructuresOnly bool
}

// Map is one turn's status grid plus the ring tiles no unit holds yet.
type Map struct {
	width   int
	height  int
	grid    []Status
	total   int
	pending map[model.Coord]struct{}
}

// Build computes the status grid for terrain, friendly buildings and units.
func Build(terrain *model.Terrain, buildings []model.Building, units []model.Unit, opts Options) *Map {
	w, h := 0, 0
	if terrain != nil {
		w, h = terrain.Width, terrain.Height
	}
	m := &Map{
		width:   w,
		height:  h,
		grid:    make([]Status, w*h),
		pending: make(map[model.Coord]struct{}),
	}

	for _, b := range buildings {
		if m.inBounds(b.X, b.Y) {
			m.grid[m.index(b.X, b.Y)] = Blocked
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !terrain.Passable(x, y) {
				m.grid[m.index(x, y)] = Impassable
			}
		}
	}

	// Membership is decided against the grid above before any tile is marked,
	// so the result does not depend on scan order.
	var ring []model.Coord
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.grid[m.index(x, y)] == Free && m.touchesBlocked(x, y, opts) {
				ring = append(ring, model.Coord{X: x, Y: y})
			}
		}
	}
	for _, c := range ring {
		m.grid[m.index(c.X, c.Y)] = MustOccupy
		m.pending[c] = struct{}{}
	}
	m.total = len(ring)

	for _, u := range units {
		delete(m.pending, u.Pos())
	}
	return m
}

// FromController builds the map for the controller's own side.
func FromController(ctl control.Controller, opts Options) *Map {
	return Build(ctl.Terrain(), ctl.Buildings(model.Ally), ctl.Units(model.Ally), opts)
}

func (m *Map) touchesBlocked(x, y int, opts Options) bool {
	for _, d := range model.Directions {
		nx, ny := model.NewLocation(x, y, d)
		s := m.At(nx, ny)
		if s == Blocked || (s == Impassable && !opts.StructuresOnly) {
			return true
		}
	}
	return false
}

func (m *Map) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func (m *Map) index(x, y int) int { return y*m.width + x }

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// At returns the status of (x, y), or OutOfRange off the grid.
func (m *Map) At(x, y int) Status {
	if !m.inBounds(x, y) {
		return OutOfRange
	}
	return m.grid[m.index(x, y)]
}

// Total is the ring size before any unit coverage was subtracted.
func (m *Map) Total() int { return m.total }

func (m *Map) PendingCount() int { return len(m.pending) }

func (m *Map) IsPending(c model.Coord) bool {
	_, ok := m.pending[c]
	return ok
}

// Pending returns the uncovered ring tiles ordered by x, then y.
func (m *Map) Pending() []model.Coord {
	out := make([]model.Coord, 0, len(m.pending))
	for c := range m.pending {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCoord)
	return out
}

// Ring returns every MustOccupy tile, covered or not, ordered by x, then y.
func (m *Map) Ring() []model.Coord {
	var out []model.Coord
	for x := 0; x < m.width; x++ {
		for y := 0; y < m.height; y++ {
			if m.grid[m.index(x, y)] == MustOccupy {
				out = append(out, model.Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// Claim removes c from the pending set. It reports whether c was pending.
func (m *Map) Claim(c model.Coord) bool {
	if !m.IsPending(c) {
		return false
	}
	delete(m.pending, c)
	return true
}

// ClaimNearest removes and returns the pending tile closest to from.
// Ties go to the lower coordinate.
func (m *Map) ClaimNearest(from model.Coord) (model.Coord, bool) {
	var best model.Coord
	found := false
	for c := range m.pending {
		if !found {
			best, found = c, true
			continue
		}
		d, bd := from.Chebyshev(c), from.Chebyshev(best)
		if d < bd || (d == bd && c.Less(best)) {
			best = c
		}
	}
	if found {
		delete(m.pending, best)
	}
	return best, found
}

func compareCoord(a, b model.Coord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
