package perimeter

import (
	"iter"
	"log/slog"

	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/occupancy"
)

// Expander places one structure on the first eligible tile around an anchor.
type Expander struct {
	Building model.BuildingType
	// Allow, when set, must also accept a tile before it is built on.
	Allow func(c model.Coord) bool
}

// ScanOrder yields the probe sequence around anchor. For radius i it visits
// (+j, i-j), (+j, -(i-j)), (-j, i-j), (-j, -(i-j)) for j = 0..i, so tiles on
// the axes are probed twice.
func ScanOrder(anchor model.Coord, maxRadius int) iter.Seq[model.Coord] {
	return func(yield func(model.Coord) bool) {
		for i := 1; i <= maxRadius; i++ {
			for j := 0; j <= i; j++ {
				k := i - j
				for _, off := range [4][2]int{{j, k}, {j, -k}, {-j, k}, {-j, -k}} {
					if !yield(anchor.Add(off[0], off[1])) {
						return
					}
				}
			}
		}
	}
}

// Expand builds at the first eligible tile in scan order and returns it.
// It builds nothing when no tile within the map's reach qualifies.
func (e Expander) Expand(ctl control.Controller, occ *occupancy.Map, anchor model.Coord) (model.Coord, bool) {
	maxRadius := ctl.Width() + ctl.Height()
	for c := range ScanOrder(anchor, maxRadius) {
		s := occ.At(c.X, c.Y)
		if s == occupancy.OutOfRange || s.IsBlocked() {
			continue
		}
		if e.Allow != nil && !e.Allow(c) {
			continue
		}
		if !ctl.CanBuild(e.Building, c.X, c.Y) {
			continue
		}
		if ctl.Build(e.Building, c.X, c.Y) {
			slog.Info("structure placed", "building", e.Building, "at", c, "anchor", anchor, "turn", ctl.Turn())
			return c, true
		}
	}
	slog.Debug("no eligible tile", "building", e.Building, "anchor", anchor)
	return model.Coord{}, false
}

// NoEnemyUnit returns a filter rejecting tiles an enemy unit stands on.
func NoEnemyUnit(ctl control.Controller) func(model.Coord) bool {
	enemies := ctl.Units(model.Enemy)
	return func(c model.Coord) bool {
		for _, u := range enemies {
			if u.Pos() == c {
				return false
			}
		}
		return true
	}
}
