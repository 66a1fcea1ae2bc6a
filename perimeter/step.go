// Package perimeter garrisons the occupancy ring and grows the base outward.
package perimeter

import (
	"slices"

	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/model"
)

// RankDirections orders dirs by the Chebyshev distance from the tile each
// reaches to target. Equal distances keep their input order.
func RankDirections(from, target model.Coord, dirs []model.Direction) []model.Direction {
	ranked := slices.Clone(dirs)
	slices.SortStableFunc(ranked, func(a, b model.Direction) int {
		return distAfter(from, a, target) - distAfter(from, b, target)
	})
	return ranked
}

func distAfter(from model.Coord, d model.Direction, target model.Coord) int {
	x, y := model.NewLocation(from.X, from.Y, d)
	return model.Chebyshev(x, y, target.X, target.Y)
}

// StepToward moves u one tile toward target, trying up to attempts of the
// best ranked legal directions. It reports whether a move was accepted.
func StepToward(ctl control.Controller, u model.Unit, target model.Coord, attempts int) bool {
	ranked := RankDirections(u.Pos(), target, ctl.PossibleMoveDirections(u.ID))
	for i, d := range ranked {
		if i >= attempts {
			break
		}
		if d == model.Stay {
			continue
		}
		if ctl.CanMove(u.ID, d) && ctl.Move(u.ID, d) {
			return true
		}
	}
	return false
}
