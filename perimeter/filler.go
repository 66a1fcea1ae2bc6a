package perimeter

import (
	"log/slog"

	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/occupancy"
)

const defaultMoveAttempts = 3

// Filler routes idle units onto uncovered ring tiles and requests enough
// garrison units to cover the ring.
type Filler struct {
	Unit         model.UnitType // garrison unit to spawn
	Reserve      int            // units wanted beyond the ring size
	MoveAttempts int            // ranked directions tried per unit; 0 means 3
}

// FillResult counts what one Fill pass did.
type FillResult struct {
	Spawned int
	Moved   int
	Stuck   int // units that claimed a tile but could not step
	Attacks int
}

// Fill runs one garrison pass. Claimed tiles leave occ's pending set.
func (f Filler) Fill(ctl control.Controller, occ *occupancy.Map) FillResult {
	var res FillResult
	attempts := f.MoveAttempts
	if attempts <= 0 {
		attempts = defaultMoveAttempts
	}

	deficit := max(0, occ.Total()+f.Reserve-len(ctl.Units(model.Ally)))
	for _, b := range ctl.Buildings(model.Ally) {
		if res.Spawned >= deficit {
			break
		}
		if ctl.CanSpawn(b.ID, f.Unit) && ctl.Spawn(b.ID, f.Unit) {
			res.Spawned++
		}
	}

	for _, u := range ctl.Units(model.Ally) {
		if occ.PendingCount() == 0 {
			break
		}
		if occ.At(u.X, u.Y) == occupancy.MustOccupy {
			continue
		}
		// Units that cannot move this turn leave the tile for someone else.
		if len(ctl.PossibleMoveDirections(u.ID)) == 0 {
			continue
		}
		target, _ := occ.ClaimNearest(u.Pos())
		if StepToward(ctl, u, target, attempts) {
			res.Moved++
		} else {
			res.Stuck++
		}
	}

	res.Attacks = AttackAdjacent(ctl)

	slog.Debug("ring fill",
		"turn", ctl.Turn(),
		"total", occ.Total(),
		"pending", occ.PendingCount(),
		"deficit", deficit,
		"spawned", res.Spawned,
		"moved", res.Moved,
		"stuck", res.Stuck,
		"attacks", res.Attacks,
	)
	return res
}

// AttackAdjacent has every ally unit attack the first enemy unit it can reach.
func AttackAdjacent(ctl control.Controller) int {
	enemies := ctl.Units(model.Enemy)
	attacks := 0
	for _, u := range ctl.Units(model.Ally) {
		for _, e := range enemies {
			if ctl.CanAttackUnit(u.ID, e.ID) && ctl.AttackUnit(u.ID, e.ID) {
				attacks++
				break
			}
		}
	}
	return attacks
}
