package rules

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/perimeter"
)

// ActionFor returns the action that runs a mode.
func ActionFor(m Mode) ActionFunc {
	switch m {
	case ModeFarm:
		return ActionFarm
	case ModeAccum:
		return ActionAccum
	case ModeRush:
		return ActionRush
	}
	return func(TurnEnv) error { return nil }
}

// ActionFarm garrisons the home ring and expands around the castle.
func ActionFarm(env TurnEnv) error {
	return farmTurn(env, true)
}

// ActionAccum plants one forward farm next to the enemy castle per turn
// until the rush farms stand, then keeps the home garrison going.
func ActionAccum(env TurnEnv) error {
	p := env.Profile
	s := env.Session
	cost := env.Ctl.Catalog().BuildingCost(p.FarmBuilding)

	if len(s.KnownFarms) < p.RushFarms && env.Balance() >= p.RushFarms*cost {
		if castle, ok := env.castle(model.Enemy); ok {
			exp := perimeter.Expander{Building: p.FarmBuilding, Allow: perimeter.NoEnemyUnit(env.Ctl)}
			if at, ok := exp.Expand(env.Ctl, env.Occ, castle.Pos()); ok {
				s.RecordFarm(at)
				slog.Info("forward farm requested", "match", s.MatchID, "at", at, "known", len(s.KnownFarms))
			}
		}
	}
	if len(s.KnownFarms) >= p.RushFarms && !s.RushStarted {
		s.RushStarted = true
		slog.Info("rush started", "match", s.MatchID, "farms", len(s.KnownFarms))
	}

	return farmTurn(env, false)
}

// ActionRush spawns rush units and marches everything at the enemy castle.
func ActionRush(env TurnEnv) error {
	p := env.Profile
	if _, ok := env.Ctl.Catalog().Units[p.RushUnit]; !ok {
		return fmt.Errorf("rush unit %q not in catalog", p.RushUnit)
	}
	castle, ok := env.castle(model.Enemy)
	if !ok {
		return nil
	}

	spawned := 0
	for _, b := range env.Ctl.Buildings(model.Ally) {
		if !p.RushFromAll && !env.Session.IsKnownFarm(b.Pos()) {
			continue
		}
		if env.Ctl.CanSpawn(b.ID, p.RushUnit) && env.Ctl.Spawn(b.ID, p.RushUnit) {
			spawned++
		}
	}

	attacks, moved := 0, 0
	for _, u := range env.Ctl.Units(model.Ally) {
		if env.Ctl.CanAttackBuilding(u.ID, castle.ID) && env.Ctl.AttackBuilding(u.ID, castle.ID) {
			attacks++
		}
		if perimeter.StepToward(env.Ctl, u, castle.Pos(), 1) {
			moved++
		}
	}

	slog.Debug("rush", "turn", env.Turn(), "spawned", spawned, "attacks", attacks, "moved", moved)
	return nil
}

func farmTurn(env TurnEnv, expand bool) error {
	p := env.Profile
	if _, ok := env.Ctl.Catalog().Units[p.GarrisonUnit]; !ok {
		return fmt.Errorf("garrison unit %q not in catalog", p.GarrisonUnit)
	}
	castle, ok := env.castle(model.Ally)
	if !ok {
		return nil
	}

	closed := env.Occ.PendingCount() == 0
	if !closed {
		f := perimeter.Filler{Unit: p.GarrisonUnit, Reserve: p.GarrisonReserve, MoveAttempts: p.MoveAttempts}
		f.Fill(env.Ctl, env.Occ)
	}

	if !expand || (p.ExpandRequiresClosedRing && !closed) {
		return nil
	}
	if env.Balance() > env.Ctl.Catalog().BuildingCost(p.FarmBuilding) {
		exp := perimeter.Expander{Building: p.FarmBuilding}
		exp.Expand(env.Ctl, env.Occ, castle.Pos())
	}
	return nil
}
