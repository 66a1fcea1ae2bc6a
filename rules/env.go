package rules

import (
	"github.com/nstehr/rampart/control"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/occupancy"
)

// TurnEnv wraps one turn's controller, occupancy map and session and exposes
// helper methods callable from expr expressions.
type TurnEnv struct {
	Ctl     control.Controller
	Occ     *occupancy.Map
	Session *Session
	Profile Profile
}

func (e TurnEnv) Turn() int    { return e.Ctl.Turn() }
func (e TurnEnv) Balance() int { return e.Ctl.Balance() }

func (e TurnEnv) FarmCount() int {
	return countAnyType(e.Ctl.Buildings(model.Ally), roles["farm"])
}

// RushFarmCount is the number of known forward farms still standing.
func (e TurnEnv) RushFarmCount() int { return len(e.Session.KnownFarms) }
func (e TurnEnv) RushStarted() bool  { return e.Session.RushStarted }

func (e TurnEnv) PendingCount() int { return e.Occ.PendingCount() }
func (e TurnEnv) RingTotal() int    { return e.Occ.Total() }

func (e TurnEnv) UnitCount() int      { return len(e.Ctl.Units(model.Ally)) }
func (e TurnEnv) EnemyUnitCount() int { return len(e.Ctl.Units(model.Enemy)) }

// BuildingCount counts ally buildings of one concrete type, e.g. "farm_2".
func (e TurnEnv) BuildingCount(t string) int {
	return countType(e.Ctl.Buildings(model.Ally), t)
}

// RoleCount counts ally buildings and units that fill role, e.g. "farm" or "infantry".
func (e TurnEnv) RoleCount(role string) int {
	types := roleTypes(role)
	return countAnyType(e.Ctl.Buildings(model.Ally), types) + countAnyType(e.Ctl.Units(model.Ally), types)
}

func (e TurnEnv) EnemyRoleCount(role string) int {
	types := roleTypes(role)
	return countAnyType(e.Ctl.Buildings(model.Enemy), types) + countAnyType(e.Ctl.Units(model.Enemy), types)
}

func (e TurnEnv) HasCastle() bool {
	_, ok := e.castle(model.Ally)
	return ok
}

func (e TurnEnv) EnemyCastleVisible() bool {
	_, ok := e.castle(model.Enemy)
	return ok
}

func (e TurnEnv) castle(side model.Side) (model.Building, bool) {
	for _, b := range e.Ctl.Buildings(side) {
		if b.Type == model.MainCastle {
			return b, true
		}
	}
	return model.Building{}, false
}
