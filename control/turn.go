package control

import (
	"log/slog"
	"slices"

	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
)

// Turn mirrors the engine's command rules over one snapshot. Each accepted
// command is applied to the local copy, so later decisions in the same turn
// see its effect, and is recorded for transmission. The engine stays
// authoritative; the mirror only keeps the bot from sending obvious rejects.
type Turn struct {
	state   model.GameState
	terrain *model.Terrain
	catalog model.Catalog

	nextID    int
	moved     map[int]bool
	attacked  map[int]bool
	spawnedAt map[int]bool // building IDs that already spawned
	exhausted map[int]bool // units created this turn
	issued    []ipc.Envelope
}

// NewTurn copies gs. A nil terrain means an open map of the snapshot's size.
func NewTurn(gs model.GameState, terrain *model.Terrain, catalog model.Catalog) *Turn {
	if terrain == nil {
		terrain = model.OpenTerrain(gs.MapWidth, gs.MapHeight)
	}
	return &Turn{
		state:     gs.Clone(),
		terrain:   terrain,
		catalog:   catalog,
		nextID:    -1,
		moved:     make(map[int]bool),
		attacked:  make(map[int]bool),
		spawnedAt: make(map[int]bool),
		exhausted: make(map[int]bool),
	}
}

func (t *Turn) Team() model.Team        { return t.state.Team }
func (t *Turn) Turn() int               { return t.state.Turn }
func (t *Turn) Width() int              { return t.state.MapWidth }
func (t *Turn) Height() int             { return t.state.MapHeight }
func (t *Turn) Terrain() *model.Terrain { return t.terrain }
func (t *Turn) Balance() int            { return t.state.Balance }
func (t *Turn) Catalog() model.Catalog  { return t.catalog }

// State returns the snapshot with every accepted command applied.
func (t *Turn) State() model.GameState { return t.state.Clone() }

// Issued returns the accepted commands in the order they were issued.
func (t *Turn) Issued() []ipc.Envelope { return slices.Clone(t.issued) }

func (t *Turn) Buildings(side model.Side) []model.Building {
	src := t.state.Buildings
	if side == model.Enemy {
		src = t.state.EnemyBuildings
	}
	out := slices.Clone(src)
	slices.SortFunc(out, func(a, b model.Building) int { return a.ID - b.ID })
	return out
}

func (t *Turn) Units(side model.Side) []model.Unit {
	src := t.state.Units
	if side == model.Enemy {
		src = t.state.EnemyUnits
	}
	out := slices.Clone(src)
	slices.SortFunc(out, func(a, b model.Unit) int { return a.ID - b.ID })
	return out
}

func (t *Turn) Unit(id int) (model.Unit, bool) {
	if u, _, ok := t.findUnit(id); ok {
		return u, true
	}
	return model.Unit{}, false
}

func (t *Turn) Building(id int) (model.Building, bool) {
	if b, _, ok := t.findBuilding(id); ok {
		return b, true
	}
	return model.Building{}, false
}

func (t *Turn) CanBuild(bt model.BuildingType, x, y int) bool {
	bs, ok := t.catalog.Buildings[bt]
	if !ok || !bs.Buildable {
		return false
	}
	if !t.terrain.InBounds(x, y) || !t.terrain.Buildable(x, y) {
		return false
	}
	if _, _, ok := t.buildingAt(x, y); ok {
		return false
	}
	if _, ok := t.unitAt(x, y); ok {
		return false
	}
	return t.state.Balance >= bs.Cost
}

func (t *Turn) Build(bt model.BuildingType, x, y int) bool {
	if !t.CanBuild(bt, x, y) {
		slog.Debug("build rejected", "building", bt, "x", x, "y", y)
		return false
	}
	t.state.Balance -= t.catalog.BuildingCost(bt)
	t.state.Buildings = append(t.state.Buildings, model.Building{ID: t.allocID(), Type: bt, X: x, Y: y})
	t.record(ipc.TypeBuild, ipc.BuildCommand{Building: string(bt), X: x, Y: y})
	return true
}

func (t *Turn) CanSpawn(buildingID int, ut model.UnitType) bool {
	b, side, ok := t.findBuilding(buildingID)
	if !ok || side != model.Ally || t.spawnedAt[buildingID] {
		return false
	}
	if !t.catalog.Buildings[b.Type].Spawner {
		return false
	}
	us, ok := t.catalog.Units[ut]
	if !ok || t.state.Balance < us.Cost {
		return false
	}
	_, occupied := t.unitAt(b.X, b.Y)
	return !occupied
}

func (t *Turn) Spawn(buildingID int, ut model.UnitType) bool {
	if !t.CanSpawn(buildingID, ut) {
		slog.Debug("spawn rejected", "building", buildingID, "unit", ut)
		return false
	}
	b, _, _ := t.findBuilding(buildingID)
	t.state.Balance -= t.catalog.UnitCost(ut)
	id := t.allocID()
	t.state.Units = append(t.state.Units, model.Unit{ID: id, Type: ut, X: b.X, Y: b.Y})
	t.spawnedAt[buildingID] = true
	t.exhausted[id] = true
	t.record(ipc.TypeSpawn, ipc.SpawnCommand{Unit: string(ut), BuildingID: buildingID})
	return true
}

func (t *Turn) PossibleMoveDirections(unitID int) []model.Direction {
	var dirs []model.Direction
	for _, d := range model.Directions {
		if t.CanMove(unitID, d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (t *Turn) CanMove(unitID int, d model.Direction) bool {
	u, side, ok := t.findUnit(unitID)
	if !ok || side != model.Ally || t.moved[unitID] || t.exhausted[unitID] {
		return false
	}
	if d == model.Stay || !d.Valid() {
		return false
	}
	x, y := model.NewLocation(u.X, u.Y, d)
	if !t.terrain.InBounds(x, y) || !t.terrain.Passable(x, y) {
		return false
	}
	if _, ok := t.unitAt(x, y); ok {
		return false
	}
	if _, side, ok := t.buildingAt(x, y); ok && side == model.Enemy {
		return false
	}
	return true
}

func (t *Turn) Move(unitID int, d model.Direction) bool {
	if !t.CanMove(unitID, d) {
		return false
	}
	_, _, idx := t.allyUnitIndex(unitID)
	u := &t.state.Units[idx]
	u.X, u.Y = model.NewLocation(u.X, u.Y, d)
	t.moved[unitID] = true
	t.record(ipc.TypeMove, ipc.MoveCommand{UnitID: unitID, Direction: string(d)})
	return true
}

func (t *Turn) CanAttackUnit(unitID, targetID int) bool {
	u, ok := t.readyAttacker(unitID)
	if !ok {
		return false
	}
	target, side, ok := t.findUnit(targetID)
	if !ok || side != model.Enemy {
		return false
	}
	return u.Pos().Chebyshev(target.Pos()) <= t.catalog.Units[u.Type].Range
}

func (t *Turn) AttackUnit(unitID, targetID int) bool {
	if !t.CanAttackUnit(unitID, targetID) {
		return false
	}
	t.attacked[unitID] = true
	t.record(ipc.TypeAttackUnit, ipc.AttackUnitCommand{UnitID: unitID, TargetID: targetID})
	return true
}

func (t *Turn) CanAttackBuilding(unitID, buildingID int) bool {
	u, ok := t.readyAttacker(unitID)
	if !ok {
		return false
	}
	b, side, ok := t.findBuilding(buildingID)
	if !ok || side != model.Enemy {
		return false
	}
	return u.Pos().Chebyshev(b.Pos()) <= t.catalog.Units[u.Type].Range
}

func (t *Turn) AttackBuilding(unitID, buildingID int) bool {
	if !t.CanAttackBuilding(unitID, buildingID) {
		return false
	}
	t.attacked[unitID] = true
	t.record(ipc.TypeAttackBuilding, ipc.AttackBuildingCommand{UnitID: unitID, BuildingID: buildingID})
	return true
}

func (t *Turn) readyAttacker(unitID int) (model.Unit, bool) {
	u, side, ok := t.findUnit(unitID)
	if !ok || side != model.Ally || t.attacked[unitID] || t.exhausted[unitID] {
		return model.Unit{}, false
	}
	return u, true
}

func (t *Turn) record(msgType string, data any) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		slog.Error("failed to encode command", "type", msgType, "error", err)
		return
	}
	t.issued = append(t.issued, env)
	slog.Debug("command issued", "type", msgType, "turn", t.state.Turn)
}

func (t *Turn) allocID() int {
	id := t.nextID
	t.nextID--
	return id
}

func (t *Turn) allyUnitIndex(id int) (model.Unit, bool, int) {
	for i, u := range t.state.Units {
		if u.ID == id {
			return u, true, i
		}
	}
	return model.Unit{}, false, -1
}

func (t *Turn) findUnit(id int) (model.Unit, model.Side, bool) {
	if u, ok, _ := t.allyUnitIndex(id); ok {
		return u, model.Ally, true
	}
	for _, u := range t.state.EnemyUnits {
		if u.ID == id {
			return u, model.Enemy, true
		}
	}
	return model.Unit{}, model.Ally, false
}

func (t *Turn) findBuilding(id int) (model.Building, model.Side, bool) {
	for _, b := range t.state.Buildings {
		if b.ID == id {
			return b, model.Ally, true
		}
	}
	for _, b := range t.state.EnemyBuildings {
		if b.ID == id {
			return b, model.Enemy, true
		}
	}
	return model.Building{}, model.Ally, false
}

func (t *Turn) unitAt(x, y int) (model.Unit, bool) {
	for _, list := range [][]model.Unit{t.state.Units, t.state.EnemyUnits} {
		for _, u := range list {
			if u.X == x && u.Y == y {
				return u, true
			}
		}
	}
	return model.Unit{}, false
}

func (t *Turn) buildingAt(x, y int) (model.Building, model.Side, bool) {
	for _, b := range t.state.Buildings {
		if b.X == x && b.Y == y {
			return b, model.Ally, true
		}
	}
	for _, b := range t.state.EnemyBuildings {
		if b.X == x && b.Y == y {
			return b, model.Enemy, true
		}
	}
	return model.Building{}, model.Ally, false
}
