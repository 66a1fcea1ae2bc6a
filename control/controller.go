// Package control is the query/command boundary between decision code and the
// engine. Decision code never touches the wire; it asks a Controller whether a
// command is legal and issues it, and a false result means the engine side
// refused.
package control

import "github.com/nstehr/rampart/model"

type Controller interface {
	Team() model.Team
	Turn() int
	Width() int
	Height() int
	Terrain() *model.Terrain
	Balance() int
	Catalog() model.Catalog

	// Buildings and Units return the side's entities sorted by ID.
	Buildings(side model.Side) []model.Building
	Units(side model.Side) []model.Unit
	Unit(id int) (model.Unit, bool)
	Building(id int) (model.Building, bool)

	CanBuild(t model.BuildingType, x, y int) bool
	Build(t model.BuildingType, x, y int) bool
	CanSpawn(buildingID int, t model.UnitType) bool
	Spawn(buildingID int, t model.UnitType) bool

	// PossibleMoveDirections lists the legal non-stay steps for a unit in
	// canonical direction order.
	PossibleMoveDirections(unitID int) []model.Direction
	CanMove(unitID int, d model.Direction) bool
	Move(unitID int, d model.Direction) bool

	CanAttackUnit(unitID, targetID int) bool
	AttackUnit(unitID, targetID int) bool
	CanAttackBuilding(unitID, buildingID int) bool
	AttackBuilding(unitID, buildingID int) bool
}
