package ipc

// Command type constants. These must stay in sync with the engine's command dispatcher.
const (
	TypeBuild          = "build"
	TypeSpawn          = "spawn"
	TypeMove           = "move"
	TypeAttackUnit     = "attack_unit"
	TypeAttackBuilding = "attack_building"
)

type BuildCommand struct {
	Building string `json:"building"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type SpawnCommand struct {
	Unit       string `json:"unit"`
	BuildingID int    `json:"building_id"`
}

type MoveCommand struct {
	UnitID    int    `json:"unit_id"`
	Direction string `json:"direction"`
}

type AttackUnitCommand struct {
	UnitID   int `json:"unit_id"`
	TargetID int `json:"target_id"`
}

type AttackBuildingCommand struct {
	UnitID     int `json:"unit_id"`
	BuildingID int `json:"building_id"`
}
