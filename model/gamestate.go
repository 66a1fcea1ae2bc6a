package model

// Team identifies a side. The engine reports state from the receiving
// player's point of view, so most code only needs Ally/Enemy.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Side selects ally or enemy lists from a snapshot.
type Side int

const (
	Ally Side = iota
	Enemy
)

func (s Side) String() string {
	if s == Enemy {
		return "enemy"
	}
	return "ally"
}

// GameState is the per-turn snapshot sent by the engine.
type GameState struct {
	Turn           int        `json:"turn"`
	Team           Team       `json:"team"`
	Balance        int        `json:"balance"`
	MapWidth       int        `json:"mapWidth"`
	MapHeight      int        `json:"mapHeight"`
	Buildings      []Building `json:"buildings"`
	Units          []Unit     `json:"units"`
	EnemyBuildings []Building `json:"enemyBuildings"`
	EnemyUnits     []Unit     `json:"enemyUnits"`
}

type Unit struct {
	ID   int      `json:"id"`
	Type UnitType `json:"type"`
	X    int      `json:"x"`
	Y    int      `json:"y"`
	HP   int      `json:"hp"`
}

func (u Unit) TypeName() string { return string(u.Type) }
func (u Unit) Pos() Coord       { return Coord{X: u.X, Y: u.Y} }

type Building struct {
	ID   int          `json:"id"`
	Type BuildingType `json:"type"`
	X    int          `json:"x"`
	Y    int          `json:"y"`
	HP   int          `json:"hp"`
}

func (b Building) TypeName() string { return string(b.Type) }
func (b Building) Pos() Coord       { return Coord{X: b.X, Y: b.Y} }

// Clone returns a deep copy so a turn mirror can mutate its lists freely.
func (gs GameState) Clone() GameState {
	out := gs
	out.Buildings = append([]Building(nil), gs.Buildings...)
	out.Units = append([]Unit(nil), gs.Units...)
	out.EnemyBuildings = append([]Building(nil), gs.EnemyBuildings...)
	out.EnemyUnits = append([]Unit(nil), gs.EnemyUnits...)
	return out
}
