package model

type UnitType string

const (
	Warrior   UnitType = "warrior"
	Swordsman UnitType = "swordsman"
	Knight    UnitType = "knight"
	Catapult  UnitType = "catapult"
)

type BuildingType string

const (
	MainCastle BuildingType = "main_castle"
	Farm1      BuildingType = "farm_1"
	Farm2      BuildingType = "farm_2"
	Farm3      BuildingType = "farm_3"
)

// IsFarm reports whether t is any farm tier.
func (t BuildingType) IsFarm() bool {
	return t == Farm1 || t == Farm2 || t == Farm3
}

type UnitSpec struct {
	Cost  int `yaml:"cost" json:"cost"`
	Range int `yaml:"range" json:"range"` // Chebyshev attack reach
}

type BuildingSpec struct {
	Cost      int  `yaml:"cost" json:"cost"`
	Spawner   bool `yaml:"spawner" json:"spawner"`     // can produce units
	Buildable bool `yaml:"buildable" json:"buildable"` // players may place it
}

// Catalog carries the engine's unit and building parameters. The local turn
// mirror uses it to pre-check commands; the engine stays authoritative.
type Catalog struct {
	Units     map[UnitType]UnitSpec         `yaml:"units" json:"units"`
	Buildings map[BuildingType]BuildingSpec `yaml:"buildings" json:"buildings"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Units: map[UnitType]UnitSpec{
			Warrior:   {Cost: 10, Range: 1},
			Swordsman: {Cost: 20, Range: 1},
			Knight:    {Cost: 25, Range: 1},
			Catapult:  {Cost: 40, Range: 3},
		},
		Buildings: map[BuildingType]BuildingSpec{
			MainCastle: {Cost: 0, Spawner: true},
			Farm1:      {Cost: 30, Spawner: true, Buildable: true},
			Farm2:      {Cost: 60, Spawner: true},
			Farm3:      {Cost: 90, Spawner: true},
		},
	}
}

func (c Catalog) UnitCost(t UnitType) int         { return c.Units[t].Cost }
func (c Catalog) BuildingCost(t BuildingType) int { return c.Buildings[t].Cost }

// Merge overlays non-empty entries from o onto c.
func (c Catalog) Merge(o Catalog) Catalog {
	out := Catalog{
		Units:     make(map[UnitType]UnitSpec, len(c.Units)),
		Buildings: make(map[BuildingType]BuildingSpec, len(c.Buildings)),
	}
	for k, v := range c.Units {
		out.Units[k] = v
	}
	for k, v := range c.Buildings {
		out.Buildings[k] = v
	}
	for k, v := range o.Units {
		out.Units[k] = v
	}
	for k, v := range o.Buildings {
		out.Buildings[k] = v
	}
	return out
}
