package rules

import (
	"strings"

	"github.com/nstehr/rampart/model"
)

// Profile is a named strategic posture. The compiler maps it to a rule set.
type Profile struct {
	Name string `yaml:"name" json:"name"`
	// Staged profiles go FARM, then ACCUM forward farms, then RUSH.
	// Direct profiles rush from home once the farm count is reached.
	Staged bool `yaml:"staged" json:"staged"`

	FarmsForAccum int                `yaml:"farms_for_accum" json:"farms_for_accum"`
	RushFarms     int                `yaml:"rush_farms" json:"rush_farms"`
	FarmBuilding  model.BuildingType `yaml:"farm_building" json:"farm_building"`

	GarrisonUnit    model.UnitType `yaml:"garrison_unit" json:"garrison_unit"`
	GarrisonReserve int            `yaml:"garrison_reserve" json:"garrison_reserve"`
	MoveAttempts    int            `yaml:"move_attempts" json:"move_attempts"`

	RushUnit    model.UnitType `yaml:"rush_unit" json:"rush_unit"`
	RushFromAll bool           `yaml:"rush_from_all" json:"rush_from_all"`

	// ExpandRequiresClosedRing holds home expansion until every ring tile is covered.
	ExpandRequiresClosedRing bool `yaml:"expand_requires_closed_ring" json:"expand_requires_closed_ring"`
	// StructuresOnly keeps impassable terrain from pulling garrison units.
	StructuresOnly bool `yaml:"structures_only" json:"structures_only"`
}

// StagedProfile farms at home, plants forward farms by the enemy castle,
// then rushes from them.
func StagedProfile() Profile {
	return Profile{
		Name:            "staged",
		Staged:          true,
		FarmsForAccum:   3,
		RushFarms:       2,
		FarmBuilding:    model.Farm1,
		GarrisonUnit:    model.Warrior,
		GarrisonReserve: 1,
		MoveAttempts:    3,
		RushUnit:        model.Swordsman,
	}
}

// DirectProfile farms at home, then rushes knights from every building.
func DirectProfile() Profile {
	return Profile{
		Name:            "direct",
		FarmsForAccum:   3,
		FarmBuilding:    model.Farm1,
		GarrisonUnit:    model.Warrior,
		GarrisonReserve: 1,
		MoveAttempts:    3,
		RushUnit:        model.Knight,
		RushFromAll:     true,
	}
}

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, bool) {
	switch strings.ToLower(name) {
	case "", "staged":
		return StagedProfile(), true
	case "direct":
		return DirectProfile(), true
	}
	return Profile{}, false
}

// Validate fills unset types and clamps counts to their valid ranges.
func (p *Profile) Validate() {
	if p.FarmBuilding == "" {
		p.FarmBuilding = model.Farm1
	}
	if p.GarrisonUnit == "" {
		p.GarrisonUnit = model.Warrior
	}
	if p.RushUnit == "" {
		p.RushUnit = model.Swordsman
	}
	p.FarmsForAccum = clampInt(p.FarmsForAccum, 0, 50)
	p.RushFarms = clampInt(p.RushFarms, 0, 10)
	p.GarrisonReserve = clampInt(p.GarrisonReserve, 0, 10)
	p.MoveAttempts = clampInt(p.MoveAttempts, 1, 8)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
