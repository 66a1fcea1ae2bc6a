package rules

import "fmt"

// CompileProfile generates the mode rules for a profile.
// All conditions are built via fmt.Sprintf with interpolated values,
// so the compiler never generates invalid expr.
func CompileProfile(p Profile) []*Rule {
	p.Validate()
	var rules []*Rule

	rules = append(rules, &Rule{
		Name:         "build-economy",
		Priority:     300,
		Mode:         ModeFarm,
		ConditionSrc: fmt.Sprintf(`HasCastle() && FarmCount() < %d`, p.FarmsForAccum),
		Action:       ActionFarm,
	})

	if !p.Staged {
		rules = append(rules, &Rule{
			Name:         "rush-from-home",
			Priority:     100,
			Mode:         ModeRush,
			ConditionSrc: `EnemyCastleVisible()`,
			Action:       ActionRush,
		})
		return rules
	}

	rules = append(rules, &Rule{
		Name:         "rush-from-forward-farms",
		Priority:     200,
		Mode:         ModeRush,
		ConditionSrc: fmt.Sprintf(`RushStarted() && RushFarmCount() == %d`, p.RushFarms),
		Action:       ActionRush,
	})

	rules = append(rules, &Rule{
		Name:         "accumulate-forward-farms",
		Priority:     100,
		Mode:         ModeAccum,
		ConditionSrc: `HasCastle()`,
		Action:       ActionAccum,
	})

	return rules
}
