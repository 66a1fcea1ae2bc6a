package rules

import (
	"strings"

	"github.com/nstehr/rampart/model"
)

// typed is a generic constraint for any model type with a TypeName accessor.
type typed interface {
	TypeName() string
}

// countType counts items whose TypeName matches t (case-insensitive).
func countType[T typed](items []T, t string) int {
	n := 0
	for _, item := range items {
		if strings.EqualFold(item.TypeName(), t) {
			n++
		}
	}
	return n
}

// countAnyType counts items whose TypeName matches any of the given types.
func countAnyType[T typed](items []T, types []string) int {
	n := 0
	for _, item := range items {
		for _, t := range types {
			if strings.EqualFold(item.TypeName(), t) {
				n++
				break
			}
		}
	}
	return n
}

// roles maps a logical role name to the concrete type names that fill it.
var roles = map[string][]string{
	"castle":   {string(model.MainCastle)},
	"farm":     {string(model.Farm1), string(model.Farm2), string(model.Farm3)},
	"infantry": {string(model.Warrior), string(model.Swordsman)},
	"cavalry":  {string(model.Knight)},
	"siege":    {string(model.Catapult)},
}

// roleTypes returns the types for role, or role itself when it is a concrete type.
func roleTypes(role string) []string {
	if types, ok := roles[strings.ToLower(role)]; ok {
		return types
	}
	return []string{role}
}
