package rules

import "github.com/expr-lang/expr/vm"

// ActionFunc issues a mode's commands for one turn.
type ActionFunc func(env TurnEnv) error

// Rule is a condition → mode pair. The first rule to match, in priority
// order, decides the turn's mode and runs its action.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Mode         Mode        // mode entered when the rule fires
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}

// RuleSpec is the serializable form of a Rule, as written in config files.
type RuleSpec struct {
	Name      string `yaml:"name" json:"name"`
	Priority  int    `yaml:"priority" json:"priority"`
	Mode      string `yaml:"mode" json:"mode"`
	Condition string `yaml:"condition" json:"condition"`
}
