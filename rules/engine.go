package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine picks the turn's mode by running compiled rules against a TurnEnv.
type Engine struct {
	rules []*Rule
}

// Decision reports which rule fired. Rule is empty when none matched and
// the session kept its previous mode.
type Decision struct {
	Rule string
	Mode Mode
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate fires the first matching rule and records its mode on the session.
func (e *Engine) Evaluate(env TurnEnv) Decision {
	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "mode", r.Mode, "turn", env.Turn())
		env.Session.setMode(r.Mode)
		if err := r.Action(env); err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
		}
		return Decision{Rule: r.Name, Mode: r.Mode}
	}

	slog.Debug("no rule fired", "turn", env.Turn(), "mode", env.Session.Mode)
	return Decision{Mode: env.Session.Mode}
}

// Names lists the rules in evaluation order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// FromSpecs turns config rule specs into rules bound to their mode's action.
func FromSpecs(specs []RuleSpec) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(specs))
	for _, s := range specs {
		mode, ok := ParseMode(strings.ToUpper(s.Mode))
		if !ok {
			return nil, fmt.Errorf("rule %q: unknown mode %q", s.Name, s.Mode)
		}
		rules = append(rules, &Rule{
			Name:         s.Name,
			Priority:     s.Priority,
			Mode:         mode,
			ConditionSrc: s.Condition,
			Action:       ActionFor(mode),
		})
	}
	return rules, nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(TurnEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
