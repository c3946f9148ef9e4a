package registry

import (
	"sort"

	"github.com/aledsdavies/mathstep/core/expr"
)

// Rule is one catalog row: an applicability predicate plus how the match is
// offered and which primitive runs it. Rules are immutable once loaded.
type Rule struct {
	ID          string
	Domain      string
	Click       ClickKind
	Operator    expr.Op     // OpNone matches any operator
	Left        OperandType // OperandUnspecified matches anything
	Right       OperandType
	Require     []Guard
	Forbid      []Guard
	Disposition Disposition
	Label       string
	Primitive   PrimitiveID
	Target      Target

	// Declarative rows. Pattern must match the target node; Condition is
	// checked against the bindings; Result, when set, drives the rewrite.
	Pattern   string
	Condition string
	Result    string
	Variables map[string]VarType
}

// HasPattern reports whether the row carries a declarative pattern.
func (r Rule) HasPattern() bool {
	return r.Pattern != ""
}

// Accepts reports whether the row's guard constraints hold for guards.
func (r Rule) Accepts(guards GuardSet) bool {
	for _, g := range r.Require {
		if !guards.Has(g) {
			return false
		}
	}
	for _, g := range r.Forbid {
		if guards.Has(g) {
			return false
		}
	}
	return true
}

// Specificity scores how constrained the row is. A more specific row ranks
// first among matches.
func (r Rule) Specificity() int {
	score := len(r.Require) + len(r.Forbid)
	if r.Operator != expr.OpNone {
		score++
	}
	if r.Left != OperandUnspecified {
		score++
	}
	if r.Right != OperandUnspecified {
		score++
	}
	if r.HasPattern() {
		score += 2
	}
	return score
}

// VariableNames returns the declared pattern variables, sorted.
func (r Rule) VariableNames() []string {
	names := make([]string, 0, len(r.Variables))
	for n := range r.Variables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
