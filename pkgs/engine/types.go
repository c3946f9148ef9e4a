package engine

import (
	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
	"github.com/aledsdavies/mathstep/runtime/matcher"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

// StepResult represents the result of one click through the whole pipeline
type StepResult struct {
	Before string // Printed input
	After  string // Printed result; equals Before unless Applied

	Tree    expr.Node // Result tree, or the input tree when nothing ran
	Context resolver.NodeContext
	Outcome matcher.Outcome

	Applied bool           // A primitive rewrote the tree
	Rule    *registry.Rule // Row that ran (or explained a diagnostic)

	// Diagnostic holds the typed error a diagnostic row produced, such as
	// DIVISION_BY_ZERO. It is a result to show, not a failure of the step.
	Diagnostic error
}

// Status names the outcome the way a transport layer reports it.
func (r *StepResult) Status() string {
	switch {
	case r.Applied:
		return "step-applied"
	case r.Outcome.Kind == matcher.Choice:
		return "choice"
	case r.Outcome.Kind == matcher.Diagnostic:
		return "diagnostic"
	default:
		return "no-candidates"
	}
}

// Options lists the primitives a Choice offers.
func (r *StepResult) Options() []registry.PrimitiveID {
	if r.Outcome.Kind != matcher.Choice {
		return nil
	}
	return r.Outcome.Options()
}
