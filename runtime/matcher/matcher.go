// Package matcher finds the catalog rows that apply to a resolved click and
// classifies them into a single outcome.
package matcher

import (
	"log/slog"
	"sort"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/pattern"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

// Match is one applicable rule for one context.
type Match struct {
	Rule    registry.Rule
	Context resolver.NodeContext
	Score   int

	// Address is where the rule's primitive runs.
	Address expr.Address
	// Bindings holds pattern variables for declarative rows.
	Bindings pattern.Bindings
}

// compiled holds the precompiled declarative parts of one row.
type compiled struct {
	pattern   *pattern.Pattern
	condition pattern.Condition
	result    *pattern.Template
}

// Matcher evaluates every catalog row against a context. It is immutable
// after New and safe for concurrent use.
type Matcher struct {
	reg    *registry.Registry
	rows   map[string]compiled
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sends match decisions to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New compiles the declarative parts of every row in reg. A pattern or
// result template that does not compile makes the catalog invalid.
func New(reg *registry.Registry, opts ...Option) (*Matcher, error) {
	m := &Matcher{
		reg:    reg,
		rows:   make(map[string]compiled),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, r := range reg.Rules() {
		var c compiled
		if r.HasPattern() {
			p, err := pattern.Compile(r.Pattern, r.Variables)
			if err != nil {
				return nil, steperr.NewInvalidCatalog("rule "+r.ID, err).WithContext("rule", r.ID)
			}
			c.pattern = p
			c.condition = pattern.ParseCondition(r.Condition)
		}
		if r.Result != "" {
			t, err := pattern.CompileTemplate(r.Result)
			if err != nil {
				return nil, steperr.NewInvalidCatalog("rule "+r.ID, err).WithContext("rule", r.ID)
			}
			c.result = t
		}
		m.rows[r.ID] = c
	}
	return m, nil
}

// Registry returns the catalog the matcher was built from.
func (m *Matcher) Registry() *registry.Registry {
	return m.reg
}

// Result returns the compiled result template of a declarative row.
func (m *Matcher) Result(ruleID string) (*pattern.Template, bool) {
	c, ok := m.rows[ruleID]
	if !ok || c.result == nil {
		return nil, false
	}
	return c.result, true
}

// Match returns the rows that apply to ctx, most specific first. Rows of
// equal score keep catalog order. An unresolved context matches nothing.
func (m *Matcher) Match(ctx resolver.NodeContext) []Match {
	if !ctx.Resolved {
		return nil
	}

	var out []Match
	for _, r := range m.reg.Rules() {
		match, ok := m.try(r, ctx)
		if !ok {
			continue
		}
		out = append(out, match)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	m.logger.Debug("matched rules",
		"address", ctx.Address.String(),
		"click", ctx.Click.String(),
		"count", len(out))
	return out
}

func (m *Matcher) try(r registry.Rule, ctx resolver.NodeContext) (Match, bool) {
	if r.Click != ctx.Click {
		return Match{}, false
	}
	if r.Operator != expr.OpNone && r.Operator != ctx.Operator {
		return Match{}, false
	}
	if !typeAllowed(r.Left, ctx.Left) || !typeAllowed(r.Right, ctx.Right) {
		return Match{}, false
	}
	if !r.Accepts(ctx.Guards) {
		return Match{}, false
	}

	addr, ok := ctx.TargetAddress(r.Target)
	if !ok {
		return Match{}, false
	}
	match := Match{Rule: r, Context: ctx, Score: r.Specificity(), Address: addr}

	if c := m.rows[r.ID]; c.pattern != nil {
		target, _ := ctx.TargetNode(r.Target)
		b, ok := c.pattern.Match(target)
		if !ok || !c.condition.Holds(b) {
			m.logger.Debug("pattern rejected", "rule", r.ID, "pattern", c.pattern.String())
			return Match{}, false
		}
		match.Bindings = b
	}
	return match, true
}

func typeAllowed(want, got registry.OperandType) bool {
	return want == registry.OperandUnspecified || want == got
}
