// Package engine ties the step pipeline together: parse, resolve the click,
// match catalog rows, select an outcome and run the chosen primitive.
//
// An Engine holds only immutable collaborators and is safe for concurrent
// use; every call works on its own tree values.
package engine

import (
	"log/slog"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/executor"
	"github.com/aledsdavies/mathstep/runtime/matcher"
	"github.com/aledsdavies/mathstep/runtime/parser"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

// Engine provides the library call surface of the step engine
type Engine struct {
	reg     *registry.Registry
	matcher *matcher.Matcher
	runner  *executor.Runner
	logger  *slog.Logger

	precision int
	debug     executor.DebugLevel
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for resolution and dispatch records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPrecision bounds the digits searched by decimal division.
func WithPrecision(digits int) Option {
	return func(e *Engine) { e.precision = digits }
}

// WithDebug records executor debug events on every run.
func WithDebug(level executor.DebugLevel) Option {
	return func(e *Engine) { e.debug = level }
}

// New creates an engine over reg.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		reg:    reg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	m, err := matcher.New(reg, matcher.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.matcher = m
	e.runner = executor.New(executor.Config{
		Precision: e.precision,
		Debug:     e.debug,
		Logger:    e.logger,
	})
	return e, nil
}

// NewDefault creates an engine over the embedded catalog.
func NewDefault(opts ...Option) (*Engine, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return New(reg, opts...)
}

// Registry returns the catalog in use.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Precision returns the decimal division precision in effect.
func (e *Engine) Precision() int { return e.runner.Precision() }

// Parse parses learner input.
func (e *Engine) Parse(text string) (expr.Node, error) {
	return parser.Parse(text)
}

// Print renders a tree.
func (e *Engine) Print(tree expr.Node) string {
	return expr.Print(tree)
}

// ResolveContext builds the context for a click on tree.
func (e *Engine) ResolveContext(tree expr.Node, click resolver.ClickTarget) resolver.NodeContext {
	return resolver.Resolve(tree, click)
}

// Match lists the rows applicable to ctx, most specific first.
func (e *Engine) Match(ctx resolver.NodeContext) []matcher.Match {
	return e.matcher.Match(ctx)
}

// Select classifies matches; preferred may be empty.
func (e *Engine) Select(matches []matcher.Match, preferred registry.PrimitiveID) matcher.Outcome {
	return matcher.Select(matches, preferred)
}

// Run executes a primitive directly.
func (e *Engine) Run(tree expr.Node, id registry.PrimitiveID, addr expr.Address, opts ...executor.RunOpt) (*executor.Result, error) {
	return e.runner.Run(tree, id, addr, opts...)
}

// Apply runs a chosen match against the tree its context was resolved from.
// Declarative rows run from their result template and bindings.
func (e *Engine) Apply(tree expr.Node, m matcher.Match) (*executor.Result, error) {
	if expr.FingerprintOf(tree) != m.Context.Fingerprint {
		return nil, steperr.New(steperr.CodeAddressNotFound, "match was resolved against a different tree").
			WithContext("address", m.Address.String())
	}

	var opts []executor.RunOpt
	if m.Rule.Result != "" {
		opts = append(opts,
			executor.WithBindings(m.Bindings),
			executor.WithResultPattern(m.Rule.Result))
	}
	return e.runner.Run(tree, m.Rule.Primitive, m.Address, opts...)
}

// Step runs the whole pipeline for one click. Parse and address failures
// and executor failures are returned as errors. Finding nothing to do,
// offering a choice, and reporting a diagnostic are results.
func (e *Engine) Step(text string, click resolver.ClickTarget, preferred registry.PrimitiveID) (*StepResult, error) {
	tree, err := e.Parse(text)
	if err != nil {
		return nil, err
	}

	ctx := e.ResolveContext(tree, click)
	if !ctx.Resolved {
		return nil, steperr.NewAddressNotFound(click.Address.String())
	}

	out := e.Select(e.Match(ctx), preferred)
	before := expr.Print(tree)
	res := &StepResult{
		Before:  before,
		After:   before,
		Tree:    tree,
		Context: ctx,
		Outcome: out,
	}
	e.logger.Debug("step resolved",
		"input", before,
		"address", ctx.Address.String(),
		"outcome", out.Kind.String(),
		"primitive", string(out.Primitive))

	switch out.Kind {
	case matcher.NoCandidates, matcher.Choice:
		return res, nil

	case matcher.Diagnostic:
		res.Rule = &out.Chosen.Rule
		_, res.Diagnostic = e.Apply(tree, *out.Chosen)
		return res, nil
	}

	run, err := e.Apply(tree, *out.Chosen)
	if err != nil {
		return res, err
	}
	res.Rule = &out.Chosen.Rule
	res.Applied = true
	res.Tree = run.Tree
	res.After = expr.Print(run.Tree)
	return res, nil
}
