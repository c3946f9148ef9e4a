// Package executor runs catalog primitives: given a tree, a primitive id and
// the address it acts on, it produces the rewritten tree or a typed failure.
//
// A primitive runs in one of two modes. Declarative rows that carry a result
// template run in pattern mode: the template is instantiated from the match
// bindings and spliced in at the address. Every other primitive, and every
// primitive that needs exact arithmetic, runs its fixed executor.
//
// Executors never mutate their input; the result shares every subtree off
// the rewritten path with the input tree.
package executor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/invariant"
	"github.com/aledsdavies/mathstep/core/numeric"
	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/pattern"
)

// Config configures the runner
type Config struct {
	// Precision bounds the extra digits searched by decimal division.
	// Zero or less selects numeric.DefaultPrecision.
	Precision int
	Debug     DebugLevel   // Debug tracing (development only)
	Logger    *slog.Logger // nil discards
}

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Dispatch tracing
	DebugDetailed                   // Before and after text
)

// Mode says how a primitive was executed.
type Mode int

const (
	ModeFixed Mode = iota
	ModePattern
)

func (m Mode) String() string {
	if m == ModePattern {
		return "pattern"
	}
	return "fixed"
}

// Result holds the outcome of one run
type Result struct {
	Tree        expr.Node // the rewritten tree
	Replacement expr.Node // the subtree placed at Address
	Primitive   registry.PrimitiveID
	Address     expr.Address
	Mode        Mode
	DebugEvents []DebugEvent // nil if DebugOff
}

// DebugEvent represents a debug trace event
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_run", "dispatch", "rewrite"
	Context   string
}

// RunOpt supplies the optional inputs of a run.
type RunOpt func(*request)

type request struct {
	bindings pattern.Bindings
	result   string
}

// WithBindings passes the variables bound by a declarative pattern.
func WithBindings(b pattern.Bindings) RunOpt {
	return func(r *request) { r.bindings = b }
}

// WithResultPattern passes a declarative row's result template.
func WithResultPattern(text string) RunOpt {
	return func(r *request) { r.result = text }
}

// Runner executes primitives. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	config Config
	logger *slog.Logger
}

// New creates a runner.
func New(config Config) *Runner {
	if config.Precision <= 0 {
		config.Precision = numeric.DefaultPrecision
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{config: config, logger: logger}
}

// Precision returns the decimal division precision in effect.
func (r *Runner) Precision() int {
	return r.config.Precision
}

// run carries one execution's inputs to an executor.
type run struct {
	tree      expr.Node
	addr      expr.Address
	node      expr.Node
	precision int
}

type executorFunc func(rc *run) (expr.Node, error)

// Run executes primitive id at addr in tree.
func (r *Runner) Run(tree expr.Node, id registry.PrimitiveID, addr expr.Address, opts ...RunOpt) (*Result, error) {
	invariant.NotNil(tree, "tree")

	var req request
	for _, opt := range opts {
		opt(&req)
	}

	res := &Result{Primitive: id, Address: addr}
	r.record(res, DebugPaths, "enter_run", fmt.Sprintf("primitive=%s address=%q", id, addr))

	exec, ok := executors[id]
	if !ok {
		return nil, steperr.NewUnknownPrimitive(string(id), registry.SuggestPrimitive(string(id)))
	}

	node, ok := expr.Read(tree, addr)
	if !ok {
		return nil, steperr.NewAddressNotFound(addr.String())
	}

	var repl expr.Node
	var err error
	if req.result != "" && !id.NeedsExactArithmetic() {
		res.Mode = ModePattern
		if req.bindings == nil {
			return nil, steperr.NewGuardMismatch("bindings", "a result template needs pattern bindings")
		}
		repl, err = pattern.Instantiate(req.result, req.bindings)
	} else {
		repl, err = exec(&run{tree: tree, addr: addr, node: node, precision: r.config.Precision})
	}
	r.record(res, DebugPaths, "dispatch", "mode="+res.Mode.String())
	if err != nil {
		r.logger.Debug("primitive failed", "primitive", string(id), "address", addr.String(), "error", err)
		return nil, err
	}

	// A primitive that changes nothing hands back the input tree itself.
	if repl == node {
		res.Tree, res.Replacement = tree, node
		return res, nil
	}

	out, err := expr.Replace(tree, addr, repl)
	if err != nil {
		return nil, err
	}
	res.Tree, res.Replacement = out, repl
	r.record(res, DebugDetailed, "rewrite", expr.Print(tree)+" => "+expr.Print(out))
	r.logger.Debug("primitive applied",
		"primitive", string(id),
		"address", addr.String(),
		"mode", res.Mode.String(),
		"result", expr.Print(out))
	return res, nil
}

// Supports reports whether id has a fixed executor.
func Supports(id registry.PrimitiveID) bool {
	_, ok := executors[id]
	return ok
}

func (r *Runner) record(res *Result, level DebugLevel, event, context string) {
	if r.config.Debug < level {
		return
	}
	res.DebugEvents = append(res.DebugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Context:   context,
	})
}
