// Package pattern implements declarative rule rows. A pattern such as
// "a/c + b/c" is parsed into a tree whose variables are free, matched
// structurally against a subtree to produce bindings, and a result template
// such as "calc(a + b)/c" is instantiated from those bindings.
//
// Matching treats a fraction literal and the division of its two parts as the
// same shape, so the pattern "a/c" matches the literal 3/7 with a=3 and c=7.
package pattern

import (
	"fmt"
	"sort"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	"github.com/aledsdavies/mathstep/core/registry"
	"github.com/aledsdavies/mathstep/runtime/parser"
)

// Bindings maps pattern variable names to the subtrees they matched.
type Bindings map[string]expr.Node

// Names returns the bound variable names, sorted.
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Strings renders each binding with the printer.
func (b Bindings) Strings() map[string]string {
	out := make(map[string]string, len(b))
	for n, v := range b {
		out[n] = expr.Print(v)
	}
	return out
}

// Pattern is a compiled left-hand side. It is immutable and safe to share.
type Pattern struct {
	text string
	tree expr.Node
	vars map[string]registry.VarType
}

// Compile parses text as a pattern. vars constrains what each variable may
// bind to; an undeclared variable binds to anything.
func Compile(text string, vars map[string]registry.VarType) (*Pattern, error) {
	tree, err := parser.Parse(text, parser.WithVariables())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", text, err)
	}
	for name := range vars {
		if !mentions(tree, name) {
			return nil, fmt.Errorf("pattern %q: declared variable %s does not appear", text, name)
		}
	}
	return &Pattern{text: text, tree: tree, vars: vars}, nil
}

// MustCompile is Compile for patterns known to be valid.
func MustCompile(text string, vars map[string]registry.VarType) *Pattern {
	p, err := Compile(text, vars)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) String() string { return p.text }

// Tree returns the parsed pattern.
func (p *Pattern) Tree() expr.Node { return p.tree }

// Match reports whether target has the pattern's shape and returns the
// bindings when it does.
func (p *Pattern) Match(target expr.Node) (Bindings, bool) {
	if target == nil {
		return nil, false
	}
	b := Bindings{}
	if !p.match(p.tree, target, b) {
		return nil, false
	}
	return b, true
}

func (p *Pattern) match(pat, target expr.Node, b Bindings) bool {
	switch v := pat.(type) {
	case *expr.Variable:
		if !accepts(p.vars[v.Name], target) {
			return false
		}
		if prev, ok := b[v.Name]; ok {
			return ValueEqual(prev, target)
		}
		b[v.Name] = target
		return true

	case *expr.Number:
		t, ok := target.(*expr.Number)
		return ok && sameNumber(v.Value, t.Value)

	case *expr.Binary:
		t := expr.AsBinary(target)
		if t == nil || t.Op != v.Op {
			return false
		}
		return p.match(v.Left, t.Left, b) && p.match(v.Right, t.Right, b)
	}
	return ValueEqual(pat, target)
}

// accepts applies a variable's type constraint. An integer variable also
// takes a fraction whose denominator is literally 1.
func accepts(t registry.VarType, n expr.Node) bool {
	switch t {
	case registry.VarInteger:
		switch v := n.(type) {
		case *expr.Number:
			return !v.IsDecimal()
		case *expr.Fraction:
			return v.Den == "1"
		}
		return false
	case registry.VarFraction:
		_, ok := n.(*expr.Fraction)
		return ok
	case registry.VarDecimal:
		v, ok := n.(*expr.Number)
		return ok && v.IsDecimal()
	}
	return true
}

// ValueEqual is the equality used for repeated variables and conditions:
// structural, with fraction literals and their division form interchangeable.
func ValueEqual(a, b expr.Node) bool {
	return expr.EqualValueForm(a, b)
}

func sameNumber(a, b string) bool {
	if a == b {
		return true
	}
	x, err := numeric.ParseDecimal(a)
	if err != nil {
		return false
	}
	y, err := numeric.ParseDecimal(b)
	if err != nil {
		return false
	}
	return x.Sub(y).IsZero()
}

func mentions(tree expr.Node, name string) bool {
	found := false
	expr.Walk(tree, func(n expr.Node, _ expr.Address) bool {
		if v, ok := n.(*expr.Variable); ok && v.Name == name {
			found = true
		}
		return !found
	})
	return found
}
