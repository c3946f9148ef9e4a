package pattern

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/parser"
)

const calcPrefix = "calc("

// Template is a compiled result template. calc(...) terms are evaluated
// against the bindings first; the remaining text is parsed as a tree whose
// variables are replaced by their bound subtrees.
type Template struct {
	text string
}

// CompileTemplate checks that text is a well-formed template.
func CompileTemplate(text string) (*Template, error) {
	probe, err := expandCalc(text, func(body string) (string, error) {
		if err := checkCalc(body); err != nil {
			return "", err
		}
		return "0", nil
	})
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", text, err)
	}
	if _, err := parser.Parse(probe, parser.WithVariables()); err != nil {
		return nil, fmt.Errorf("template %q: %w", text, err)
	}
	return &Template{text: text}, nil
}

func (t *Template) String() string { return t.text }

// Instantiate builds the replacement subtree for b.
func (t *Template) Instantiate(b Bindings) (expr.Node, error) {
	return Instantiate(t.text, b)
}

// Instantiate evaluates a result template against bindings. A division of
// two integer literals produced by the template becomes a fraction literal,
// so "calc(a + b)/c" yields 4/7 rather than a division node.
func Instantiate(text string, b Bindings) (expr.Node, error) {
	expanded, err := expandCalc(text, func(body string) (string, error) {
		v, err := Calc(body, b)
		if err != nil {
			return "", err
		}
		if v.Sign() < 0 {
			return "(" + v.String() + ")", nil
		}
		return v.String(), nil
	})
	if err != nil {
		return nil, err
	}

	tree, err := parser.Parse(expanded, parser.WithVariables())
	if err != nil {
		return nil, steperr.NewInvalidCatalog(fmt.Sprintf("result template %q", text), err)
	}
	return substitute(tree, b)
}

// expandCalc replaces every calc(...) term in text with eval's output.
func expandCalc(text string, eval func(body string) (string, error)) (string, error) {
	var out strings.Builder
	rest := text
	for {
		i := indexCalc(rest)
		if i < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:i])
		open := i + len(calcPrefix)
		end, ok := closingParen(rest, open)
		if !ok {
			return "", fmt.Errorf("unbalanced calc( in %q", text)
		}
		v, err := eval(rest[open:end])
		if err != nil {
			return "", err
		}
		out.WriteString(v)
		rest = rest[end+1:]
	}
}

// indexCalc finds "calc(" not preceded by a name character.
func indexCalc(s string) int {
	from := 0
	for {
		i := strings.Index(s[from:], calcPrefix)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || !isNameByte(s[i-1]) {
			return i
		}
		from = i + len(calcPrefix)
	}
}

// closingParen returns the index of the ')' balancing an opening paren that
// sits just before start.
func closingParen(s string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func substitute(n expr.Node, b Bindings) (expr.Node, error) {
	switch v := n.(type) {
	case *expr.Variable:
		bound, ok := b[v.Name]
		if !ok {
			return nil, steperr.NewGuardMismatch("bindings", fmt.Sprintf("template variable %s is unbound", v.Name))
		}
		return bound, nil
	case *expr.Binary:
		l, err := substitute(v.Left, b)
		if err != nil {
			return nil, err
		}
		r, err := substitute(v.Right, b)
		if err != nil {
			return nil, err
		}
		if f, ok := fractionLiteral(v.Op, l, r); ok {
			return f, nil
		}
		return expr.NewBinary(v.Op, l, r), nil
	}
	return n, nil
}

func fractionLiteral(op expr.Op, l, r expr.Node) (*expr.Fraction, bool) {
	if op != expr.OpDiv {
		return nil, false
	}
	ln, ok := l.(*expr.Number)
	if !ok || !numeric.IsIntegerText(ln.Value) {
		return nil, false
	}
	rn, ok := r.(*expr.Number)
	if !ok || !numeric.IsIntegerText(rn.Value) || rn.IsNegative() {
		return nil, false
	}
	return expr.NewFraction(ln.Value, rn.Value), true
}
