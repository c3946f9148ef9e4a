package pattern

import (
	"fmt"
	"math/big"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

// Calc evaluates the body of a calc(...) term: integer literals, bound
// variable names, + - * / and parentheses. Division must be exact. Nothing
// else is accepted.
func Calc(text string, b Bindings) (*big.Int, error) {
	e := &calcEval{src: text, vars: b}
	return e.run()
}

// checkCalc validates calc syntax without binding values.
func checkCalc(text string) error {
	e := &calcEval{src: text, dry: true}
	_, err := e.run()
	return err
}

type calcEval struct {
	src  string
	pos  int
	vars Bindings
	dry  bool // syntax check only: names read as 1, division is not checked
}

func (e *calcEval) run() (*big.Int, error) {
	v, err := e.sum()
	if err != nil {
		return nil, err
	}
	e.skipSpace()
	if e.pos < len(e.src) {
		return nil, e.syntax("unexpected %q", e.src[e.pos])
	}
	return v, nil
}

func (e *calcEval) sum() (*big.Int, error) {
	left, err := e.product()
	if err != nil {
		return nil, err
	}
	for {
		e.skipSpace()
		if e.pos >= len(e.src) || (e.src[e.pos] != '+' && e.src[e.pos] != '-') {
			return left, nil
		}
		op := e.src[e.pos]
		e.pos++
		right, err := e.product()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			left = new(big.Int).Add(left, right)
		} else {
			left = new(big.Int).Sub(left, right)
		}
	}
}

func (e *calcEval) product() (*big.Int, error) {
	left, err := e.factor()
	if err != nil {
		return nil, err
	}
	for {
		e.skipSpace()
		if e.pos >= len(e.src) || (e.src[e.pos] != '*' && e.src[e.pos] != '/') {
			return left, nil
		}
		op := e.src[e.pos]
		e.pos++
		right, err := e.factor()
		if err != nil {
			return nil, err
		}
		if op == '*' {
			left = new(big.Int).Mul(left, right)
			continue
		}
		if e.dry {
			continue
		}
		if right.Sign() == 0 {
			return nil, steperr.NewDivisionByZero(left.String())
		}
		q, r := new(big.Int).QuoRem(left, right, new(big.Int))
		if r.Sign() != 0 {
			return nil, steperr.NewGuardMismatch("exact-division",
				fmt.Sprintf("calc(%s): %s is not divisible by %s", e.src, left, right))
		}
		left = q
	}
}

func (e *calcEval) factor() (*big.Int, error) {
	e.skipSpace()
	if e.pos >= len(e.src) {
		return nil, e.syntax("unexpected end")
	}
	c := e.src[e.pos]
	switch {
	case c == '-':
		e.pos++
		v, err := e.factor()
		if err != nil {
			return nil, err
		}
		return new(big.Int).Neg(v), nil

	case c == '(':
		e.pos++
		v, err := e.sum()
		if err != nil {
			return nil, err
		}
		e.skipSpace()
		if e.pos >= len(e.src) || e.src[e.pos] != ')' {
			return nil, e.syntax("missing ')'")
		}
		e.pos++
		return v, nil

	case c >= '0' && c <= '9':
		start := e.pos
		for e.pos < len(e.src) && e.src[e.pos] >= '0' && e.src[e.pos] <= '9' {
			e.pos++
		}
		v, _ := new(big.Int).SetString(e.src[start:e.pos], 10)
		return v, nil

	case isNameByte(c):
		start := e.pos
		for e.pos < len(e.src) && (isNameByte(e.src[e.pos]) || (e.src[e.pos] >= '0' && e.src[e.pos] <= '9')) {
			e.pos++
		}
		return e.lookup(e.src[start:e.pos])
	}
	return nil, e.syntax("unexpected %q", c)
}

func (e *calcEval) lookup(name string) (*big.Int, error) {
	if e.dry {
		return big.NewInt(1), nil
	}
	n, ok := e.vars[name]
	if !ok {
		return nil, steperr.NewGuardMismatch("bindings", fmt.Sprintf("calc(%s): %s is unbound", e.src, name))
	}
	v, ok := integerValue(n)
	if !ok {
		return nil, steperr.NewGuardMismatch("integer-binding",
			fmt.Sprintf("calc(%s): %s is bound to %s, not an integer", e.src, name, expr.Print(n)))
	}
	return v, nil
}

// integerValue reads an integer literal, or a fraction over 1.
func integerValue(n expr.Node) (*big.Int, bool) {
	switch v := n.(type) {
	case *expr.Number:
		return numeric.ParseInteger(v.Value)
	case *expr.Fraction:
		if v.Den == "1" {
			return numeric.ParseInteger(v.Num)
		}
	}
	return nil, false
}

func (e *calcEval) skipSpace() {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t') {
		e.pos++
	}
}

func (e *calcEval) syntax(format string, args ...any) error {
	return fmt.Errorf("calc(%s): %s at offset %d", e.src, fmt.Sprintf(format, args...), e.pos)
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
