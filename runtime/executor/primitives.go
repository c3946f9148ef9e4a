package executor

import (
	"fmt"
	"math/big"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/resolver"
)

var executors = map[registry.PrimitiveID]executorFunc{
	registry.PrimIntAdd:             intArith(expr.OpAdd),
	registry.PrimIntSub:             intArith(expr.OpSub),
	registry.PrimIntMul:             intArith(expr.OpMul),
	registry.PrimIntDivExact:        intDivExact,
	registry.PrimIntDivToFraction:   intDivToFraction,
	registry.PrimDivByZero:          divByZero,
	registry.PrimDecAdd:             decArith(expr.OpAdd),
	registry.PrimDecSub:             decArith(expr.OpSub),
	registry.PrimDecMul:             decArith(expr.OpMul),
	registry.PrimDecDiv:             decArith(expr.OpDiv),
	registry.PrimDecimalToFraction:  decimalToFraction,
	registry.PrimIntToFraction:      intToFraction,
	registry.PrimFractionToInt:      fractionToInt,
	registry.PrimMixedToFraction:    mixedToFraction,
	registry.PrimOneToNeighborDen:   oneToNeighborDen,
	registry.PrimOneToOppositeDen:   oneToOppositeDen,
	registry.PrimFracAddSameDen:     fracSameDen(expr.OpAdd),
	registry.PrimFracSubSameDen:     fracSameDen(expr.OpSub),
	registry.PrimFracMul:            fracMul,
	registry.PrimFracDivAsMul:       fracDivAsMul,
	registry.PrimNestedFracDiv:      fracDivAsMul,
	registry.PrimFracLCDScale:       fracLCDScale,
	registry.PrimDoubleNegative:     doubleNegative,
	registry.PrimDistributeNegative: distributeNegative,
	registry.PrimBracketsRemove:     bracketsRemove,
	registry.PrimMulByOne:           identity(expr.OpMul, "right-is-one"),
	registry.PrimAddZero:            identity(expr.OpAdd, "right-is-zero"),
	registry.PrimSubSelf:            subSelf,
}

// binary returns the target as a binary node with operator op.
func (rc *run) binary(op expr.Op, guard string) (*expr.Binary, error) {
	b, ok := rc.node.(*expr.Binary)
	if !ok || b.Op != op {
		return nil, steperr.NewGuardMismatch(guard, fmt.Sprintf("expected %s operation, found %s", op, describe(rc.node)))
	}
	return b, nil
}

// arithmetic returns the binary target of an arithmetic primitive with
// any operator in ops.
func (rc *run) arithmetic(guard string, ops ...expr.Op) (*expr.Binary, error) {
	b, ok := rc.node.(*expr.Binary)
	if ok {
		for _, op := range ops {
			if b.Op == op {
				return b, nil
			}
		}
	}
	return nil, steperr.NewGuardMismatch(guard, "expected an arithmetic operation, found "+describe(rc.node))
}

func describe(n expr.Node) string {
	return fmt.Sprintf("%s %q", n.Kind(), expr.Print(n))
}

// numbers reads both operands as decimal literals. integral additionally
// rejects operands with a fractional part.
func numbers(b *expr.Binary, integral bool) (numeric.Decimal, numeric.Decimal, error) {
	guard := "operands-numeric"
	if integral {
		guard = "operands-integer"
	}
	ln, lok := b.Left.(*expr.Number)
	rn, rok := b.Right.(*expr.Number)
	if !lok || !rok || (integral && (ln.IsDecimal() || rn.IsDecimal())) {
		return numeric.Decimal{}, numeric.Decimal{}, steperr.NewGuardMismatch(guard, "operands of "+expr.Print(b))
	}
	l, err := numeric.ParseDecimal(ln.Value)
	if err != nil {
		return numeric.Decimal{}, numeric.Decimal{}, steperr.NewGuardMismatch(guard, err.Error())
	}
	r, err := numeric.ParseDecimal(rn.Value)
	if err != nil {
		return numeric.Decimal{}, numeric.Decimal{}, steperr.NewGuardMismatch(guard, err.Error())
	}
	return l, r, nil
}

func combine(op expr.Op, l, r numeric.Decimal, precision int) (numeric.Decimal, error) {
	switch op {
	case expr.OpAdd:
		return l.Add(r), nil
	case expr.OpSub:
		return l.Sub(r), nil
	case expr.OpMul:
		return l.Mul(r), nil
	}
	return l.Div(r, precision)
}

func intArith(op expr.Op) executorFunc {
	return func(rc *run) (expr.Node, error) {
		b, err := rc.binary(op, "operator")
		if err != nil {
			return nil, err
		}
		l, r, err := numbers(b, true)
		if err != nil {
			return nil, err
		}
		v, _ := combine(op, l, r, rc.precision)
		return expr.NewNumber(v.String()), nil
	}
}

func decArith(op expr.Op) executorFunc {
	return func(rc *run) (expr.Node, error) {
		b, err := rc.binary(op, "operator")
		if err != nil {
			return nil, err
		}
		l, r, err := numbers(b, false)
		if err != nil {
			return nil, err
		}
		v, err := combine(op, l, r, rc.precision)
		if err != nil {
			return nil, err
		}
		return expr.NewNumber(v.String()), nil
	}
}

func intDivExact(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpDiv, "operator")
	if err != nil {
		return nil, err
	}
	l, r, err := numbers(b, true)
	if err != nil {
		return nil, err
	}
	q, rem, err := l.QuoRem(r)
	if err != nil {
		return nil, err
	}
	if rem.Sign() != 0 {
		return nil, steperr.NewGuardMismatch("remainder-zero", fmt.Sprintf("%s leaves remainder %s", expr.Print(b), rem))
	}
	return expr.NewNumber(q.String()), nil
}

// intDivToFraction writes a/b as the fraction a/b, unreduced. A negative
// divisor moves its sign to the numerator.
func intDivToFraction(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpDiv, "operator")
	if err != nil {
		return nil, err
	}
	l, r, err := numbers(b, true)
	if err != nil {
		return nil, err
	}
	_, rem, err := l.QuoRem(r)
	if err != nil {
		return nil, err
	}
	if rem.Sign() == 0 {
		return nil, steperr.NewGuardMismatch("remainder-nonzero", expr.Print(b)+" divides exactly")
	}
	num, den := numeric.NewFraction(l.Integer(), r.Integer()).Canonical().Parts()
	return expr.NewFraction(num, den), nil
}

// divByZero never produces a tree; it reports why the target is undefined.
func divByZero(rc *run) (expr.Node, error) {
	switch v := rc.node.(type) {
	case *expr.Binary:
		for _, side := range []expr.Node{v.Left, v.Right} {
			if f, ok := side.(*expr.Fraction); ok && expr.IsZeroText(f.Den) {
				return nil, steperr.NewDivisionByZero(f.Num)
			}
			if m, ok := side.(*expr.Mixed); ok && expr.IsZeroText(m.Den) {
				return nil, steperr.NewDivisionByZero(m.Num)
			}
		}
		return nil, steperr.NewDivisionByZero(expr.Print(v.Left))
	case *expr.Fraction:
		return nil, steperr.NewDivisionByZero(v.Num)
	case *expr.Mixed:
		return nil, steperr.NewDivisionByZero(v.Num)
	}
	return nil, steperr.NewDivisionByZero(expr.Print(rc.node))
}

func decimalToFraction(rc *run) (expr.Node, error) {
	n, ok := rc.node.(*expr.Number)
	if !ok || !n.IsDecimal() {
		return nil, steperr.NewGuardMismatch("clicked-decimal", "expected a decimal, found "+describe(rc.node))
	}
	d, err := numeric.ParseDecimal(n.Value)
	if err != nil {
		return nil, steperr.NewGuardMismatch("clicked-decimal", err.Error())
	}
	num, den := d.ToFraction().Parts()
	return expr.NewFraction(num, den), nil
}

func intToFraction(rc *run) (expr.Node, error) {
	n, ok := rc.node.(*expr.Number)
	if !ok || n.IsDecimal() {
		return nil, steperr.NewGuardMismatch("clicked-integer", "expected an integer, found "+describe(rc.node))
	}
	return expr.NewFraction(n.Value, "1"), nil
}

func fractionToInt(rc *run) (expr.Node, error) {
	f, ok := rc.node.(*expr.Fraction)
	if !ok || f.Den != "1" {
		return nil, steperr.NewGuardMismatch("clicked-denominator-one", "expected a fraction over 1, found "+describe(rc.node))
	}
	return expr.NewNumber(f.Num), nil
}

func mixedToFraction(rc *run) (expr.Node, error) {
	m, ok := rc.node.(*expr.Mixed)
	if !ok {
		return nil, steperr.NewGuardMismatch("clicked-mixed", "expected a mixed number, found "+describe(rc.node))
	}
	f, err := numeric.MixedToImproper(m.Whole, m.Num, m.Den)
	if err != nil {
		return nil, steperr.NewGuardMismatch("clicked-mixed", err.Error())
	}
	num, den := f.Parts()
	return expr.NewFraction(num, den), nil
}

func (rc *run) one(guard string) error {
	n, ok := rc.node.(*expr.Number)
	if ok {
		if d, err := numeric.ParseDecimal(n.Value); err == nil && d.String() == "1" {
			return nil
		}
	}
	return steperr.NewGuardMismatch(guard, "expected 1, found "+describe(rc.node))
}

func oneToNeighborDen(rc *run) (expr.Node, error) {
	if err := rc.one("clicked-one"); err != nil {
		return nil, err
	}
	den, ok := resolver.NeighborDenominator(rc.tree, rc.addr)
	if !ok {
		return nil, steperr.NewGuardMismatch("sibling-fraction", "no fraction beside "+rc.addr.String())
	}
	return expr.NewFraction(den, den), nil
}

// oneToOppositeDen turns the 1 in a/b × 1 into d/d, where d is the
// denominator found on the other side of the enclosing sum.
func oneToOppositeDen(rc *run) (expr.Node, error) {
	if err := rc.one("clicked-one"); err != nil {
		return nil, err
	}
	den, ok := resolver.OppositeDenominator(rc.tree, rc.addr)
	if !ok {
		return nil, steperr.NewGuardMismatch("opposite-addend-denominator", "no opposite addend with a fraction")
	}
	return expr.NewFraction(den, den), nil
}

// fractions reads both operands of b as fraction literals.
func fractions(b *expr.Binary) (numeric.Fraction, numeric.Fraction, error) {
	lf, lok := b.Left.(*expr.Fraction)
	rf, rok := b.Right.(*expr.Fraction)
	if !lok || !rok {
		return numeric.Fraction{}, numeric.Fraction{}, steperr.NewGuardMismatch("both-fractions", "operands of "+expr.Print(b))
	}
	l, err := numeric.ParseFraction(lf.Num, lf.Den)
	if err != nil {
		return numeric.Fraction{}, numeric.Fraction{}, steperr.NewGuardMismatch("both-fractions", err.Error())
	}
	r, err := numeric.ParseFraction(rf.Num, rf.Den)
	if err != nil {
		return numeric.Fraction{}, numeric.Fraction{}, steperr.NewGuardMismatch("both-fractions", err.Error())
	}
	return l, r, nil
}

func fracSameDen(op expr.Op) executorFunc {
	return func(rc *run) (expr.Node, error) {
		b, err := rc.binary(op, "operator")
		if err != nil {
			return nil, err
		}
		l, r, err := fractions(b)
		if err != nil {
			return nil, err
		}
		if b.Left.(*expr.Fraction).Den != b.Right.(*expr.Fraction).Den {
			return nil, steperr.NewGuardMismatch("denominators-equal", expr.Print(b))
		}
		num := new(big.Int)
		if op == expr.OpAdd {
			num.Add(l.Num, r.Num)
		} else {
			num.Sub(l.Num, r.Num)
		}
		return expr.NewFraction(num.String(), b.Left.(*expr.Fraction).Den), nil
	}
}

func fracMul(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpMul, "operator")
	if err != nil {
		return nil, err
	}
	l, r, err := fractions(b)
	if err != nil {
		return nil, err
	}
	num, den := l.Mul(r).Canonical().Parts()
	return expr.NewFraction(num, den), nil
}

// fracDivAsMul rewrites a/b ÷ c/d as a/b × d/c without simplifying.
func fracDivAsMul(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpDiv, "operator")
	if err != nil {
		return nil, err
	}
	_, r, err := fractions(b)
	if err != nil {
		return nil, err
	}
	if r.IsZero() {
		return nil, steperr.NewDivisionByZero(expr.Print(b.Left))
	}
	inv, err := r.Reciprocal()
	if err != nil {
		return nil, err
	}
	num, den := inv.Parts()
	return expr.NewBinary(expr.OpMul, b.Left, expr.NewFraction(num, den)), nil
}

// fracLCDScale rewrites both fractions of a sum or difference over the least
// common multiple of their denominators.
func fracLCDScale(rc *run) (expr.Node, error) {
	b, err := rc.arithmetic("operator", expr.OpAdd, expr.OpSub)
	if err != nil {
		return nil, err
	}
	l, r, err := fractions(b)
	if err != nil {
		return nil, err
	}
	if l.Den.Sign() == 0 || r.Den.Sign() == 0 {
		return nil, steperr.NewDivisionByZero(expr.Print(b))
	}
	if l.Den.Cmp(r.Den) == 0 {
		return nil, steperr.NewGuardMismatch("denominators-different", expr.Print(b))
	}
	lcd := numeric.LCM(l.Den, r.Den)
	scale := func(f numeric.Fraction) expr.Node {
		factor := new(big.Int).Quo(lcd, new(big.Int).Abs(f.Den))
		num, den := f.Canonical().Scale(factor).Parts()
		return expr.NewFraction(num, den)
	}
	return expr.NewBinary(b.Op, scale(l), scale(r)), nil
}

// doubleNegative rewrites a - (-b) as a + b.
func doubleNegative(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpSub, "operator")
	if err != nil {
		return nil, err
	}
	if !expr.IsNegativeLiteral(b.Right) {
		return nil, steperr.NewGuardMismatch("right-negative", expr.Print(b))
	}
	pos, _ := expr.Negate(b.Right)
	return expr.NewBinary(expr.OpAdd, b.Left, pos), nil
}

// distributeNegative rewrites a - (b + c) as a - b - c and a - (b - c) as
// a - b + c.
func distributeNegative(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpSub, "operator")
	if err != nil {
		return nil, err
	}
	inner, ok := b.Right.(*expr.Binary)
	if !ok || (inner.Op != expr.OpAdd && inner.Op != expr.OpSub) {
		return nil, steperr.NewGuardMismatch("right-is-sum", expr.Print(b))
	}
	op := expr.OpSub
	if inner.Op == expr.OpSub {
		op = expr.OpAdd
	}
	return expr.NewBinary(op, expr.NewBinary(expr.OpSub, b.Left, inner.Left), inner.Right), nil
}

// bracketsRemove changes nothing: brackets exist only in printed text.
func bracketsRemove(rc *run) (expr.Node, error) {
	return rc.node, nil
}

// identity drops the right operand of a*1 or a+0.
func identity(op expr.Op, guard string) executorFunc {
	return func(rc *run) (expr.Node, error) {
		b, err := rc.binary(op, "operator")
		if err != nil {
			return nil, err
		}
		n, ok := b.Right.(*expr.Number)
		if !ok {
			return nil, steperr.NewGuardMismatch(guard, expr.Print(b))
		}
		d, err := numeric.ParseDecimal(n.Value)
		if err != nil {
			return nil, steperr.NewGuardMismatch(guard, err.Error())
		}
		neutral := "0"
		if op == expr.OpMul {
			neutral = "1"
		}
		if d.String() != neutral {
			return nil, steperr.NewGuardMismatch(guard, expr.Print(b))
		}
		return b.Left, nil
	}
}

func subSelf(rc *run) (expr.Node, error) {
	b, err := rc.binary(expr.OpSub, "operator")
	if err != nil {
		return nil, err
	}
	if !expr.Equal(b.Left, b.Right) {
		return nil, steperr.NewGuardMismatch("operands-equal", expr.Print(b))
	}
	return expr.NewNumber("0"), nil
}
