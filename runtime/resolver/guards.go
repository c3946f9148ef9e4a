package resolver

import (
	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	"github.com/aledsdavies/mathstep/core/registry"
)

// computeGuards evaluates every guard for a resolved context. Guards read the
// action node's operands, the clicked node and its surroundings.
func computeGuards(tree expr.Node, ctx *NodeContext, click ClickTarget) registry.GuardSet {
	var gs registry.GuardSet

	// Only the caller knows where brackets were drawn.
	gs.Set(registry.GuardInsideBrackets, click.InsideBrackets)

	if b, ok := ctx.ActionNode.(*expr.Binary); ok {
		operandGuards(&gs, b)
	}
	clickedGuards(&gs, ctx.ClickedNode)

	if ctx.HasParent() {
		parent := ctx.ParentNode.(*expr.Binary)
		sibling := parent.Right
		if ctx.Address.Last() == 1 {
			sibling = parent.Left
		}
		_, sibFrac := sibling.(*expr.Fraction)
		gs.Set(registry.GuardSiblingFraction, sibFrac)

		if b, ok := ctx.ClickedNode.(*expr.Binary); ok && (b.Op == expr.OpAdd || b.Op == expr.OpSub) {
			gs.Set(registry.GuardParentMinusRight, parent.Op == expr.OpSub && ctx.Address.Last() == 1)
		}

		_, found := OppositeDenominator(tree, ctx.Address)
		gs.Set(registry.GuardOppositeAddendDenominator, found)
	}
	return gs
}

func operandGuards(gs *registry.GuardSet, b *expr.Binary) {
	l, r := b.Left, b.Right
	lf, lIsFrac := l.(*expr.Fraction)
	rf, rIsFrac := r.(*expr.Fraction)
	ln, lIsNum := l.(*expr.Number)
	rn, rIsNum := r.(*expr.Number)

	gs.Set(registry.GuardLeftNegative, expr.IsNegativeLiteral(l))
	gs.Set(registry.GuardOperandZeroDenominator, zeroDenominator(l) || zeroDenominator(r))
	gs.Set(registry.GuardRightNegative, expr.IsNegativeLiteral(r))

	if lIsFrac && rIsFrac {
		gs.Set(registry.GuardBothFractions, true)
		gs.Set(registry.GuardDenominatorsEqual, lf.Den == rf.Den)
		gs.Set(registry.GuardDenominatorsDifferent, lf.Den != rf.Den)
		gs.Set(registry.GuardNestedFraction, b.Op == expr.OpDiv)
	}

	if lIsNum && rIsNum {
		gs.Set(registry.GuardOperandsNumeric, true)
		gs.Set(registry.GuardHasDecimalOperand, ln.IsDecimal() || rn.IsDecimal())
	}

	if b.Op == expr.OpDiv && expr.IsLiteral(r) {
		zero := literalIsZero(r)
		gs.Set(registry.GuardDivisorZero, zero)
		gs.Set(registry.GuardDivisorNonzero, !zero)

		// Remainder guards are integer-only; decimals have their own rows.
		if !zero && lIsNum && rIsNum && !ln.IsDecimal() && !rn.IsDecimal() {
			if _, rem, err := numeric.MustDecimal(ln.Value).QuoRem(numeric.MustDecimal(rn.Value)); err == nil {
				gs.Set(registry.GuardRemainderZero, rem.Sign() == 0)
				gs.Set(registry.GuardRemainderNonzero, rem.Sign() != 0)
			}
		}
	}

	if rb, ok := r.(*expr.Binary); ok {
		gs.Set(registry.GuardRightIsSum, rb.Op == expr.OpAdd)
		gs.Set(registry.GuardRightIsDifference, rb.Op == expr.OpSub)
	}
	if rIsNum {
		gs.Set(registry.GuardRightIsOne, numberIsOne(rn))
		gs.Set(registry.GuardRightIsZero, expr.IsZeroText(rn.Value))
	}
	gs.Set(registry.GuardOperandsEqual, expr.Equal(l, r))
}

func clickedGuards(gs *registry.GuardSet, n expr.Node) {
	switch v := n.(type) {
	case *expr.Number:
		gs.Set(registry.GuardClickedInteger, !v.IsDecimal())
		gs.Set(registry.GuardClickedDecimal, v.IsDecimal())
		gs.Set(registry.GuardClickedOne, numberIsOne(v))
	case *expr.Fraction:
		gs.Set(registry.GuardClickedFraction, true)
		gs.Set(registry.GuardClickedDenominatorOne, v.Den == "1")
		gs.Set(registry.GuardClickedZeroDenominator, expr.IsZeroText(v.Den))
	case *expr.Mixed:
		gs.Set(registry.GuardClickedMixed, true)
		gs.Set(registry.GuardClickedZeroDenominator, expr.IsZeroText(v.Den))
	}
}

func zeroDenominator(n expr.Node) bool {
	switch v := n.(type) {
	case *expr.Fraction:
		return expr.IsZeroText(v.Den)
	case *expr.Mixed:
		return expr.IsZeroText(v.Den)
	}
	return false
}

func literalIsZero(n expr.Node) bool {
	switch v := n.(type) {
	case *expr.Number:
		return expr.IsZeroText(v.Value)
	case *expr.Fraction:
		return expr.IsZeroText(v.Num)
	case *expr.Mixed:
		return expr.IsZeroText(v.Whole) && expr.IsZeroText(v.Num)
	}
	return false
}

func numberIsOne(n *expr.Number) bool {
	d, err := numeric.ParseDecimal(n.Value)
	return err == nil && d.String() == "1"
}

// OppositeDenominator finds the denominator for turning the factor at addr
// into a unit fraction matching the other addend: addr must be an operand of
// a product that is itself an operand of a sum or difference, and the other
// side of that sum must contain a fraction. The first fraction in reading
// order supplies the denominator.
func OppositeDenominator(tree expr.Node, addr expr.Address) (string, bool) {
	productAddr, ok := addr.Parent()
	if !ok {
		return "", false
	}
	product, ok := expr.Read(tree, productAddr)
	if pb, isBin := product.(*expr.Binary); !ok || !isBin || pb.Op != expr.OpMul {
		return "", false
	}
	sumAddr, ok := productAddr.Parent()
	if !ok {
		return "", false
	}
	sum, ok := expr.Read(tree, sumAddr)
	if sb, isBin := sum.(*expr.Binary); !ok || !isBin || (sb.Op != expr.OpAdd && sb.Op != expr.OpSub) {
		return "", false
	}
	otherAddr, _ := productAddr.Sibling()
	other, ok := expr.Read(tree, otherAddr)
	if !ok {
		return "", false
	}

	den := ""
	expr.Walk(other, func(n expr.Node, _ expr.Address) bool {
		if den != "" {
			return false
		}
		if f, ok := n.(*expr.Fraction); ok {
			den = f.Den
			return false
		}
		return true
	})
	return den, den != ""
}

// NeighborDenominator returns the denominator of the fraction beside addr.
func NeighborDenominator(tree expr.Node, addr expr.Address) (string, bool) {
	sib, ok := addr.Sibling()
	if !ok {
		return "", false
	}
	n, ok := expr.Read(tree, sib)
	if !ok {
		return "", false
	}
	f, ok := n.(*expr.Fraction)
	if !ok {
		return "", false
	}
	return f.Den, true
}
