package expr

// Equal reports structural equality. Literal parts compare textually, so
// "1.50" and "1.5" are different literals.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Fraction:
		y, ok := b.(*Fraction)
		return ok && x.Num == y.Num && x.Den == y.Den
	case *Mixed:
		y, ok := b.(*Mixed)
		return ok && x.Whole == y.Whole && x.Num == y.Num && x.Den == y.Den
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}
	return false
}

// EqualValueForm compares two trees after rewriting every fraction literal
// into its binary division form, so 3/4 equals the tree for "3 / 4".
func EqualValueForm(a, b Node) bool {
	return Equal(divisionForm(a), divisionForm(b))
}

func divisionForm(n Node) Node {
	switch v := n.(type) {
	case *Fraction:
		return AsBinary(v)
	case *Binary:
		return NewBinary(v.Op, divisionForm(v.Left), divisionForm(v.Right))
	}
	return n
}
