// Package expr defines the immutable expression tree shared by every stage of
// the step engine: the parser produces it, the resolver and matcher read it,
// and executors return new trees built from it.
//
// Nodes are never mutated after construction. Rewrites go through Replace,
// which rebuilds only the path to the rewritten node and shares every other
// subtree by reference.
package expr

import "strings"

// Kind identifies the concrete node type.
type Kind int

const (
	KindNumber   Kind = iota // 12, -3, 12.50
	KindFraction             // 3/4 with literal integer parts
	KindMixed                // 1 1/2
	KindBinary               // lhs OP rhs
	KindVariable             // pattern and template variables
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindFraction:
		return "fraction"
	case KindMixed:
		return "mixed"
	case KindBinary:
		return "binary"
	case KindVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Precedence describes how tightly a node holds together when printed.
type Precedence int

const (
	AddPrecedence Precedence = iota
	MulPrecedence
	AtomicPrecedence
)

// Op is a binary operator.
type Op byte

const (
	OpNone Op = 0
	OpAdd  Op = '+'
	OpSub  Op = '-'
	OpMul  Op = '*'
	OpDiv  Op = '/'
)

// ParseOp converts an operator symbol into an Op.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	}
	return OpNone, false
}

func (o Op) String() string {
	if o == OpNone {
		return ""
	}
	return string(rune(o))
}

// Precedence returns the binding strength of the operator.
func (o Op) Precedence() Precedence {
	switch o {
	case OpMul, OpDiv:
		return MulPrecedence
	default:
		return AddPrecedence
	}
}

// Associative reports whether a op (b op c) == (a op b) op c.
func (o Op) Associative() bool {
	return o == OpAdd || o == OpMul
}

// Node is an immutable expression tree node.
type Node interface {
	Kind() Kind
	// Children returns a fresh slice; callers may modify it.
	Children() []Node
	Precedence() Precedence
	String() string
	isNode()
}

// Number is a numeric literal stored as an exact decimal string.
// The sign lives in the text ("-12.5"); there is no negation node.
type Number struct {
	Value string
}

// Fraction is a fraction literal whose parts are integer strings.
// A negative fraction carries its sign on the numerator.
type Fraction struct {
	Num string
	Den string
}

// Mixed is a mixed number such as 1 1/2. A negative mixed number carries its
// sign on the whole part.
type Mixed struct {
	Whole string
	Num   string
	Den   string
}

// Binary is a binary operation.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

// Variable is a free variable. It appears in rule patterns and result
// templates; learner input only produces one when the parser is given
// WithVariables.
type Variable struct {
	Name string
}

func NewNumber(value string) *Number            { return &Number{Value: value} }
func NewFraction(num, den string) *Fraction     { return &Fraction{Num: num, Den: den} }
func NewMixed(whole, num, den string) *Mixed    { return &Mixed{Whole: whole, Num: num, Den: den} }
func NewBinary(op Op, left, right Node) *Binary { return &Binary{Op: op, Left: left, Right: right} }
func NewVariable(name string) *Variable         { return &Variable{Name: name} }

func (*Number) Kind() Kind   { return KindNumber }
func (*Fraction) Kind() Kind { return KindFraction }
func (*Mixed) Kind() Kind    { return KindMixed }
func (*Binary) Kind() Kind   { return KindBinary }
func (*Variable) Kind() Kind { return KindVariable }

func (*Number) Children() []Node   { return nil }
func (*Fraction) Children() []Node { return nil }
func (*Mixed) Children() []Node    { return nil }
func (*Variable) Children() []Node { return nil }
func (b *Binary) Children() []Node { return []Node{b.Left, b.Right} }

func (*Number) Precedence() Precedence   { return AtomicPrecedence }
func (*Fraction) Precedence() Precedence { return AtomicPrecedence }
func (*Mixed) Precedence() Precedence    { return AtomicPrecedence }
func (*Variable) Precedence() Precedence { return AtomicPrecedence }
func (b *Binary) Precedence() Precedence { return b.Op.Precedence() }

func (n *Number) String() string   { return Print(n) }
func (f *Fraction) String() string { return Print(f) }
func (m *Mixed) String() string    { return Print(m) }
func (b *Binary) String() string   { return Print(b) }
func (v *Variable) String() string { return v.Name }

func (*Number) isNode()   {}
func (*Fraction) isNode() {}
func (*Mixed) isNode()    {}
func (*Binary) isNode()   {}
func (*Variable) isNode() {}

// IsDecimal reports whether the literal has a fractional part.
func (n *Number) IsDecimal() bool {
	return strings.Contains(n.Value, ".")
}

// IsNegative reports whether the literal text carries a minus sign.
func (n *Number) IsNegative() bool {
	return strings.HasPrefix(n.Value, "-")
}

// IsNegative reports whether the numerator carries a minus sign.
func (f *Fraction) IsNegative() bool {
	return strings.HasPrefix(f.Num, "-")
}

// IsNegative reports whether the whole part carries a minus sign.
func (m *Mixed) IsNegative() bool {
	return strings.HasPrefix(m.Whole, "-")
}

// IsLiteral reports whether n is a numeric literal leaf.
func IsLiteral(n Node) bool {
	switch n.(type) {
	case *Number, *Fraction, *Mixed:
		return true
	}
	return false
}

// IsNegativeLiteral reports whether n is a literal whose text begins with '-'.
func IsNegativeLiteral(n Node) bool {
	switch v := n.(type) {
	case *Number:
		return v.IsNegative()
	case *Fraction:
		return v.IsNegative()
	case *Mixed:
		return v.IsNegative()
	}
	return false
}

// IsZeroText reports whether a literal string denotes zero ("0", "-0.00").
func IsZeroText(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '.' {
			return false
		}
	}
	return true
}

// NegateText flips the sign of a literal string. Zero stays unsigned.
func NegateText(s string) string {
	if strings.HasPrefix(s, "-") {
		return s[1:]
	}
	if IsZeroText(s) {
		return s
	}
	return "-" + s
}

// Negate returns the literal with its sign flipped, or false when n is not a
// literal.
func Negate(n Node) (Node, bool) {
	switch v := n.(type) {
	case *Number:
		return NewNumber(NegateText(v.Value)), true
	case *Fraction:
		return NewFraction(NegateText(v.Num), v.Den), true
	case *Mixed:
		return NewMixed(NegateText(v.Whole), v.Num, v.Den), true
	}
	return nil, false
}

// AsBinary returns the binary form of a fraction literal (num / den). Binary
// nodes are returned as-is; any other node yields nil.
func AsBinary(n Node) *Binary {
	switch v := n.(type) {
	case *Binary:
		return v
	case *Fraction:
		return NewBinary(OpDiv, NewNumber(v.Num), NewNumber(v.Den))
	}
	return nil
}
