package expr

import "strings"

// Print renders a tree back to text. Binary nodes print as "lhs OP rhs" and a
// child is parenthesized when its operator binds strictly weaker than the
// parent's, or when it binds equally, sits on the right, and the parent is
// non-associative. A negative literal on the right of an operator is
// parenthesized so the sign is not read as a second operator.
func Print(n Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Number:
		b.WriteString(v.Value)
	case *Fraction:
		b.WriteString(v.Num)
		b.WriteByte('/')
		b.WriteString(v.Den)
	case *Mixed:
		b.WriteString(v.Whole)
		b.WriteByte(' ')
		b.WriteString(v.Num)
		b.WriteByte('/')
		b.WriteString(v.Den)
	case *Variable:
		b.WriteString(v.Name)
	case *Binary:
		printChild(b, v, v.Left, false)
		b.WriteByte(' ')
		b.WriteString(v.Op.String())
		b.WriteByte(' ')
		printChild(b, v, v.Right, true)
	}
}

func printChild(b *strings.Builder, parent *Binary, child Node, right bool) {
	if needsParens(parent, child, right) {
		b.WriteByte('(')
		printNode(b, child)
		b.WriteByte(')')
		return
	}
	printNode(b, child)
}

func needsParens(parent *Binary, child Node, right bool) bool {
	if right && IsNegativeLiteral(child) {
		return true
	}
	cp, pp := child.Precedence(), parent.Precedence()
	if cp < pp {
		return true
	}
	return cp == pp && right && !parent.Op.Associative()
}

// Outline renders the tree one node per line with its address, for debugging
// and the command line.
func Outline(root Node) string {
	var b strings.Builder
	Walk(root, func(n Node, addr Address) bool {
		b.WriteString(strings.Repeat("  ", len(addr)))
		label := addr.String()
		if label == "" {
			label = "root"
		}
		b.WriteString("[" + label + "] ")
		switch v := n.(type) {
		case *Binary:
			b.WriteString("binary " + v.Op.String())
		default:
			b.WriteString(n.Kind().String() + " " + Print(n))
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}
