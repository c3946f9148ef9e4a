// Package resolver turns a click on a tree into the semantic context the
// matcher works from: the acting node, its operator, coarse operand types and
// the full guard set.
package resolver

import (
	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/registry"
)

// ClickTarget describes what the student clicked. Address wins when set;
// otherwise OperatorIndex picks the n-th operator in reading order.
type ClickTarget struct {
	Address        expr.Address
	Kind           registry.ClickKind
	OperatorIndex  *int
	InsideBrackets bool // the click landed inside a bracketed group
}

// NodeContext is the resolved view of one click against one tree snapshot.
type NodeContext struct {
	Address       expr.Address // the clicked node
	ActionAddress expr.Address // the node a rewrite acts on
	ParentAddress expr.Address // nil when the clicked node is the root

	Operator expr.Op
	Left     registry.OperandType
	Right    registry.OperandType
	Guards   registry.GuardSet
	Click    registry.ClickKind

	ClickedNode expr.Node
	ActionNode  expr.Node
	ParentNode  expr.Node

	// Fingerprint binds the context to the tree it was resolved against.
	Fingerprint expr.Fingerprint
	// Resolved is false when the click did not land on a node. Such a
	// context has every guard false and matches nothing.
	Resolved bool
}

// HasParent reports whether the clicked node has a parent.
func (c NodeContext) HasParent() bool {
	return c.ParentNode != nil
}

// TargetAddress returns the address a rule with target t acts on.
func (c NodeContext) TargetAddress(t registry.Target) (expr.Address, bool) {
	if !c.Resolved {
		return nil, false
	}
	switch t {
	case registry.TargetClicked:
		return c.Address, true
	case registry.TargetParent:
		return c.ParentAddress, c.HasParent()
	default:
		return c.ActionAddress, true
	}
}

// TargetNode returns the node a rule with target t acts on.
func (c NodeContext) TargetNode(t registry.Target) (expr.Node, bool) {
	if !c.Resolved {
		return nil, false
	}
	switch t {
	case registry.TargetClicked:
		return c.ClickedNode, true
	case registry.TargetParent:
		return c.ParentNode, c.HasParent()
	default:
		return c.ActionNode, true
	}
}

// Resolve builds the context for click on tree. An unresolvable click yields
// a context with Resolved false rather than an error.
func Resolve(tree expr.Node, click ClickTarget) NodeContext {
	ctx := NodeContext{
		Address:     click.Address,
		Click:       click.Kind,
		Fingerprint: expr.FingerprintOf(tree),
	}

	addr := click.Address
	if addr == nil && click.OperatorIndex != nil {
		var ok bool
		if addr, ok = OperatorAddress(tree, *click.OperatorIndex); !ok {
			return ctx
		}
	}
	if addr == nil {
		addr = expr.Root
	}

	clicked, ok := expr.Read(tree, addr)
	if !ok {
		return ctx
	}
	ctx.Address = addr
	ctx.ClickedNode = clicked
	ctx.Resolved = true

	if parentAddr, ok := addr.Parent(); ok {
		ctx.ParentAddress = parentAddr
		ctx.ParentNode, _ = expr.Read(tree, parentAddr)
	}

	// An operator node acts for itself; a leaf routes to its enclosing
	// operator.
	ctx.ActionAddress, ctx.ActionNode = addr, clicked
	if b, ok := clicked.(*expr.Binary); ok {
		ctx.Operator = b.Op
	} else if p, ok := ctx.ParentNode.(*expr.Binary); ok {
		ctx.Operator = p.Op
		ctx.ActionAddress, ctx.ActionNode = ctx.ParentAddress, p
	}

	if b, ok := ctx.ActionNode.(*expr.Binary); ok {
		ctx.Left = OperandTypeOf(b.Left)
		ctx.Right = OperandTypeOf(b.Right)
	}

	ctx.Guards = computeGuards(tree, &ctx, click)
	return ctx
}

// OperandTypeOf coarsens a node to an operand type.
func OperandTypeOf(n expr.Node) registry.OperandType {
	switch v := n.(type) {
	case *expr.Number:
		if v.IsDecimal() {
			return registry.OperandDecimal
		}
		return registry.OperandInt
	case *expr.Fraction:
		return registry.OperandFraction
	case *expr.Mixed:
		return registry.OperandMixed
	case nil:
		return registry.OperandUnspecified
	}
	return registry.OperandAny
}

// Operators lists operator addresses in reading order (in-order traversal).
func Operators(tree expr.Node) []expr.Address {
	var out []expr.Address
	var visit func(n expr.Node, addr expr.Address)
	visit = func(n expr.Node, addr expr.Address) {
		b, ok := n.(*expr.Binary)
		if !ok {
			return
		}
		visit(b.Left, addr.Child(0))
		out = append(out, addr)
		visit(b.Right, addr.Child(1))
	}
	visit(tree, expr.Address{})
	return out
}

// OperatorAddress returns the address of the index-th operator in reading
// order.
func OperatorAddress(tree expr.Node, index int) (expr.Address, bool) {
	ops := Operators(tree)
	if index < 0 || index >= len(ops) {
		return nil, false
	}
	return ops[index], true
}
