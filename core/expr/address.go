package expr

import (
	"fmt"
	"strconv"
	"strings"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

// Address locates a node by child index from the root. The empty address is
// the root; for a Binary node child 0 is the left operand and 1 the right.
//
// An address is only meaningful against the tree snapshot it was derived
// from. Rewrites re-derive addresses on their result tree.
type Address []int

// Root is the empty address.
var Root = Address{}

// String renders the address as dot-separated indices ("0.1"). The root
// renders as the empty string.
func (a Address) String() string {
	parts := make([]string, len(a))
	for i, idx := range a {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// ParseAddress parses the String form of an address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "root" {
		return Address{}, nil
	}
	parts := strings.Split(s, ".")
	addr := make(Address, len(parts))
	for i, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid address segment %q in %q", p, s)
		}
		addr[i] = idx
	}
	return addr, nil
}

// IsRoot reports whether a addresses the root.
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Parent returns the parent address, or false for the root.
func (a Address) Parent() (Address, bool) {
	if len(a) == 0 {
		return nil, false
	}
	return a[: len(a)-1 : len(a)-1], true
}

// Last returns the final child index, or -1 for the root.
func (a Address) Last() int {
	if len(a) == 0 {
		return -1
	}
	return a[len(a)-1]
}

// Child returns a new address extended by idx. The receiver is not aliased.
func (a Address) Child(idx int) Address {
	out := make(Address, len(a)+1)
	copy(out, a)
	out[len(a)] = idx
	return out
}

// Sibling returns the address of the other child of a binary parent.
func (a Address) Sibling() (Address, bool) {
	parent, ok := a.Parent()
	if !ok {
		return nil, false
	}
	return parent.Child(1 - a.Last()), true
}

// Equal reports whether two addresses are identical.
func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Read returns the node at addr. It fails when the address walks through a
// leaf or uses an out-of-range index.
func Read(root Node, addr Address) (Node, bool) {
	n := root
	for _, idx := range addr {
		if n == nil {
			return nil, false
		}
		children := n.Children()
		if idx < 0 || idx >= len(children) {
			return nil, false
		}
		n = children[idx]
	}
	return n, n != nil
}

// Replace returns a new tree with the node at addr swapped for repl. Only the
// ancestors on the path are rebuilt; every other subtree is shared with root.
func Replace(root Node, addr Address, repl Node) (Node, error) {
	if len(addr) == 0 {
		return repl, nil
	}
	b, ok := root.(*Binary)
	if !ok {
		return nil, steperr.NewAddressNotFound(addr.String())
	}
	switch addr[0] {
	case 0:
		left, err := Replace(b.Left, addr[1:], repl)
		if err != nil {
			return nil, steperr.NewAddressNotFound(addr.String())
		}
		return NewBinary(b.Op, left, b.Right), nil
	case 1:
		right, err := Replace(b.Right, addr[1:], repl)
		if err != nil {
			return nil, steperr.NewAddressNotFound(addr.String())
		}
		return NewBinary(b.Op, b.Left, right), nil
	default:
		return nil, steperr.NewAddressNotFound(addr.String())
	}
}

// Walk visits every node in pre-order together with its address. Returning
// false from fn skips the node's children.
func Walk(root Node, fn func(n Node, addr Address) bool) {
	walk(root, Address{}, fn)
}

func walk(n Node, addr Address, fn func(Node, Address) bool) {
	if !fn(n, addr) {
		return
	}
	for i, c := range n.Children() {
		walk(c, addr.Child(i), fn)
	}
}
