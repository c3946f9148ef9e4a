package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

func num(v string) *Number { return NewNumber(v) }

func bin(op Op, l, r Node) *Binary { return NewBinary(op, l, r) }

func TestPrintPrecedence(t *testing.T) {
	tests := []struct {
		name string
		tree Node
		want string
	}{
		{
			name: "flat sum",
			tree: bin(OpAdd, num("2"), num("3")),
			want: "2 + 3",
		},
		{
			name: "product of sum needs parens",
			tree: bin(OpMul, bin(OpAdd, num("1"), num("2")), num("3")),
			want: "(1 + 2) * 3",
		},
		{
			name: "left-leaning subtraction has no parens",
			tree: bin(OpSub, bin(OpSub, num("5"), num("2")), num("1")),
			want: "5 - 2 - 1",
		},
		{
			name: "right-nested subtraction keeps parens",
			tree: bin(OpSub, num("5"), bin(OpSub, num("2"), num("1"))),
			want: "5 - (2 - 1)",
		},
		{
			name: "right-nested addition drops parens",
			tree: bin(OpAdd, num("5"), bin(OpAdd, num("2"), num("1"))),
			want: "5 + 2 + 1",
		},
		{
			name: "right-nested division keeps parens",
			tree: bin(OpDiv, num("8"), bin(OpMul, num("2"), num("2"))),
			want: "8 / (2 * 2)",
		},
		{
			name: "negative right literal",
			tree: bin(OpSub, num("2"), num("-3")),
			want: "2 - (-3)",
		},
		{
			name: "negative left literal",
			tree: bin(OpAdd, num("-2"), num("3")),
			want: "-2 + 3",
		},
		{
			name: "fraction and mixed",
			tree: bin(OpAdd, NewFraction("1", "2"), NewMixed("1", "1", "3")),
			want: "1/2 + 1 1/3",
		},
		{
			name: "negative fraction on right",
			tree: bin(OpMul, NewFraction("1", "2"), NewFraction("-3", "4")),
			want: "1/2 * (-3/4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Print(tt.tree))
			assert.Equal(t, tt.want, tt.tree.String())
		})
	}
}

func TestAddressParseAndString(t *testing.T) {
	addr, err := ParseAddress("0.1.0")
	require.NoError(t, err)
	assert.Equal(t, Address{0, 1, 0}, addr)
	assert.Equal(t, "0.1.0", addr.String())

	root, err := ParseAddress("root")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", Root.String())

	_, err = ParseAddress("0.x")
	assert.Error(t, err)
	_, err = ParseAddress("-1")
	assert.Error(t, err)
}

func TestAddressNavigation(t *testing.T) {
	a := Address{1, 0}

	parent, ok := a.Parent()
	require.True(t, ok)
	assert.Equal(t, Address{1}, parent)

	sib, ok := a.Sibling()
	require.True(t, ok)
	assert.Equal(t, Address{1, 1}, sib)

	// Child never aliases the receiver's backing array.
	p := Address{0}
	c1 := p.Child(0)
	c2 := p.Child(1)
	assert.Equal(t, Address{0, 0}, c1)
	assert.Equal(t, Address{0, 1}, c2)

	_, ok = Root.Parent()
	assert.False(t, ok)
	assert.Equal(t, -1, Root.Last())
	assert.True(t, Address{0, 1}.Equal(Address{0, 1}))
	assert.False(t, Address{0, 1}.Equal(Address{0}))
}

func TestReadAndReplaceShareUntouchedSubtrees(t *testing.T) {
	left := bin(OpMul, num("2"), num("3"))
	right := bin(OpDiv, num("8"), num("4"))
	tree := bin(OpAdd, left, right)

	n, ok := Read(tree, Address{1, 0})
	require.True(t, ok)
	assert.Equal(t, "8", Print(n))

	out, err := Replace(tree, Address{0}, num("6"))
	require.NoError(t, err)
	assert.Equal(t, "6 + 8 / 4", Print(out))

	ob := out.(*Binary)
	assert.Same(t, right, ob.Right, "unchanged sibling is shared")
	assert.Equal(t, "2 * 3 + 8 / 4", Print(tree), "original is untouched")

	deep, err := Replace(tree, Address{1, 1}, num("2"))
	require.NoError(t, err)
	assert.Same(t, left, deep.(*Binary).Left)
	assert.Equal(t, "2 * 3 + 8 / 2", Print(deep))
}

func TestReplaceRejectsBadAddress(t *testing.T) {
	tree := bin(OpAdd, num("1"), num("2"))

	for _, addr := range []Address{{2}, {0, 0}, {1, 1, 1}} {
		_, err := Replace(tree, addr, num("9"))
		assert.ErrorIs(t, err, steperr.ErrAddressNotFound, addr.String())

		_, ok := Read(tree, addr)
		assert.False(t, ok, addr.String())
	}

	whole, err := Replace(tree, Root, num("3"))
	require.NoError(t, err)
	assert.Equal(t, "3", Print(whole))
}

func TestWalkVisitsPreOrder(t *testing.T) {
	tree := bin(OpSub, bin(OpAdd, num("1"), num("2")), num("3"))

	var got []string
	Walk(tree, func(n Node, addr Address) bool {
		got = append(got, addr.String()+"="+n.Kind().String())
		return true
	})
	want := []string{"=binary", "0=binary", "0.0=number", "0.1=number", "1=number"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}

	var skipped []string
	Walk(tree, func(n Node, addr Address) bool {
		skipped = append(skipped, addr.String())
		return addr.IsRoot()
	})
	assert.Equal(t, []string{"", "0", "1"}, skipped)
}

func TestEqual(t *testing.T) {
	a := bin(OpAdd, NewFraction("1", "2"), num("1.50"))
	b := bin(OpAdd, NewFraction("1", "2"), num("1.50"))
	c := bin(OpAdd, NewFraction("1", "2"), num("1.5"))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c), "literals compare textually")
	assert.False(t, Equal(a, nil))
	assert.True(t, Equal(nil, nil))

	div := bin(OpDiv, num("3"), num("4"))
	assert.False(t, Equal(NewFraction("3", "4"), div))
	assert.True(t, EqualValueForm(NewFraction("3", "4"), div))
}

func TestNegateAndSigns(t *testing.T) {
	n, ok := Negate(num("-3"))
	require.True(t, ok)
	assert.Equal(t, "3", Print(n))

	n, ok = Negate(NewFraction("2", "5"))
	require.True(t, ok)
	assert.Equal(t, "-2/5", Print(n))

	n, ok = Negate(num("0"))
	require.True(t, ok)
	assert.Equal(t, "0", Print(n), "zero stays unsigned")

	_, ok = Negate(bin(OpAdd, num("1"), num("2")))
	assert.False(t, ok)

	assert.True(t, IsNegativeLiteral(NewMixed("-1", "1", "2")))
	assert.False(t, IsNegativeLiteral(NewVariable("a")))
	assert.True(t, IsZeroText("-0.00"))
	assert.False(t, IsZeroText("0.01"))
	assert.True(t, num("1.5").IsDecimal())
}

func TestFingerprint(t *testing.T) {
	a := bin(OpAdd, NewFraction("1", "2"), num("3"))
	b := bin(OpAdd, NewFraction("1", "2"), num("3"))
	c := bin(OpAdd, num("3"), NewFraction("1", "2"))

	fa, fb, fc := FingerprintOf(a), FingerprintOf(b), FingerprintOf(c)
	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
	assert.False(t, fa.IsZero())
	assert.Len(t, fa.Short(), 8)
	assert.Len(t, fa.String(), 64)

	// A fraction literal and its division form are different snapshots.
	assert.NotEqual(t, FingerprintOf(NewFraction("3", "4")), FingerprintOf(bin(OpDiv, num("3"), num("4"))))

	data1, err := MarshalCanonical(a)
	require.NoError(t, err)
	data2, err := MarshalCanonical(b)
	require.NoError(t, err)
	assert.Equal(t, data1, data2)
}

func TestOutline(t *testing.T) {
	tree := bin(OpMul, NewFraction("1", "2"), num("4"))
	want := "[root] binary *\n  [0] fraction 1/2\n  [1] number 4\n"
	assert.Equal(t, want, Outline(tree))
}

func TestParseOp(t *testing.T) {
	for _, s := range []string{"+", "-", "*", "/"} {
		op, ok := ParseOp(s)
		require.True(t, ok)
		assert.Equal(t, s, op.String())
	}
	_, ok := ParseOp("^")
	assert.False(t, ok)
	assert.Equal(t, MulPrecedence, OpDiv.Precedence())
	assert.True(t, OpMul.Associative())
	assert.False(t, OpSub.Associative())
}
