package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/mathstep/core/expr"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

func num(v string) expr.Node { return expr.NewNumber(v) }

func frac(n, d string) expr.Node { return expr.NewFraction(n, d) }

func bin(op expr.Op, l, r expr.Node) expr.Node { return expr.NewBinary(op, l, r) }

// treeDiff compares trees through their outlines, which name every node kind.
func treeDiff(want, got expr.Node) string {
	return cmp.Diff(expr.Outline(want), expr.Outline(got))
}

func TestParseTrees(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  expr.Node
	}{
		{
			name:  "integer",
			input: "42",
			want:  num("42"),
		},
		{
			name:  "left associative subtraction",
			input: "5 - 2 - 1",
			want:  bin(expr.OpSub, bin(expr.OpSub, num("5"), num("2")), num("1")),
		},
		{
			name:  "precedence",
			input: "1 + 2 * 3",
			want:  bin(expr.OpAdd, num("1"), bin(expr.OpMul, num("2"), num("3"))),
		},
		{
			name:  "parentheses",
			input: "(1 + 2) * 3",
			want:  bin(expr.OpMul, bin(expr.OpAdd, num("1"), num("2")), num("3")),
		},
		{
			name:  "braces group",
			input: "{1 + 2} * 3",
			want:  bin(expr.OpMul, bin(expr.OpAdd, num("1"), num("2")), num("3")),
		},
		{
			name:  "tight fraction literal",
			input: "1/7 + 3/7",
			want:  bin(expr.OpAdd, frac("1", "7"), frac("3", "7")),
		},
		{
			name:  "spaced slash is division",
			input: "12 / 5",
			want:  bin(expr.OpDiv, num("12"), num("5")),
		},
		{
			name:  "colon division",
			input: "15 : 5",
			want:  bin(expr.OpDiv, num("15"), num("5")),
		},
		{
			name:  "division sign between fractions",
			input: "1/2 ÷ 3/5",
			want:  bin(expr.OpDiv, frac("1", "2"), frac("3", "5")),
		},
		{
			name:  "times glyph",
			input: "1/2 × 1 + 1/3 × 1",
			want: bin(expr.OpAdd,
				bin(expr.OpMul, frac("1", "2"), num("1")),
				bin(expr.OpMul, frac("1", "3"), num("1"))),
		},
		{
			name:  "unary minus folds into literal",
			input: "2 - -3",
			want:  bin(expr.OpSub, num("2"), num("-3")),
		},
		{
			name:  "double unary minus",
			input: "--3",
			want:  num("3"),
		},
		{
			name:  "negative fraction",
			input: "-3/4",
			want:  frac("-3", "4"),
		},
		{
			name:  "leading point decimal",
			input: ".5 * 2",
			want:  bin(expr.OpMul, num("0.5"), num("2")),
		},
		{
			name:  "mixed number",
			input: "1 1/2 + 2",
			want:  bin(expr.OpAdd, expr.NewMixed("1", "1", "2"), num("2")),
		},
		{
			name:  "negative mixed number",
			input: "-2 3/4",
			want:  expr.NewMixed("-2", "3", "4"),
		},
		{
			name:  "markup fraction",
			input: `\frac{3}{4}`,
			want:  frac("3", "4"),
		},
		{
			name:  "markup mixed number",
			input: `1\frac{1}{3}`,
			want:  expr.NewMixed("1", "1", "3"),
		},
		{
			name:  "markup compound fraction is division",
			input: `\frac{1/2}{3/4}`,
			want:  bin(expr.OpDiv, frac("1", "2"), frac("3", "4")),
		},
		{
			name:  "markup fraction of a sum",
			input: `\frac{1 + 2}{3}`,
			want:  bin(expr.OpDiv, bin(expr.OpAdd, num("1"), num("2")), num("3")),
		},
		{
			name:  "left right sugar and cdot",
			input: `2 \cdot \left( 3 - 1 \right)`,
			want:  bin(expr.OpMul, num("2"), bin(expr.OpSub, num("3"), num("1"))),
		},
		{
			name:  "div command",
			input: `12.5 \div 0.5`,
			want:  bin(expr.OpDiv, num("12.5"), num("0.5")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			if diff := treeDiff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, expr.Equal(tt.want, got))
		})
	}
}

func TestVariablesNeedOption(t *testing.T) {
	_, err := Parse("a + 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only numbers are allowed")

	got, err := Parse("a/c + b/c", WithVariables())
	require.NoError(t, err)
	want := bin(expr.OpAdd,
		bin(expr.OpDiv, expr.NewVariable("a"), expr.NewVariable("c")),
		bin(expr.OpDiv, expr.NewVariable("b"), expr.NewVariable("c")))
	if diff := treeDiff(want, got); diff != "" {
		t.Errorf("pattern tree mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkupRatioOfVariables(t *testing.T) {
	got, err := Parse(`\frac{a}{c}`, WithVariables())
	require.NoError(t, err)
	want := bin(expr.OpDiv, expr.NewVariable("a"), expr.NewVariable("c"))
	if diff := treeDiff(want, got); diff != "" {
		t.Errorf("ratio tree mismatch (-want +got):\n%s", diff)
	}

	// Spelled either way, it is the same tree.
	tight, err := Parse("a/c", WithVariables())
	require.NoError(t, err)
	assert.True(t, expr.Equal(got, tight))
}

func TestPrintParseRoundTrip(t *testing.T) {
	inputs := []string{
		"1/7 + 3/7",
		"12 : 5",
		"5 - (2 - 1)",
		"2 - -3",
		"8 / (2 * 2)",
		"1 1/2 * 3",
		"-1 1/2 + 1/2",
		`\frac{1/2}{3/4}`,
		`\frac{1 + 2}{3}`,
		"12.50 + 0.5",
		"(1 + 2) * (3 - 4) / 5",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tree, err := Parse(in)
			require.NoError(t, err)
			printed := expr.Print(tree)
			again, err := Parse(printed)
			require.NoError(t, err, "printed form %q must re-parse", printed)
			assert.True(t, expr.Equal(tree, again), "round trip changed %q into %q", in, expr.Print(again))
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		column  int
	}{
		{"", "expected a number or '(', got end of input", 1},
		{"1 +", "expected a number or '(', got end of input", 4},
		{"(1 + 2", "expected ')', got end of input", 7},
		{"1 + 2)", `expected an operator or end of input, got ")"`, 6},
		{"2 3", "expected an operator between 2 and 3", 3},
		{"-(1 + 2)", "a minus sign can only precede a number", 1},
		{`\sqrt{4}`, `unknown command \sqrt`, 1},
		{"1 # 2", `invalid input "#"`, 3},
		{"5. + 1", `invalid input "5."`, 1},
		{`\frac{1}`, "expected '{' after \\frac, got end of input", 9},
		{`2\frac{x}{3}`, "only numbers are allowed", 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, tree, "no partial tree on failure")
			assert.True(t, errors.Is(err, steperr.ErrParse))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, pe.Message, tt.message)
			assert.Equal(t, tt.column, pe.Position().Column)
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	_, err := Parse("1 + * 2")
	require.Error(t, err)

	msg := err.Error()
	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `unexpected token: expected a number or '(', got "*"`, lines[0])
	assert.Equal(t, "  --> 1:5", lines[1])
	assert.Equal(t, " 1 | 1 + * 2", lines[3])
	assert.Equal(t, "   |     ^", lines[4])
}

func TestMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 10) + "1" + strings.Repeat(")", 10)
	_, err := Parse(deep, WithMaxDepth(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deeper than 5")

	_, err = Parse(deep)
	assert.NoError(t, err)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("1 +") })
	assert.NotPanics(t, func() { MustParse("1 + 1") })
}
