package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tokenExpectation is the comparable shape of a token.
type tokenExpectation struct {
	Type   TokenType
	Text   string
	Column int
	Space  bool
}

func assertTokens(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()

	var actual []tokenExpectation
	for _, tok := range Tokenize(input) {
		actual = append(actual, tokenExpectation{
			Type:   tok.Type,
			Text:   tok.String(),
			Column: tok.Position.Column,
			Space:  tok.HasSpaceBefore,
		})
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%q: token mismatch (-expected +actual):\n%s", input, diff)
	}
}

func TestEmptyInput(t *testing.T) {
	assertTokens(t, "", []tokenExpectation{{EOF, "", 1, false}})
	assertTokens(t, "   ", []tokenExpectation{{EOF, "", 4, true}})
}

func TestArithmetic(t *testing.T) {
	assertTokens(t, "12 + 3.5 - x1", []tokenExpectation{
		{INTEGER, "12", 1, false},
		{PLUS, "+", 4, true},
		{DECIMAL, "3.5", 6, true},
		{MINUS, "-", 10, true},
		{IDENTIFIER, "x1", 12, true},
		{EOF, "", 14, false},
	})
}

func TestTightFractionSpacing(t *testing.T) {
	assertTokens(t, "3/4 / 2", []tokenExpectation{
		{INTEGER, "3", 1, false},
		{DIVIDE, "/", 2, false},
		{INTEGER, "4", 3, false},
		{DIVIDE, "/", 5, true},
		{INTEGER, "2", 7, true},
		{EOF, "", 8, false},
	})
}

func TestDivisionAndMultiplicationSpellings(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"*", MULTIPLY},
		{"×", MULTIPLY},
		{"·", MULTIPLY},
		{`\cdot`, MULTIPLY},
		{`\times`, MULTIPLY},
		{":", DIVSIGN},
		{"÷", DIVSIGN},
		{`\div`, DIVSIGN},
		{"/", DIVIDE},
		{"−", MINUS},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := Tokenize(tt.input)
			if len(toks) != 2 {
				t.Fatalf("expected 2 tokens, got %d", len(toks))
			}
			if toks[0].Type != tt.typ {
				t.Errorf("got %s, want %s", toks[0].Type, tt.typ)
			}
			if toks[1].Type != EOF {
				t.Errorf("expected EOF, got %s", toks[1].Type)
			}
		})
	}
}

func TestMarkupCommands(t *testing.T) {
	assertTokens(t, `\frac{1}{2}`, []tokenExpectation{
		{FRAC, `\frac`, 1, false},
		{LBRACE, "{", 6, false},
		{INTEGER, "1", 7, false},
		{RBRACE, "}", 8, false},
		{LBRACE, "{", 9, false},
		{INTEGER, "2", 10, false},
		{RBRACE, "}", 11, false},
		{EOF, "", 12, false},
	})

	assertTokens(t, `\left( 2 \right)`, []tokenExpectation{
		{LPAREN, `\left(`, 1, false},
		{INTEGER, "2", 8, true},
		{RPAREN, `\right)`, 10, true},
		{EOF, "", 17, false},
	})
}

func TestIllegalInput(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"5.", "5."},
		{"#", "#"},
		{`\sqrt`, `\sqrt`},
		{`\left[`, `\left`},
		{"€", "€"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Tokenize(tt.input)[0]
			if tok.Type != ILLEGAL {
				t.Fatalf("got %s, want ILLEGAL", tok.Type)
			}
			if tok.String() != tt.text {
				t.Errorf("text %q, want %q", tok.String(), tt.text)
			}
		})
	}
}

func TestLeadingPointDecimal(t *testing.T) {
	assertTokens(t, ".25", []tokenExpectation{
		{DECIMAL, ".25", 1, false},
		{EOF, "", 4, false},
	})
}

func TestNextTokenThenGetTokens(t *testing.T) {
	l := NewLexer("1 + 2")
	first := l.NextToken()
	if first.Type != INTEGER {
		t.Fatalf("first token %s", first.Type)
	}
	all := l.GetTokens()
	if len(all) != 4 {
		t.Fatalf("expected 4 tokens including consumed, got %d", len(all))
	}
	if l.NextToken().Type != EOF {
		t.Error("exhausted lexer must keep returning EOF")
	}
}

func TestPositionOffsetsAcrossUnicode(t *testing.T) {
	toks := Tokenize("2×3")
	if toks[2].Position.Column != 3 {
		t.Errorf("column after × = %d, want 3", toks[2].Position.Column)
	}
	if toks[2].Position.Offset != 3 {
		t.Errorf("offset after × = %d, want 3", toks[2].Position.Offset)
	}
}
