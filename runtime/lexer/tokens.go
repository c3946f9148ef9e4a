package lexer

import "fmt"

// TokenType identifies a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Literals
	INTEGER    // 12
	DECIMAL    // 12.5, .5
	IDENTIFIER // a, x1

	// Operators
	PLUS     // +
	MINUS    // - and U+2212
	MULTIPLY // * × · \cdot \times
	DIVIDE   // /
	DIVSIGN  // : ÷ \div

	// Grouping
	LPAREN // ( and \left(
	RPAREN // ) and \right)
	LBRACE // {
	RBRACE // }

	// Markup
	FRAC // \frac
)

var tokenNames = [...]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	INTEGER:    "INTEGER",
	DECIMAL:    "DECIMAL",
	IDENTIFIER: "IDENTIFIER",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MULTIPLY:   "MULTIPLY",
	DIVIDE:     "DIVIDE",
	DIVSIGN:    "DIVSIGN",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	FRAC:       "FRAC",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsNumber reports whether t is a numeric literal.
func (t TokenType) IsNumber() bool {
	return t == INTEGER || t == DECIMAL
}

// Token is one lexical token. Text aliases the input for literals,
// identifiers and illegal input; operator tokens carry their source spelling.
type Token struct {
	Type           TokenType
	Text           []byte
	Position       Position
	HasSpaceBefore bool // whitespace preceded this token
}

func (t Token) String() string {
	return string(t.Text)
}

// Position is a location in the source.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, one per rune
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
