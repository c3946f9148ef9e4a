// Package lexer tokenizes expression text: numerals, identifiers, the four
// arithmetic operators in their ASCII, Unicode and markup spellings, and
// grouping. Markup commands (\frac, \left(, \right), \cdot, ...) are folded
// into structural tokens here so the parser never sees raw commands.
package lexer

import (
	"unicode/utf8"
)

// Lexer produces tokens from an input buffer.
type Lexer struct {
	input    []byte
	position int
	line     int
	column   int

	tokens     []Token
	tokenIndex int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	l := &Lexer{}
	l.Init([]byte(input))
	return l
}

// Init resets the lexer with new input (following the Go scanner pattern).
func (l *Lexer) Init(input []byte) {
	l.input = input
	l.position = 0
	l.line = 1
	l.column = 1
	l.tokens = l.tokens[:0]
	l.tokenIndex = 0
}

// NextToken returns the next token. After the input is exhausted it keeps
// returning EOF.
func (l *Lexer) NextToken() Token {
	if l.tokenIndex < len(l.tokens) {
		tok := l.tokens[l.tokenIndex]
		l.tokenIndex++
		return tok
	}
	tok := l.lexToken()
	l.tokens = append(l.tokens, tok)
	l.tokenIndex++
	return tok
}

// GetTokens returns every token including the trailing EOF. Tokens already
// consumed through NextToken are included.
func (l *Lexer) GetTokens() []Token {
	for {
		if n := len(l.tokens); n > 0 && l.tokens[n-1].Type == EOF {
			break
		}
		l.tokens = append(l.tokens, l.lexToken())
	}
	l.tokenIndex = len(l.tokens)
	out := make([]Token, len(l.tokens))
	copy(out, l.tokens)
	return out
}

// Tokenize is a convenience wrapper returning all tokens of input.
func Tokenize(input string) []Token {
	return NewLexer(input).GetTokens()
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) lexToken() Token {
	hadWhitespace := l.skipWhitespace()
	start := l.pos()

	if l.position >= len(l.input) {
		return Token{Type: EOF, Position: start, HasSpaceBefore: hadWhitespace}
	}

	ch := l.currentChar()
	if ch >= 128 {
		return l.lexUnicode(start, hadWhitespace)
	}

	switch {
	case isDigit[ch]:
		return l.lexNumber(start, hadWhitespace)
	case ch == '.' && l.peekIsDigit(1):
		return l.lexNumber(start, hadWhitespace)
	case isIdentStart[ch]:
		return l.lexIdentifier(start, hadWhitespace)
	case ch == '\\':
		return l.lexCommand(start, hadWhitespace)
	}

	var typ TokenType
	switch ch {
	case '+':
		typ = PLUS
	case '-':
		typ = MINUS
	case '*':
		typ = MULTIPLY
	case '/':
		typ = DIVIDE
	case ':':
		typ = DIVSIGN
	case '(':
		typ = LPAREN
	case ')':
		typ = RPAREN
	case '{':
		typ = LBRACE
	case '}':
		typ = RBRACE
	default:
		typ = ILLEGAL
	}
	startPos := l.position
	l.advanceChar()
	return Token{Type: typ, Text: l.input[startPos:l.position], Position: start, HasSpaceBefore: hadWhitespace}
}

// lexUnicode handles the non-ASCII operator glyphs.
func (l *Lexer) lexUnicode(start Position, hasSpaceBefore bool) Token {
	startPos := l.position
	r, _ := utf8.DecodeRune(l.input[l.position:])
	l.advanceChar()

	typ := ILLEGAL
	switch r {
	case '×', '·', '⋅':
		typ = MULTIPLY
	case '÷':
		typ = DIVSIGN
	case '−':
		typ = MINUS
	}
	return Token{Type: typ, Text: l.input[startPos:l.position], Position: start, HasSpaceBefore: hasSpaceBefore}
}

// lexCommand reads a backslash command. \left and \right must be followed by
// a parenthesis, which is consumed with them.
func (l *Lexer) lexCommand(start Position, hasSpaceBefore bool) Token {
	startPos := l.position
	l.advanceChar() // backslash
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch >= 128 || !isLetter[ch] {
			break
		}
		l.advanceChar()
	}
	name := string(l.input[startPos+1 : l.position])

	tok := Token{Type: ILLEGAL, Position: start, HasSpaceBefore: hasSpaceBefore}
	switch name {
	case "frac", "dfrac", "tfrac":
		tok.Type = FRAC
	case "cdot", "times":
		tok.Type = MULTIPLY
	case "div":
		tok.Type = DIVSIGN
	case "left", "right":
		l.skipWhitespace()
		want := byte('(')
		typ := LPAREN
		if name == "right" {
			want, typ = ')', RPAREN
		}
		if l.currentChar() == want {
			l.advanceChar()
			tok.Type = typ
		}
	}
	tok.Text = l.input[startPos:l.position]
	return tok
}

// lexNumber reads digits with an optional fractional part. A point must be
// followed by at least one digit.
func (l *Lexer) lexNumber(start Position, hasSpaceBefore bool) Token {
	startPos := l.position
	typ := INTEGER

	l.readDigits()
	if l.currentChar() == '.' {
		l.advanceChar()
		if !l.readDigits() {
			return Token{Type: ILLEGAL, Text: l.input[startPos:l.position], Position: start, HasSpaceBefore: hasSpaceBefore}
		}
		typ = DECIMAL
	}
	return Token{Type: typ, Text: l.input[startPos:l.position], Position: start, HasSpaceBefore: hasSpaceBefore}
}

func (l *Lexer) lexIdentifier(start Position, hasSpaceBefore bool) Token {
	startPos := l.position
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch >= 128 || !isIdentPart[ch] {
			break
		}
		l.advanceChar()
	}
	return Token{Type: IDENTIFIER, Text: l.input[startPos:l.position], Position: start, HasSpaceBefore: hasSpaceBefore}
}

// readDigits reads a run of digits and reports whether any were found.
func (l *Lexer) readDigits() bool {
	startPos := l.position
	for l.position < len(l.input) {
		ch := l.currentChar()
		if ch >= 128 || !isDigit[ch] {
			break
		}
		l.advanceChar()
	}
	return l.position > startPos
}

func (l *Lexer) skipWhitespace() bool {
	start := l.position
	for l.position < len(l.input) {
		ch := l.input[l.position]
		if ch >= 128 || !isWhitespace[ch] {
			break
		}
		l.advanceChar()
	}
	return l.position > start
}

func (l *Lexer) peekIsDigit(ahead int) bool {
	i := l.position + ahead
	return i < len(l.input) && l.input[i] < 128 && isDigit[l.input[i]]
}

// currentChar returns the byte under the cursor, 0 at EOF.
func (l *Lexer) currentChar() byte {
	if l.position >= len(l.input) {
		return 0
	}
	return l.input[l.position]
}

// advanceChar moves one rune forward, tracking line and column.
func (l *Lexer) advanceChar() {
	if l.position >= len(l.input) {
		return
	}
	ch := l.input[l.position]
	if ch < 128 {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.position++
		return
	}
	_, size := utf8.DecodeRune(l.input[l.position:])
	if size <= 0 {
		size = 1
	}
	l.position += size
	l.column++
}
