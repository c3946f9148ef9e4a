// Package parser turns expression text into an expr tree.
//
// Grammar (binary operators are left-associative):
//
//	AddSub  → MulDiv (("+" | "-") MulDiv)*
//	MulDiv  → Unary (("*" | "/" | ":") Unary)*
//	Unary   → "-" Unary | Primary
//	Primary → INT "/" INT            fraction literal, written without spaces
//	        | INT INT "/" INT        mixed number
//	        | INT \frac{INT}{INT}    mixed number
//	        | NUMBER | IDENT
//	        | "(" AddSub ")" | "{" AddSub "}"
//	        | \frac{AddSub}{AddSub}
//
// Unary minus folds into the sign of the literal it precedes; there is no
// negation node.
package parser

import (
	"strings"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/runtime/lexer"
)

type parser struct {
	tokens []lexer.Token
	pos    int
	input  string
	config *ParserConfig
	depth  int
}

// Parse parses text into a tree. Any failure yields a *ParseError and no
// tree.
func Parse(text string, opts ...ParserOpt) (expr.Node, error) {
	config := &ParserConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(config)
	}

	p := &parser{
		tokens: lexer.Tokenize(text),
		input:  text,
		config: config,
	}

	n, err := p.addSub()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.EOF) {
		return nil, p.unexpected("an operator or end of input")
	}
	return n, nil
}

// MustParse parses text known to be valid. It panics otherwise.
func MustParse(text string, opts ...ParserOpt) expr.Node {
	n, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) addSub() (expr.Node, error) {
	left, err := p.mulDiv()
	if err != nil {
		return nil, err
	}
	for {
		var op expr.Op
		switch p.current().Type {
		case lexer.PLUS:
			op = expr.OpAdd
		case lexer.MINUS:
			op = expr.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.mulDiv()
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(op, left, right)
	}
}

func (p *parser) mulDiv() (expr.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		var op expr.Op
		switch p.current().Type {
		case lexer.MULTIPLY:
			op = expr.OpMul
		case lexer.DIVIDE, lexer.DIVSIGN:
			op = expr.OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(op, left, right)
	}
}

func (p *parser) unary() (expr.Node, error) {
	if !p.at(lexer.MINUS) {
		return p.primary()
	}
	minus := p.current()
	p.advance()
	if err := p.enter(minus); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	neg, ok := expr.Negate(operand)
	if !ok {
		return nil, p.errorf(ErrorInvalid, minus, "a minus sign can only precede a number")
	}
	return neg, nil
}

func (p *parser) primary() (expr.Node, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.INTEGER:
		return p.integer()

	case lexer.DECIMAL:
		p.advance()
		text := tok.String()
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
		return expr.NewNumber(text), nil

	case lexer.IDENTIFIER:
		if !p.config.variables {
			return nil, p.errorf(ErrorInvalid, tok, "unexpected name %s: only numbers are allowed", tok)
		}
		p.advance()
		return expr.NewVariable(tok.String()), nil

	case lexer.LPAREN:
		return p.group(lexer.RPAREN, "')'")

	case lexer.LBRACE:
		return p.group(lexer.RBRACE, "'}'")

	case lexer.FRAC:
		return p.frac()
	}
	return nil, p.unexpected("a number or '('")
}

// integer parses an integer literal and the fraction or mixed-number forms
// that start with one.
func (p *parser) integer() (expr.Node, error) {
	whole := p.current()
	p.advance()

	if p.tightFractionAhead() {
		num, den := p.takeTightFraction(whole)
		return expr.NewFraction(num, den), nil
	}

	// A second integer followed by a tight fraction: "1 1/2".
	if p.at(lexer.INTEGER) && p.current().HasSpaceBefore {
		num := p.current()
		p.advance()
		if p.tightFractionAhead() {
			n, d := p.takeTightFraction(num)
			return expr.NewMixed(whole.String(), n, d), nil
		}
		return nil, p.errorf(ErrorUnexpected, num, "expected an operator between %s and %s", whole, num)
	}

	// "1\frac{1}{2}"
	if p.at(lexer.FRAC) {
		fracTok := p.current()
		n, err := p.frac()
		if err != nil {
			return nil, err
		}
		f, ok := n.(*expr.Fraction)
		if !ok || f.IsNegative() {
			return nil, p.errorf(ErrorInvalid, fracTok, "a mixed number needs a fraction of whole numbers")
		}
		return expr.NewMixed(whole.String(), f.Num, f.Den), nil
	}

	return expr.NewNumber(whole.String()), nil
}

// tightFractionAhead reports whether the cursor sits on "/INT" with no
// whitespace on either side of the bar.
func (p *parser) tightFractionAhead() bool {
	bar := p.current()
	if bar.Type != lexer.DIVIDE || bar.HasSpaceBefore {
		return false
	}
	den := p.peek(1)
	return den.Type == lexer.INTEGER && !den.HasSpaceBefore
}

func (p *parser) takeTightFraction(num lexer.Token) (string, string) {
	p.advance() // '/'
	den := p.current()
	p.advance()
	return num.String(), den.String()
}

func (p *parser) group(closer lexer.TokenType, closerText string) (expr.Node, error) {
	open := p.current()
	p.advance()
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	inner, err := p.addSub()
	if err != nil {
		return nil, err
	}
	if !p.at(closer) {
		return nil, p.unexpected(closerText)
	}
	p.advance()
	return inner, nil
}

// frac parses \frac{num}{den}. Integer parts give a Fraction literal;
// anything else gives a division node over the parsed parts. That includes
// identifier parts: a ratio of variables is Binary(/), which patterns treat
// the same as a Fraction.
func (p *parser) frac() (expr.Node, error) {
	cmd := p.current()
	p.advance()
	if err := p.enter(cmd); err != nil {
		return nil, err
	}
	defer p.leave()

	num, err := p.braced()
	if err != nil {
		return nil, err
	}
	den, err := p.braced()
	if err != nil {
		return nil, err
	}

	n, nok := num.(*expr.Number)
	d, dok := den.(*expr.Number)
	if nok && dok && !n.IsDecimal() && !d.IsDecimal() && !d.IsNegative() {
		return expr.NewFraction(n.Value, d.Value), nil
	}
	return expr.NewBinary(expr.OpDiv, num, den), nil
}

func (p *parser) braced() (expr.Node, error) {
	if !p.at(lexer.LBRACE) {
		return nil, p.unexpected("'{' after \\frac")
	}
	p.advance()
	inner, err := p.addSub()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.RBRACE) {
		return nil, p.unexpected("'}'")
	}
	p.advance()
	return inner, nil
}

func (p *parser) enter(tok lexer.Token) error {
	p.depth++
	if p.depth > p.config.maxDepth {
		return p.errorf(ErrorInvalid, tok, "expression nests deeper than %d levels", p.config.maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// at checks if current token matches the given type
func (p *parser) at(typ lexer.TokenType) bool {
	return p.current().Type == typ
}

// current returns the current token
func (p *parser) current() lexer.Token {
	return p.peek(0)
}

func (p *parser) peek(ahead int) lexer.Token {
	i := p.pos + ahead
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

// advance moves to the next token
func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}
