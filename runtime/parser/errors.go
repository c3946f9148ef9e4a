package parser

import (
	"fmt"
	"strings"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/lexer"
)

// ErrorType represents different categories of parsing errors
type ErrorType int

const (
	ErrorSyntax ErrorType = iota
	ErrorUnexpected
	ErrorMissing
	ErrorInvalid
)

func (e ErrorType) String() string {
	switch e {
	case ErrorSyntax:
		return "syntax error"
	case ErrorUnexpected:
		return "unexpected token"
	case ErrorMissing:
		return "missing"
	case ErrorInvalid:
		return "invalid"
	default:
		return "error"
	}
}

// ParseError is a parse failure with its location. It matches
// errors.ErrParse under errors.Is.
type ParseError struct {
	Type    ErrorType
	Message string
	Token   lexer.Token
	Input   string
}

// Error returns the formatted error message with a code snippet
func (e *ParseError) Error() string {
	snippet := e.createCodeSnippet()
	if snippet == "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s\n%s", e.Type, e.Message, snippet)
}

// Unwrap ties every parse failure to the PARSE_ERROR code.
func (e *ParseError) Unwrap() error {
	return steperr.ErrParse
}

// Position returns where the error was detected.
func (e *ParseError) Position() lexer.Position {
	return e.Token.Position
}

// createCodeSnippet creates a code snippet showing the error location
func (e *ParseError) createCodeSnippet() string {
	pos := e.Token.Position
	if e.Input == "" || pos.Line == 0 {
		return ""
	}

	lines := strings.Split(e.Input, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	lineContent := lines[pos.Line-1]

	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", pos.Line, pos.Column))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", pos.Line, lineContent))
	snippet.WriteString("   | ")
	if pos.Column > 0 && pos.Column <= len([]rune(lineContent))+1 {
		snippet.WriteString(strings.Repeat(" ", pos.Column-1) + "^")
	}
	return snippet.String()
}

// describe renders a token for messages.
func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.INTEGER, lexer.DECIMAL:
		return fmt.Sprintf("number %s", tok)
	case lexer.IDENTIFIER:
		return fmt.Sprintf("name %s", tok)
	default:
		return fmt.Sprintf("%q", tok.String())
	}
}

func (p *parser) errorf(typ ErrorType, tok lexer.Token, format string, args ...any) *ParseError {
	return &ParseError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Input:   p.input,
	}
}

// unexpected reports a token that cannot start or continue the construct.
func (p *parser) unexpected(expected string) *ParseError {
	tok := p.current()
	if tok.Type == lexer.EOF {
		return p.errorf(ErrorMissing, tok, "expected %s, got end of input", expected)
	}
	if tok.Type == lexer.ILLEGAL {
		if strings.HasPrefix(tok.String(), `\`) {
			return p.errorf(ErrorInvalid, tok, "unknown command %s", tok)
		}
		return p.errorf(ErrorInvalid, tok, "invalid input %q", tok.String())
	}
	return p.errorf(ErrorUnexpected, tok, "expected %s, got %s", expected, describe(tok))
}
