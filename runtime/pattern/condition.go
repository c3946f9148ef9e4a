package pattern

import (
	"strings"

	"github.com/aledsdavies/mathstep/core/expr"
	"github.com/aledsdavies/mathstep/core/numeric"
	"github.com/aledsdavies/mathstep/runtime/lexer"
)

// Condition is a comparison between two pattern variables or literals,
// written "b != d" or "a == c".
type Condition struct {
	text        string
	negated     bool
	left, right string
	recognized  bool
}

// ParseCondition reads a condition. Text it does not recognize yields a
// condition that always holds.
func ParseCondition(text string) Condition {
	c := Condition{text: strings.TrimSpace(text)}
	for _, op := range []string{"!=", "=="} {
		l, r, ok := strings.Cut(c.text, op)
		if !ok {
			continue
		}
		l, r = strings.TrimSpace(l), strings.TrimSpace(r)
		if !isOperand(l) || !isOperand(r) {
			return c
		}
		c.left, c.right = l, r
		c.negated = op == "!="
		c.recognized = true
		return c
	}
	return c
}

func (c Condition) String() string { return c.text }

// Recognized reports whether the text parsed as a comparison.
func (c Condition) Recognized() bool { return c.recognized }

// Holds evaluates the condition. A comparison that names an unbound
// variable does not hold.
func (c Condition) Holds(b Bindings) bool {
	if !c.recognized {
		return true
	}
	l, ok := operandValue(c.left, b)
	if !ok {
		return false
	}
	r, ok := operandValue(c.right, b)
	if !ok {
		return false
	}
	return ValueEqual(l, r) != c.negated
}

// CheckCondition parses and evaluates text against b.
func CheckCondition(b Bindings, text string) bool {
	return ParseCondition(text).Holds(b)
}

func isOperand(s string) bool {
	if numeric.IsIntegerText(s) {
		return true
	}
	toks := lexer.Tokenize(s)
	return len(toks) == 2 && toks[0].Type == lexer.IDENTIFIER && toks[1].Type == lexer.EOF
}

func operandValue(s string, b Bindings) (expr.Node, bool) {
	if numeric.IsIntegerText(s) {
		return expr.NewNumber(s), true
	}
	n, ok := b[s]
	return n, ok
}
