package parser

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// DefaultMaxDepth bounds bracket and unary-minus nesting.
const DefaultMaxDepth = 256

// ParserConfig holds parser configuration
type ParserConfig struct {
	variables bool
	maxDepth  int
}

// WithVariables accepts identifiers as Variable nodes. Rule patterns and
// result templates are parsed this way; learner input is not.
func WithVariables() ParserOpt {
	return func(c *ParserConfig) {
		c.variables = true
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) ParserOpt {
	return func(c *ParserConfig) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}
