// Package numeric implements the exact arithmetic behind the executors:
// fixed-point decimals and integer fractions over arbitrary-precision
// integers. Nothing here touches binary floating point.
package numeric

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aledsdavies/mathstep/core/invariant"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

// DefaultPrecision is the number of extra decimal digits Div searches before
// declaring a quotient non-terminating.
const DefaultPrecision = 10

// Decimal is a fixed-point value Unscaled × 10^-Scale. "12.50" decomposes to
// (1250, 2).
type Decimal struct {
	Unscaled *big.Int
	Scale    int
}

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// ParseDecimal decomposes a literal such as "-12.50" or "7".
func ParseDecimal(s string) (Decimal, error) {
	text := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	intPart, fracPart, hasPoint := strings.Cut(text, ".")
	if intPart == "" && hasPoint {
		intPart = "0"
	}
	if intPart == "" || !allDigits(intPart) || (hasPoint && (fracPart == "" || !allDigits(fracPart))) {
		return Decimal{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	u, ok := new(big.Int).SetString(intPart+fracPart, 10)
	invariant.Invariant(ok, "digit string %q must parse", intPart+fracPart)
	if neg {
		u.Neg(u)
	}
	return Decimal{Unscaled: u, Scale: len(fracPart)}, nil
}

// MustDecimal parses a literal known to be well-formed.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	invariant.ExpectNoError(err, "decimal literal")
	return d
}

// NewDecimalFromInt wraps an integer with scale zero.
func NewDecimalFromInt(i *big.Int) Decimal {
	return Decimal{Unscaled: new(big.Int).Set(i), Scale: 0}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pow10(n int) *big.Int {
	invariant.Precondition(n >= 0, "power of ten must be non-negative, got %d", n)
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}

// rescale returns the unscaled value of d expressed at a larger scale.
func (d Decimal) rescale(scale int) *big.Int {
	invariant.Precondition(scale >= d.Scale, "rescale must not drop digits")
	return new(big.Int).Mul(d.Unscaled, pow10(scale-d.Scale))
}

func (d Decimal) Sign() int {
	return d.Unscaled.Sign()
}

func (d Decimal) IsZero() bool {
	return d.Unscaled.Sign() == 0
}

// IsInteger reports whether d has no non-zero fractional digits.
func (d Decimal) IsInteger() bool {
	if d.Scale == 0 {
		return true
	}
	return new(big.Int).Rem(d.Unscaled, pow10(d.Scale)).Sign() == 0
}

// Add rescales both operands to the larger scale and adds.
func (d Decimal) Add(o Decimal) Decimal {
	scale := max(d.Scale, o.Scale)
	return Decimal{Unscaled: new(big.Int).Add(d.rescale(scale), o.rescale(scale)), Scale: scale}
}

// Sub rescales both operands to the larger scale and subtracts.
func (d Decimal) Sub(o Decimal) Decimal {
	scale := max(d.Scale, o.Scale)
	return Decimal{Unscaled: new(big.Int).Sub(d.rescale(scale), o.rescale(scale)), Scale: scale}
}

// Mul multiplies unscaled values and adds scales.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{Unscaled: new(big.Int).Mul(d.Unscaled, o.Unscaled), Scale: d.Scale + o.Scale}
}

// Div finds the terminating decimal quotient d / o. The dividend is widened by
// increasing powers of ten, up to precision extra digits, until the divisor
// divides it exactly. A quotient that needs more digits is reported as a
// NonTerminatingDecimal failure rather than rounded.
func (d Decimal) Div(o Decimal, precision int) (Decimal, error) {
	if o.IsZero() {
		return Decimal{}, steperr.NewDivisionByZero(d.String())
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	num := new(big.Int).Set(d.Unscaled)
	rem := new(big.Int)
	for k := 0; k <= precision; k++ {
		q := new(big.Int)
		q.QuoRem(num, o.Unscaled, rem)
		if rem.Sign() == 0 {
			scale := d.Scale - o.Scale + k
			if scale < 0 {
				q.Mul(q, pow10(-scale))
				scale = 0
			}
			return Decimal{Unscaled: q, Scale: scale}, nil
		}
		num.Mul(num, bigTen)
	}
	return Decimal{}, steperr.NewNonTerminatingDecimal(d.String(), o.String(), precision)
}

// QuoRem divides two integral decimals, returning quotient and remainder.
func (d Decimal) QuoRem(o Decimal) (*big.Int, *big.Int, error) {
	invariant.Precondition(d.IsInteger() && o.IsInteger(), "QuoRem needs integer operands")
	if o.IsZero() {
		return nil, nil, steperr.NewDivisionByZero(d.String())
	}
	a, b := d.Integer(), o.Integer()
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(a, b, r)
	return q, r, nil
}

// Integer returns the integral value of d; fractional digits must be zero.
func (d Decimal) Integer() *big.Int {
	invariant.Precondition(d.IsInteger(), "decimal %s is not integral", d)
	if d.Scale == 0 {
		return new(big.Int).Set(d.Unscaled)
	}
	return new(big.Int).Quo(d.Unscaled, pow10(d.Scale))
}

// Normalize trims trailing fractional zeros.
func (d Decimal) Normalize() Decimal {
	u := new(big.Int).Set(d.Unscaled)
	scale := d.Scale
	r := new(big.Int)
	for scale > 0 {
		q := new(big.Int)
		q.QuoRem(u, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		u = q
		scale--
	}
	return Decimal{Unscaled: u, Scale: scale}
}

// String renders the value with trailing fractional zeros trimmed and never a
// bare trailing point. Zero renders as "0".
func (d Decimal) String() string {
	n := d.Normalize()
	digits := new(big.Int).Abs(n.Unscaled).String()
	if n.Scale > 0 {
		if len(digits) <= n.Scale {
			digits = strings.Repeat("0", n.Scale-len(digits)+1) + digits
		}
		cut := len(digits) - n.Scale
		digits = digits[:cut] + "." + digits[cut:]
	}
	if n.Unscaled.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

// ToFraction converts d to a fraction in lowest terms; the denominator is the
// power of ten matching the scale, reduced by the gcd. The sign stays on the
// numerator.
func (d Decimal) ToFraction() Fraction {
	return NewFraction(d.Unscaled, pow10(d.Scale)).Reduce()
}
