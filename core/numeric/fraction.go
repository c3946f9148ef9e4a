package numeric

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/aledsdavies/mathstep/core/invariant"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

// Fraction is an integer ratio. Operations do not reduce unless asked to;
// several primitives must show unreduced results (12 / 5 stays 12/5, a/b × d/c
// is not simplified).
type Fraction struct {
	Num *big.Int
	Den *big.Int
}

// NewFraction copies num and den.
func NewFraction(num, den *big.Int) Fraction {
	return Fraction{Num: new(big.Int).Set(num), Den: new(big.Int).Set(den)}
}

// ParseInteger parses an optionally signed integer literal.
func ParseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	body := strings.TrimPrefix(s, "-")
	if body == "" || !allDigits(body) {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

// IsIntegerText reports whether s is an integer literal (no decimal point).
func IsIntegerText(s string) bool {
	_, ok := ParseInteger(s)
	return ok
}

// ParseFraction parses integer numerator and denominator strings.
func ParseFraction(num, den string) (Fraction, error) {
	n, ok := ParseInteger(num)
	if !ok {
		return Fraction{}, fmt.Errorf("invalid numerator %q", num)
	}
	d, ok := ParseInteger(den)
	if !ok {
		return Fraction{}, fmt.Errorf("invalid denominator %q", den)
	}
	return Fraction{Num: n, Den: d}, nil
}

// Canonical moves a negative denominator's sign onto the numerator.
func (f Fraction) Canonical() Fraction {
	if f.Den.Sign() >= 0 {
		return f
	}
	return Fraction{Num: new(big.Int).Neg(f.Num), Den: new(big.Int).Neg(f.Den)}
}

// Reduce divides numerator and denominator by their gcd.
func (f Fraction) Reduce() Fraction {
	c := f.Canonical()
	g := GCD(c.Num, c.Den)
	if g.Sign() == 0 || g.Cmp(bigOne) == 0 {
		return c
	}
	return Fraction{Num: new(big.Int).Quo(c.Num, g), Den: new(big.Int).Quo(c.Den, g)}
}

// Scale multiplies numerator and denominator by factor.
func (f Fraction) Scale(factor *big.Int) Fraction {
	invariant.Precondition(factor.Sign() > 0, "scale factor must be positive")
	return Fraction{Num: new(big.Int).Mul(f.Num, factor), Den: new(big.Int).Mul(f.Den, factor)}
}

// Mul forms the numerator and denominator products.
func (f Fraction) Mul(o Fraction) Fraction {
	return Fraction{Num: new(big.Int).Mul(f.Num, o.Num), Den: new(big.Int).Mul(f.Den, o.Den)}
}

// Reciprocal swaps numerator and denominator.
func (f Fraction) Reciprocal() (Fraction, error) {
	if f.Num.Sign() == 0 {
		return Fraction{}, steperr.NewDivisionByZero("1")
	}
	return Fraction{Num: new(big.Int).Set(f.Den), Den: new(big.Int).Set(f.Num)}.Canonical(), nil
}

func (f Fraction) IsZero() bool {
	return f.Num.Sign() == 0
}

// Parts returns numerator and denominator literal strings.
func (f Fraction) Parts() (string, string) {
	return f.Num.String(), f.Den.String()
}

func (f Fraction) String() string {
	return f.Num.String() + "/" + f.Den.String()
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// LCM returns the non-negative least common multiple of a and b; zero if
// either is zero.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g := GCD(a, b)
	l := new(big.Int).Quo(new(big.Int).Abs(a), g)
	return l.Mul(l, new(big.Int).Abs(b))
}

// MixedToImproper converts whole num/den to an improper fraction. The sign of
// whole applies to the whole value: -1 1/2 is -3/2.
func MixedToImproper(whole, num, den string) (Fraction, error) {
	w, ok := ParseInteger(whole)
	if !ok {
		return Fraction{}, fmt.Errorf("invalid whole part %q", whole)
	}
	f, err := ParseFraction(num, den)
	if err != nil {
		return Fraction{}, err
	}
	neg := strings.HasPrefix(strings.TrimSpace(whole), "-")
	abs := new(big.Int).Abs(w)
	n := new(big.Int).Mul(abs, f.Den)
	n.Add(n, f.Num)
	if neg {
		n.Neg(n)
	}
	return Fraction{Num: n, Den: f.Den}, nil
}
