package numeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in       string
		unscaled int64
		scale    int
		wantErr  bool
	}{
		{in: "12.50", unscaled: 1250, scale: 2},
		{in: "7", unscaled: 7, scale: 0},
		{in: "-0.5", unscaled: -5, scale: 1},
		{in: ".25", unscaled: 25, scale: 2},
		{in: "1.", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDecimal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(tt.unscaled).String(), d.Unscaled.String())
			assert.Equal(t, tt.scale, d.Scale)
		})
	}
}

func TestDecimalString(t *testing.T) {
	tests := map[string]string{
		"12.50":  "12.5",
		"3.00":   "3",
		"0.05":   "0.05",
		"-0.0":   "0",
		"-1.250": "-1.25",
		"100":    "100",
	}
	for in, want := range tests {
		assert.Equal(t, want, MustDecimal(in).String(), in)
	}
}

func TestDecimalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Decimal
		want string
	}{
		{"add aligns scales", MustDecimal("1.5").Add(MustDecimal("2.25")), "3.75"},
		{"add carries", MustDecimal("0.7").Add(MustDecimal("0.3")), "1"},
		{"sub to negative", MustDecimal("1.2").Sub(MustDecimal("3.45")), "-2.25"},
		{"mul adds scales", MustDecimal("1.5").Mul(MustDecimal("0.2")), "0.3"},
		{"mul integers", MustDecimal("12").Mul(MustDecimal("3")), "36"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got.String())
		})
	}
}

func TestDecimalDiv(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"12.5", "0.5", "25"},
		{"1.5", "0.25", "6"},
		{"12.5", "5", "2.5"},
		{"5", "0.5", "10"},
		{"1", "8", "0.125"},
		{"-3", "4", "-0.75"},
		{"0", "7", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			got, err := MustDecimal(tt.a).Div(MustDecimal(tt.b), DefaultPrecision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDecimalDivFailures(t *testing.T) {
	_, err := MustDecimal("1").Div(MustDecimal("3"), DefaultPrecision)
	assert.ErrorIs(t, err, steperr.ErrNonTerminatingDecimal)

	_, err = MustDecimal("2.5").Div(MustDecimal("0.0"), DefaultPrecision)
	assert.ErrorIs(t, err, steperr.ErrDivisionByZero)

	// 1/1024 needs ten digits; a tighter limit refuses it.
	got, err := MustDecimal("1").Div(MustDecimal("1024"), 10)
	require.NoError(t, err)
	assert.Equal(t, "0.0009765625", got.String())
	_, err = MustDecimal("1").Div(MustDecimal("1024"), 4)
	assert.ErrorIs(t, err, steperr.ErrNonTerminatingDecimal)
}

func TestDecimalToFraction(t *testing.T) {
	tests := map[string]string{
		"0.3":   "3/10",
		"1.25":  "5/4",
		"12.5":  "25/2",
		"0.125": "1/8",
		"-0.5":  "-1/2",
		"4":     "4/1",
	}
	for in, want := range tests {
		assert.Equal(t, want, MustDecimal(in).ToFraction().String(), in)
	}
}

func TestDecimalQuoRem(t *testing.T) {
	q, r, err := MustDecimal("15").QuoRem(MustDecimal("4"))
	require.NoError(t, err)
	assert.Equal(t, "3", q.String())
	assert.Equal(t, "3", r.String())

	_, _, err = MustDecimal("15").QuoRem(MustDecimal("0"))
	assert.ErrorIs(t, err, steperr.ErrDivisionByZero)

	assert.True(t, MustDecimal("3.00").IsInteger())
	assert.False(t, MustDecimal("3.01").IsInteger())
}

func TestFractionOps(t *testing.T) {
	f, err := ParseFraction("6", "8")
	require.NoError(t, err)
	assert.Equal(t, "6/8", f.String(), "no implicit reduction")
	assert.Equal(t, "3/4", f.Reduce().String())

	neg, err := ParseFraction("3", "-4")
	require.NoError(t, err)
	assert.Equal(t, "-3/4", neg.Canonical().String())

	assert.Equal(t, "9/12", mustFraction(t, "3", "4").Scale(big.NewInt(3)).String())
	assert.Equal(t, "8/15", mustFraction(t, "2", "3").Mul(mustFraction(t, "4", "5")).String())

	r, err := mustFraction(t, "-2", "3").Reciprocal()
	require.NoError(t, err)
	assert.Equal(t, "-3/2", r.String())

	_, err = mustFraction(t, "0", "3").Reciprocal()
	assert.ErrorIs(t, err, steperr.ErrDivisionByZero)

	_, err = ParseFraction("1.5", "2")
	assert.Error(t, err)
}

func TestGCDAndLCM(t *testing.T) {
	assert.Equal(t, "6", GCD(big.NewInt(12), big.NewInt(-18)).String())
	assert.Equal(t, "12", LCM(big.NewInt(4), big.NewInt(6)).String())
	assert.Equal(t, "0", LCM(big.NewInt(0), big.NewInt(6)).String())
}

func TestMixedToImproper(t *testing.T) {
	tests := []struct {
		whole, num, den string
		want            string
	}{
		{"1", "1", "2", "3/2"},
		{"2", "3", "4", "11/4"},
		{"-1", "1", "2", "-3/2"},
		{"0", "1", "3", "1/3"},
	}
	for _, tt := range tests {
		got, err := MixedToImproper(tt.whole, tt.num, tt.den)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.String())
	}

	_, err := MixedToImproper("x", "1", "2")
	assert.Error(t, err)
}

func mustFraction(t *testing.T, num, den string) Fraction {
	t.Helper()
	f, err := ParseFraction(num, den)
	require.NoError(t, err)
	return f
}
