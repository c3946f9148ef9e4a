package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

func TestStepErrorMatchesSentinelByCode(t *testing.T) {
	err := steperr.NewDivisionByZero("5")

	assert.True(t, stderrors.Is(err, steperr.ErrDivisionByZero))
	assert.False(t, stderrors.Is(err, steperr.ErrNonTerminatingDecimal))

	wrapped := fmt.Errorf("running step: %w", err)
	assert.True(t, stderrors.Is(wrapped, steperr.ErrDivisionByZero))

	code, ok := steperr.CodeOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, steperr.CodeDivisionByZero, code)
}

func TestStepErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *steperr.StepError
		want string
	}{
		{
			name: "address",
			err:  steperr.NewAddressNotFound("0.1.1"),
			want: `ADDRESS_NOT_FOUND: address "0.1.1" does not resolve in this tree`,
		},
		{
			name: "unknown with suggestion",
			err:  steperr.NewUnknownPrimitive("int-ad", "int-add"),
			want: `UNKNOWN_PRIMITIVE: unknown primitive "int-ad" (did you mean "int-add"?)`,
		},
		{
			name: "unknown without suggestion",
			err:  steperr.NewUnknownPrimitive("zzz", ""),
			want: `UNKNOWN_PRIMITIVE: unknown primitive "zzz"`,
		},
		{
			name: "non terminating",
			err:  steperr.NewNonTerminatingDecimal("1", "3", 10),
			want: "NON_TERMINATING_DECIMAL: 1 / 3 does not terminate within 10 decimal digits",
		},
		{
			name: "bare sentinel",
			err:  steperr.ErrParse,
			want: "PARSE_ERROR: PARSE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapAndContext(t *testing.T) {
	cause := stderrors.New("yaml: line 3")
	err := steperr.NewInvalidCatalog("decode catalog", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: yaml: line 3")

	err.WithContext("file", "catalog.yaml")
	v, ok := err.GetContext("file")
	require.True(t, ok)
	assert.Equal(t, "catalog.yaml", v)

	assert.True(t, steperr.IsCode(err, steperr.CodeInvalidCatalog))
	assert.False(t, steperr.IsCode(cause, steperr.CodeInvalidCatalog))
}

func TestGuardMismatchCarriesGuard(t *testing.T) {
	err := steperr.NewGuardMismatch("remainder-zero", "15 / 4 leaves a remainder")
	guard, ok := err.GetContext("guard")
	require.True(t, ok)
	assert.Equal(t, "remainder-zero", guard)
	assert.ErrorIs(t, err, steperr.ErrGuardMismatch)
}
