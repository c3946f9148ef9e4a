package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/mathstep/core/expr"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

func TestDefaultCatalogLoads(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "v1.0.0", reg.Version())
	assert.Greater(t, reg.Len(), 20)

	rule, ok := reg.Lookup("frac-add-same-den")
	require.True(t, ok)
	assert.Equal(t, ClickOperator, rule.Click)
	assert.Equal(t, expr.OpAdd, rule.Operator)
	assert.Equal(t, OperandFraction, rule.Left)
	assert.Equal(t, []Guard{GuardDenominatorsEqual}, rule.Require)
	assert.Equal(t, AutoApply, rule.Disposition)
	assert.Equal(t, "calc(a + b)/c", rule.Result)
	assert.Equal(t, VarInteger, rule.Variables["c"])
	assert.Equal(t, []string{"a", "b", "c"}, rule.VariableNames())

	_, ok = reg.Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestEveryPrimitiveHasARow(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, id := range KnownPrimitives() {
		rows, ok := reg.Primitive(id)
		if assert.True(t, ok, "primitive %s has no catalog row", id) {
			for _, r := range rows {
				assert.Equal(t, id, r.Primitive)
			}
		}
	}
}

func TestAliasedPrimitiveRows(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	rows, ok := reg.Primitive(PrimFracLCDScale)
	require.True(t, ok)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"frac-lcd-scale-add", "frac-lcd-scale-sub"}, ids)
}

func TestRegistryGuardsAreUsedGuards(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	used := reg.Guards()
	assert.Contains(t, used, GuardDivisorZero)
	assert.Contains(t, used, GuardOppositeAddendDenominator)
	assert.Contains(t, used, GuardOperandZeroDenominator)
	assert.NotContains(t, used, GuardLeftNegative)
}

func TestRulesReturnsCopy(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	rules := reg.Rules()
	rules[0].ID = "mutated"
	assert.NotEqual(t, "mutated", reg.Rules()[0].ID)
}

const minimalRow = `
  - id: r1
    click: operator
    operator: "+"
    disposition: auto-apply
    primitive: int-add
`

func TestLoadRejectsBadCatalogs(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains string
	}{
		{
			name:     "not yaml",
			doc:      "version: [",
			contains: "decode catalog",
		},
		{
			name:     "schema violation",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: tap\n    disposition: auto-apply\n    primitive: int-add\n",
			contains: "does not match schema",
		},
		{
			name:     "unknown field",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: number\n    disposition: confirm\n    primitive: int-add\n    priority: 3\n",
			contains: "does not match schema",
		},
		{
			name:     "unsupported major",
			doc:      "version: \"2.0.0\"\nrules:" + minimalRow,
			contains: "not supported",
		},
		{
			name:     "unknown primitive with suggestion",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: number\n    disposition: confirm\n    primitive: int-ad\n",
			contains: `did you mean "int-add"`,
		},
		{
			name:     "unknown guard",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: number\n    require: [divisor-nonzer]\n    disposition: confirm\n    primitive: int-add\n",
			contains: `unknown guard "divisor-nonzer"`,
		},
		{
			name:     "duplicate id",
			doc:      "version: \"1.0.0\"\nrules:" + minimalRow + minimalRow,
			contains: "duplicate rule id",
		},
		{
			name:     "required and forbidden",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: number\n    require: [clicked-one]\n    forbid: [clicked-one]\n    disposition: confirm\n    primitive: int-add\n",
			contains: "both required and forbidden",
		},
		{
			name:     "result without pattern",
			doc:      "version: \"1.0.0\"\nrules:\n  - id: r1\n    click: number\n    result: a\n    disposition: confirm\n    primitive: int-add\n",
			contains: "need a pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, steperr.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidateDocument(t *testing.T) {
	row := map[string]any{"id": "r1", "click": "number", "disposition": "confirm", "primitive": "int-add"}
	doc := map[string]any{"version": "1.0.0", "rules": []any{row}}
	require.NoError(t, validateDocument(doc))

	row["click"] = "tap"
	err := validateDocument(doc)
	assert.ErrorIs(t, err, steperr.ErrInvalidCatalog)
}

func TestLoadMinimalCatalog(t *testing.T) {
	reg, err := Load([]byte("version: \"1.2.0\"\nrules:" + minimalRow))
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", reg.Version())
	assert.Equal(t, 1, reg.Len())
	assert.Empty(t, reg.Guards())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0.0\"\nrules:"+minimalRow), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	se := err.(*steperr.StepError)
	p, ok := se.GetContext("path")
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(p.(string), "missing.yaml"))
}

func TestGuardSetIsTotal(t *testing.T) {
	var gs GuardSet
	m := gs.Map()
	assert.Len(t, m, len(AllGuards()))
	for _, name := range GuardNames() {
		v, ok := m[name]
		assert.True(t, ok, name)
		assert.False(t, v, name)
	}

	gs.Set(GuardRemainderZero, true)
	assert.True(t, gs.Has(GuardRemainderZero))
	assert.Equal(t, []Guard{GuardRemainderZero}, gs.True())

	g, ok := ParseGuard("remainder-zero")
	require.True(t, ok)
	assert.Equal(t, GuardRemainderZero, g)
	assert.Equal(t, "remainder-zero", g.String())
}

func TestRuleAcceptsAndSpecificity(t *testing.T) {
	r := Rule{
		Operator: expr.OpDiv,
		Left:     OperandInt,
		Right:    OperandInt,
		Require:  []Guard{GuardDivisorNonzero, GuardRemainderZero},
		Forbid:   []Guard{GuardLeftNegative},
	}
	assert.Equal(t, 6, r.Specificity())

	var gs GuardSet
	assert.False(t, r.Accepts(gs))
	gs.Set(GuardDivisorNonzero, true)
	gs.Set(GuardRemainderZero, true)
	assert.True(t, r.Accepts(gs))
	gs.Set(GuardLeftNegative, true)
	assert.False(t, r.Accepts(gs))

	r.Pattern = "a / b"
	assert.Equal(t, 8, r.Specificity())
}

func TestEnumParsing(t *testing.T) {
	k, err := ParseClickKind("fractionBar")
	require.NoError(t, err)
	assert.Equal(t, ClickFractionBar, k)
	_, err = ParseClickKind("tap")
	assert.Error(t, err)

	ot, err := ParseOperandType("")
	require.NoError(t, err)
	assert.Equal(t, OperandUnspecified, ot)
	assert.Equal(t, "unspecified", ot.String())

	tg, err := ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetAction, tg)

	d, err := ParseDisposition("choice")
	require.NoError(t, err)
	assert.Equal(t, Choice, d)

	assert.Equal(t, "int-add", SuggestPrimitive("intadd"))
	assert.Equal(t, "frac-mul", SuggestPrimitive("frac-mull"))
	assert.Equal(t, "", SuggestPrimitive("zzzz"))
	assert.True(t, PrimDecDiv.NeedsExactArithmetic())
	assert.False(t, PrimFracAddSameDen.NeedsExactArithmetic())
	assert.False(t, PrimitiveID("nope").IsKnown())
}
