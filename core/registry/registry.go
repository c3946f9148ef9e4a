// Package registry holds the closed, curated catalog of rewrite rules. A
// Registry is loaded once, validated in full, and read-only afterwards; it is
// passed explicitly to whatever needs it.
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/mathstep/core/expr"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// SupportedMajor is the catalog major version this build understands.
const SupportedMajor = "v1"

// Registry is an immutable rule catalog.
type Registry struct {
	version     string
	rules       []Rule
	byID        map[string]int
	byPrimitive map[PrimitiveID][]int
	guards      []Guard
}

type catalogDoc struct {
	Version string       `yaml:"version"`
	Rules   []catalogRow `yaml:"rules"`
}

type catalogRow struct {
	ID          string            `yaml:"id"`
	Domain      string            `yaml:"domain"`
	Click       string            `yaml:"click"`
	Operator    string            `yaml:"operator"`
	Left        string            `yaml:"left"`
	Right       string            `yaml:"right"`
	Require     []string          `yaml:"require"`
	Forbid      []string          `yaml:"forbid"`
	Disposition string            `yaml:"disposition"`
	Label       string            `yaml:"label"`
	Primitive   string            `yaml:"primitive"`
	Target      string            `yaml:"target"`
	Pattern     string            `yaml:"pattern"`
	Condition   string            `yaml:"condition"`
	Result      string            `yaml:"result"`
	Variables   map[string]string `yaml:"variables"`
}

// Default loads the catalog compiled into the binary.
func Default() (*Registry, error) {
	return Load(embeddedCatalog)
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, steperr.NewInvalidCatalog("read catalog", err).WithContext("path", path)
	}
	reg, err := Load(data)
	if err != nil {
		if se, ok := err.(*steperr.StepError); ok {
			se.WithContext("path", path)
		}
		return nil, err
	}
	return reg, nil
}

// Load decodes, schema-validates and checks a YAML catalog document. Unknown
// guards, primitives, click kinds, operand types and dispositions are load
// errors, as are duplicate rule ids.
func Load(data []byte) (*Registry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, steperr.NewInvalidCatalog("decode catalog", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, steperr.NewInvalidCatalog("decode catalog", err)
	}

	v := doc.Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return nil, steperr.NewInvalidCatalog(fmt.Sprintf("catalog version %q is not semver", doc.Version), nil)
	}
	if semver.Major(v) != SupportedMajor {
		return nil, steperr.NewInvalidCatalog(
			fmt.Sprintf("catalog version %s is not supported (want %s.x)", doc.Version, SupportedMajor), nil)
	}

	reg := &Registry{
		version:     v,
		rules:       make([]Rule, 0, len(doc.Rules)),
		byID:        make(map[string]int, len(doc.Rules)),
		byPrimitive: make(map[PrimitiveID][]int),
	}
	var used GuardSet
	for _, row := range doc.Rules {
		rule, err := row.toRule()
		if err != nil {
			return nil, err
		}
		if _, dup := reg.byID[rule.ID]; dup {
			return nil, steperr.NewInvalidCatalog(fmt.Sprintf("duplicate rule id %q", rule.ID), nil)
		}
		idx := len(reg.rules)
		reg.rules = append(reg.rules, rule)
		reg.byID[rule.ID] = idx
		reg.byPrimitive[rule.Primitive] = append(reg.byPrimitive[rule.Primitive], idx)
		for _, g := range rule.Require {
			used.Set(g, true)
		}
		for _, g := range rule.Forbid {
			used.Set(g, true)
		}
	}
	reg.guards = used.True()
	return reg, nil
}

func (row catalogRow) toRule() (Rule, error) {
	fail := func(format string, args ...any) (Rule, error) {
		return Rule{}, steperr.NewInvalidCatalog(fmt.Sprintf("rule %q: ", row.ID)+fmt.Sprintf(format, args...), nil).
			WithContext("rule", row.ID)
	}

	r := Rule{
		ID:        row.ID,
		Domain:    row.Domain,
		Label:     row.Label,
		Pattern:   strings.TrimSpace(row.Pattern),
		Condition: strings.TrimSpace(row.Condition),
		Result:    strings.TrimSpace(row.Result),
	}

	var err error
	if r.Click, err = ParseClickKind(row.Click); err != nil {
		return fail("%v", err)
	}
	if row.Operator != "" {
		op, ok := expr.ParseOp(row.Operator)
		if !ok {
			return fail("unknown operator %q", row.Operator)
		}
		r.Operator = op
	}
	if r.Left, err = ParseOperandType(row.Left); err != nil {
		return fail("left: %v", err)
	}
	if r.Right, err = ParseOperandType(row.Right); err != nil {
		return fail("right: %v", err)
	}
	if r.Disposition, err = ParseDisposition(row.Disposition); err != nil {
		return fail("%v", err)
	}
	if r.Target, err = ParseTarget(row.Target); err != nil {
		return fail("%v", err)
	}

	r.Primitive = PrimitiveID(row.Primitive)
	if !r.Primitive.IsKnown() {
		if s := SuggestPrimitive(row.Primitive); s != "" {
			return fail("unknown primitive %q (did you mean %q?)", row.Primitive, s)
		}
		return fail("unknown primitive %q", row.Primitive)
	}

	if r.Require, err = parseGuards(row.Require); err != nil {
		return fail("require: %v", err)
	}
	if r.Forbid, err = parseGuards(row.Forbid); err != nil {
		return fail("forbid: %v", err)
	}
	for _, g := range r.Require {
		for _, f := range r.Forbid {
			if g == f {
				return fail("guard %s is both required and forbidden", g)
			}
		}
	}

	if (r.Condition != "" || r.Result != "" || len(row.Variables) > 0) && r.Pattern == "" {
		return fail("condition, result and variables need a pattern")
	}
	if len(row.Variables) > 0 {
		r.Variables = make(map[string]VarType, len(row.Variables))
		for name, ts := range row.Variables {
			vt, err := ParseVarType(ts)
			if err != nil {
				return fail("variable %s: %v", name, err)
			}
			r.Variables[name] = vt
		}
	}
	return r, nil
}

func parseGuards(names []string) ([]Guard, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Guard, 0, len(names))
	for _, n := range names {
		g, ok := ParseGuard(n)
		if !ok {
			if s := closestMatch(n, GuardNames()); s != "" {
				return nil, fmt.Errorf("unknown guard %q (did you mean %q?)", n, s)
			}
			return nil, fmt.Errorf("unknown guard %q", n)
		}
		out = append(out, g)
	}
	return out, nil
}

// Version returns the catalog's semver version with a "v" prefix.
func (r *Registry) Version() string {
	return r.version
}

// Len returns the number of rule rows.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Rules returns every rule in catalog order. The slice is a copy.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup finds a rule by id.
func (r *Registry) Lookup(ruleID string) (Rule, bool) {
	idx, ok := r.byID[ruleID]
	if !ok {
		return Rule{}, false
	}
	return r.rules[idx], true
}

// Primitive returns the rows that map to id, in catalog order.
func (r *Registry) Primitive(id PrimitiveID) ([]Rule, bool) {
	idxs, ok := r.byPrimitive[id]
	if !ok {
		return nil, false
	}
	out := make([]Rule, len(idxs))
	for i, idx := range idxs {
		out[i] = r.rules[idx]
	}
	return out, true
}

// Guards lists every guard referenced by some rule.
func (r *Registry) Guards() []Guard {
	return append([]Guard(nil), r.guards...)
}

// SuggestRule returns the closest rule id to name, or "".
func (r *Registry) SuggestRule(name string) string {
	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID
	}
	return closestMatch(name, ids)
}
