package registry

import "fmt"

// ClickKind is the coarse kind of UI element a student clicked.
type ClickKind uint8

const (
	ClickOther ClickKind = iota
	ClickOperator
	ClickNumber
	ClickFractionBar
	ClickBracket
)

var clickKindNames = map[ClickKind]string{
	ClickOther:       "other",
	ClickOperator:    "operator",
	ClickNumber:      "number",
	ClickFractionBar: "fractionBar",
	ClickBracket:     "bracket",
}

func (k ClickKind) String() string {
	if s, ok := clickKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ClickKind(%d)", uint8(k))
}

// ParseClickKind accepts the catalog spelling of a click kind.
func ParseClickKind(s string) (ClickKind, error) {
	for k, name := range clickKindNames {
		if name == s {
			return k, nil
		}
	}
	return ClickOther, fmt.Errorf("unknown click kind %q", s)
}

// OperandType is the coarse type of an operand. OperandUnspecified in a rule
// means "no constraint"; in a context it means there is no such operand.
type OperandType uint8

const (
	OperandUnspecified OperandType = iota
	OperandInt
	OperandFraction
	OperandDecimal
	OperandMixed
	OperandAny // a non-literal subexpression
)

var operandTypeNames = map[OperandType]string{
	OperandUnspecified: "",
	OperandInt:         "int",
	OperandFraction:    "fraction",
	OperandDecimal:     "decimal",
	OperandMixed:       "mixed",
	OperandAny:         "any",
}

func (t OperandType) String() string {
	if s, ok := operandTypeNames[t]; ok {
		if s == "" {
			return "unspecified"
		}
		return s
	}
	return fmt.Sprintf("OperandType(%d)", uint8(t))
}

// ParseOperandType accepts the catalog spelling. The empty string is
// OperandUnspecified.
func ParseOperandType(s string) (OperandType, error) {
	for t, name := range operandTypeNames {
		if name == s {
			return t, nil
		}
	}
	return OperandUnspecified, fmt.Errorf("unknown operand type %q", s)
}

// Disposition tells the UI how a matched rule is offered.
type Disposition uint8

const (
	AutoApply Disposition = iota
	Confirm
	Diagnostic
	Choice
)

var dispositionNames = map[Disposition]string{
	AutoApply:  "auto-apply",
	Confirm:    "confirm",
	Diagnostic: "diagnostic",
	Choice:     "choice",
}

func (d Disposition) String() string {
	if s, ok := dispositionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Disposition(%d)", uint8(d))
}

func ParseDisposition(s string) (Disposition, error) {
	for d, name := range dispositionNames {
		if name == s {
			return d, nil
		}
	}
	return AutoApply, fmt.Errorf("unknown disposition %q", s)
}

// Target selects which address an executor receives for a matched rule.
type Target uint8

const (
	TargetAction  Target = iota // the resolved action node (default)
	TargetClicked               // the node under the click
	TargetParent                // the parent of the clicked node
)

var targetNames = map[Target]string{
	TargetAction:  "action",
	TargetClicked: "clicked",
	TargetParent:  "parent",
}

func (t Target) String() string {
	if s, ok := targetNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// ParseTarget accepts the catalog spelling; empty means TargetAction.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return TargetAction, nil
	}
	for t, name := range targetNames {
		if name == s {
			return t, nil
		}
	}
	return TargetAction, fmt.Errorf("unknown target %q", s)
}

// VarType constrains what a pattern variable may bind to.
type VarType uint8

const (
	VarAny VarType = iota
	VarInteger
	VarFraction
	VarDecimal
)

var varTypeNames = map[VarType]string{
	VarAny:      "any",
	VarInteger:  "integer",
	VarFraction: "fraction",
	VarDecimal:  "decimal",
}

func (v VarType) String() string {
	if s, ok := varTypeNames[v]; ok {
		return s
	}
	return fmt.Sprintf("VarType(%d)", uint8(v))
}

func ParseVarType(s string) (VarType, error) {
	if s == "" {
		return VarAny, nil
	}
	for v, name := range varTypeNames {
		if name == s {
			return v, nil
		}
	}
	return VarAny, fmt.Errorf("unknown variable type %q", s)
}
