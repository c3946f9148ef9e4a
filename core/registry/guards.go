package registry

import "fmt"

// Guard is a named boolean precondition computed from a click context.
type Guard uint8

const (
	GuardDenominatorsEqual Guard = iota
	GuardDenominatorsDifferent
	GuardDivisorNonzero
	GuardDivisorZero
	GuardRemainderZero
	GuardRemainderNonzero
	GuardLeftNegative
	GuardRightNegative
	GuardInsideBrackets
	GuardOperandsNumeric
	GuardHasDecimalOperand
	GuardBothFractions
	GuardNestedFraction
	GuardSiblingFraction
	GuardOppositeAddendDenominator
	GuardRightIsSum
	GuardRightIsDifference
	GuardRightIsOne
	GuardRightIsZero
	GuardOperandsEqual
	GuardParentMinusRight
	GuardClickedInteger
	GuardClickedDecimal
	GuardClickedFraction
	GuardClickedMixed
	GuardClickedOne
	GuardClickedDenominatorOne
	GuardClickedZeroDenominator
	GuardOperandZeroDenominator

	guardCount
)

var guardNames = [guardCount]string{
	GuardDenominatorsEqual:         "denominators-equal",
	GuardDenominatorsDifferent:     "denominators-different",
	GuardDivisorNonzero:            "divisor-nonzero",
	GuardDivisorZero:               "divisor-zero",
	GuardRemainderZero:             "remainder-zero",
	GuardRemainderNonzero:          "remainder-nonzero",
	GuardLeftNegative:              "left-negative",
	GuardRightNegative:             "right-negative",
	GuardInsideBrackets:            "inside-brackets",
	GuardOperandsNumeric:           "operands-numeric",
	GuardHasDecimalOperand:         "has-decimal-operand",
	GuardBothFractions:             "both-fractions",
	GuardNestedFraction:            "nested-fraction",
	GuardSiblingFraction:           "sibling-fraction",
	GuardOppositeAddendDenominator: "opposite-addend-denominator",
	GuardRightIsSum:                "right-is-sum",
	GuardRightIsDifference:         "right-is-difference",
	GuardRightIsOne:                "right-is-one",
	GuardRightIsZero:               "right-is-zero",
	GuardOperandsEqual:             "operands-equal",
	GuardParentMinusRight:          "parent-minus-right",
	GuardClickedInteger:            "clicked-integer",
	GuardClickedDecimal:            "clicked-decimal",
	GuardClickedFraction:           "clicked-fraction",
	GuardClickedMixed:              "clicked-mixed",
	GuardClickedOne:                "clicked-one",
	GuardClickedDenominatorOne:     "clicked-denominator-one",
	GuardClickedZeroDenominator:    "clicked-zero-denominator",
	GuardOperandZeroDenominator:    "operand-zero-denominator",
}

var guardsByName map[string]Guard

func init() {
	guardsByName = make(map[string]Guard, guardCount)
	for g, name := range guardNames {
		guardsByName[name] = Guard(g)
	}
}

func (g Guard) String() string {
	if g < guardCount {
		return guardNames[g]
	}
	return fmt.Sprintf("Guard(%d)", uint8(g))
}

// ParseGuard resolves a catalog guard name.
func ParseGuard(name string) (Guard, bool) {
	g, ok := guardsByName[name]
	return g, ok
}

// AllGuards lists every guard in declaration order.
func AllGuards() []Guard {
	out := make([]Guard, guardCount)
	for i := range out {
		out[i] = Guard(i)
	}
	return out
}

// GuardNames lists every guard name in declaration order.
func GuardNames() []string {
	return append([]string(nil), guardNames[:]...)
}

// GuardSet holds a value for every guard. The zero value has every guard
// false, so a lookup can never miss.
type GuardSet [guardCount]bool

func (s GuardSet) Has(g Guard) bool {
	return g < guardCount && s[g]
}

func (s *GuardSet) Set(g Guard, v bool) {
	s[g] = v
}

// True lists the guards that hold, in declaration order.
func (s GuardSet) True() []Guard {
	var out []Guard
	for i, v := range s {
		if v {
			out = append(out, Guard(i))
		}
	}
	return out
}

// Map renders the set as name → value, every guard present.
func (s GuardSet) Map() map[string]bool {
	m := make(map[string]bool, guardCount)
	for i, v := range s {
		m[guardNames[i]] = v
	}
	return m
}
