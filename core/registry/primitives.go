package registry

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// PrimitiveID names an executable rewrite. Rule ids may alias a primitive,
// so several rows can share one PrimitiveID.
type PrimitiveID string

const (
	// Integer arithmetic
	PrimIntAdd           PrimitiveID = "int-add"
	PrimIntSub           PrimitiveID = "int-sub"
	PrimIntMul           PrimitiveID = "int-mul"
	PrimIntDivExact      PrimitiveID = "int-div-exact"
	PrimIntDivToFraction PrimitiveID = "int-div-to-fraction"
	PrimDivByZero        PrimitiveID = "div-by-zero"

	// Decimal arithmetic
	PrimDecAdd PrimitiveID = "dec-add"
	PrimDecSub PrimitiveID = "dec-sub"
	PrimDecMul PrimitiveID = "dec-mul"
	PrimDecDiv PrimitiveID = "dec-div"

	// Conversions
	PrimDecimalToFraction PrimitiveID = "decimal-to-fraction"
	PrimIntToFraction     PrimitiveID = "int-to-fraction"
	PrimFractionToInt     PrimitiveID = "fraction-to-int"
	PrimMixedToFraction   PrimitiveID = "mixed-to-fraction"
	PrimOneToNeighborDen  PrimitiveID = "one-to-neighbor-den"
	PrimOneToOppositeDen  PrimitiveID = "one-to-opposite-den"

	// Fraction arithmetic
	PrimFracAddSameDen PrimitiveID = "frac-add-same-den"
	PrimFracSubSameDen PrimitiveID = "frac-sub-same-den"
	PrimFracMul        PrimitiveID = "frac-mul"
	PrimFracDivAsMul   PrimitiveID = "frac-div-as-mul"
	PrimNestedFracDiv  PrimitiveID = "nested-frac-div"
	PrimFracLCDScale   PrimitiveID = "frac-lcd-scale"

	// Signs and brackets
	PrimDoubleNegative     PrimitiveID = "double-negative"
	PrimDistributeNegative PrimitiveID = "distribute-negative"
	PrimBracketsRemove     PrimitiveID = "brackets-remove"

	// Identities
	PrimMulByOne PrimitiveID = "mul-by-one"
	PrimAddZero  PrimitiveID = "add-zero"
	PrimSubSelf  PrimitiveID = "sub-self"
)

var knownPrimitives = []PrimitiveID{
	PrimIntAdd, PrimIntSub, PrimIntMul, PrimIntDivExact, PrimIntDivToFraction, PrimDivByZero,
	PrimDecAdd, PrimDecSub, PrimDecMul, PrimDecDiv,
	PrimDecimalToFraction, PrimIntToFraction, PrimFractionToInt, PrimMixedToFraction,
	PrimOneToNeighborDen, PrimOneToOppositeDen,
	PrimFracAddSameDen, PrimFracSubSameDen, PrimFracMul, PrimFracDivAsMul, PrimNestedFracDiv, PrimFracLCDScale,
	PrimDoubleNegative, PrimDistributeNegative, PrimBracketsRemove,
	PrimMulByOne, PrimAddZero, PrimSubSelf,
}

// Primitives that must run their exact-arithmetic executor even when a rule
// supplies a declarative result template.
var exactArithmetic = map[PrimitiveID]bool{
	PrimIntAdd:           true,
	PrimIntSub:           true,
	PrimIntMul:           true,
	PrimIntDivExact:      true,
	PrimIntDivToFraction: true,
	PrimDecAdd:           true,
	PrimDecSub:           true,
	PrimDecMul:           true,
	PrimDecDiv:           true,
}

// KnownPrimitives lists every primitive id in declaration order.
func KnownPrimitives() []PrimitiveID {
	return append([]PrimitiveID(nil), knownPrimitives...)
}

// IsKnown reports whether id names a built-in primitive.
func (id PrimitiveID) IsKnown() bool {
	for _, p := range knownPrimitives {
		if p == id {
			return true
		}
	}
	return false
}

// NeedsExactArithmetic reports whether id always runs its fixed executor.
func (id PrimitiveID) NeedsExactArithmetic() bool {
	return exactArithmetic[id]
}

// SuggestPrimitive returns the closest known primitive id to name, or "".
func SuggestPrimitive(name string) string {
	candidates := make([]string, len(knownPrimitives))
	for i, p := range knownPrimitives {
		candidates[i] = string(p)
	}
	return closestMatch(name, candidates)
}

// closestMatch finds the closest candidate using fuzzy ranking.
func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	// Not a subsequence of anything: fall back to edit distance, for typos
	// such as a doubled letter.
	best, bestDist := "", len(target)/2+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
