package matcher

import (
	"fmt"

	"github.com/aledsdavies/mathstep/core/registry"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
)

// OutcomeKind classifies a match list.
type OutcomeKind int

const (
	NoCandidates OutcomeKind = iota
	AutoApply
	Confirm
	Diagnostic
	Choice
)

var outcomeNames = [...]string{
	NoCandidates: "no-candidates",
	AutoApply:    "auto-apply",
	Confirm:      "confirm",
	Diagnostic:   "diagnostic",
	Choice:       "choice",
}

func (k OutcomeKind) String() string {
	if int(k) < len(outcomeNames) {
		return outcomeNames[k]
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Reasons recorded on a NoCandidates outcome.
const (
	ReasonNoMatch              = "no-match"
	ReasonPreferredUnavailable = "preferred-unavailable"
)

// Outcome is the selector's verdict. For AutoApply, Confirm and Diagnostic,
// Chosen is the match to run; for Choice, Matches are the options.
type Outcome struct {
	Kind      OutcomeKind
	Primitive registry.PrimitiveID
	Chosen    *Match
	Matches   []Match
	Reason    string

	preferred registry.PrimitiveID
	address   string
}

// Err converts a NoCandidates outcome into its typed error. Other outcomes
// return nil.
func (o Outcome) Err() error {
	if o.Kind != NoCandidates {
		return nil
	}
	if o.Reason == ReasonPreferredUnavailable {
		return steperr.NewPreferredUnavailable(string(o.preferred))
	}
	return steperr.NewNoApplicableRule(o.address)
}

// Options lists the distinct primitives offered by a Choice, in match order.
func (o Outcome) Options() []registry.PrimitiveID {
	return distinctPrimitives(o.Matches)
}

// Select classifies matches. Precedence:
//
//  1. a preferred primitive restricts the matches to that primitive and
//     forces AutoApply, or yields NoCandidates when absent;
//  2. any diagnostic row wins;
//  3. auto-apply rows naming exactly one primitive give AutoApply;
//  4. matches that are all confirm rows naming one primitive give Confirm;
//  5. several distinct primitives left over give a Choice;
//  6. otherwise NoCandidates.
func Select(matches []Match, preferred registry.PrimitiveID) Outcome {
	out := Outcome{preferred: preferred}
	if len(matches) > 0 {
		out.address = matches[0].Context.Address.String()
	}

	if preferred != "" {
		for i := range matches {
			if matches[i].Rule.Primitive == preferred {
				return chosen(out, AutoApply, matches, i)
			}
		}
		out.Reason = ReasonPreferredUnavailable
		return out
	}

	if len(matches) == 0 {
		out.Reason = ReasonNoMatch
		return out
	}

	for i := range matches {
		if matches[i].Rule.Disposition == registry.Diagnostic {
			return chosen(out, Diagnostic, matches, i)
		}
	}

	if auto := filter(matches, registry.AutoApply); len(auto) > 0 {
		if len(distinctAt(matches, auto)) == 1 {
			return chosen(out, AutoApply, matches, auto[0])
		}
		out.Kind = Choice
		out.Matches = matches
		return out
	}

	if confirm := filter(matches, registry.Confirm); len(confirm) == len(matches) &&
		len(distinctAt(matches, confirm)) == 1 {
		return chosen(out, Confirm, matches, 0)
	}

	if len(distinctPrimitives(matches)) > 1 {
		out.Kind = Choice
		out.Matches = matches
		return out
	}

	// One primitive left that is neither automatic nor a confirmation:
	// there is nothing to offer.
	out.Reason = ReasonNoMatch
	out.Matches = matches
	return out
}

func chosen(out Outcome, kind OutcomeKind, matches []Match, i int) Outcome {
	out.Kind = kind
	out.Primitive = matches[i].Rule.Primitive
	out.Chosen = &matches[i]
	out.Matches = matches
	return out
}

func filter(matches []Match, d registry.Disposition) []int {
	var idx []int
	for i, m := range matches {
		if m.Rule.Disposition == d {
			idx = append(idx, i)
		}
	}
	return idx
}

func distinctPrimitives(matches []Match) []registry.PrimitiveID {
	idx := make([]int, len(matches))
	for i := range idx {
		idx[i] = i
	}
	return distinctAt(matches, idx)
}

func distinctAt(matches []Match, idx []int) []registry.PrimitiveID {
	var ids []registry.PrimitiveID
	seen := make(map[registry.PrimitiveID]bool)
	for _, i := range idx {
		id := matches[i].Rule.Primitive
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
