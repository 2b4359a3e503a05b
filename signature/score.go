package signature

import "github.com/goverload/goverload/constraint"

// ScoreBound computes the whole-signature specificity score for one bound
// call attempt.
//
// Per parameter: a variadic-positional parameter sums the matcher result
// over every collected extra positional value, a keyword-variadic parameter
// over every collected extra keyword value, and a plain parameter is a
// single matcher call. If any per-parameter aggregate is negative the whole
// signature scores constraint.Reject; otherwise the total is the sum of the
// per-parameter results, with higher totals indicating a more specific
// match.
func ScoreBound(b *BoundArgs) int {
	total := 0
	for _, p := range b.sig.params {
		v, ok := b.Values[p.Name]
		if !ok {
			// Defaulted parameter left unfilled; contributes nothing.
			continue
		}

		agg := 0
		switch p.Kind {
		case KindVariadic:
			for _, e := range v.([]any) {
				agg += constraint.Score(e, p.Constraint)
			}
		case KindKeywordVariadic:
			for _, e := range v.(map[string]any) {
				agg += constraint.Score(e, p.Constraint)
			}
		default:
			agg = constraint.Score(v, p.Constraint)
		}

		if agg < 0 {
			return constraint.Reject
		}
		total += agg
	}
	return total
}
