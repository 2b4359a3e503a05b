package goverload

import (
	"fmt"

	"github.com/goverload/goverload/constraint"
	"github.com/goverload/goverload/signature"
)

// ConflictWarning is a registration-time advisory that two candidates could
// both bind and score on the same future call. The dispatcher's tie-break
// (first registered wins) would then silently hide the later one.
//
// Advisory only: both candidates stay registered and runtime scoring
// decides.
type ConflictWarning struct {
	// Name is the shared logical overload name.
	Name string

	// Earlier is the candidate that wins at runtime on a score tie.
	Earlier *Candidate

	// Later is the newly registered candidate.
	Later *Candidate
}

// Message renders the advisory text.
func (w ConflictWarning) Message() string {
	return fmt.Sprintf("overload collision on %q: %s overlaps %s; on a runtime tie the earlier registration wins",
		w.Name, w.Later.Signature(), w.Earlier.Signature())
}

// Overlaps reports whether two signatures could both bind and score on some
// common future call.
//
// This is a conservative syntactic approximation: it may over-warn, and it
// can miss ambiguity that only manifests for parameter names absent from
// one signature.
func Overlaps(a, b *signature.Signature) bool {
	// Disjoint satisfiable arity ranges cannot share a call.
	aMin, aMax, aUnb := a.ArityRange()
	bMin, bMax, bUnb := b.ArityRange()
	if !aUnb && aMax < bMin {
		return false
	}
	if !bUnb && bMax < aMin {
		return false
	}

	// For every parameter name both signatures declare, the constraint
	// sets must share at least one member for a call to satisfy both.
	for _, pa := range a.Params() {
		pb, ok := b.Param(pa.Name)
		if !ok {
			continue
		}
		if isWildcard(pa.Constraint) || isWildcard(pb.Constraint) {
			continue
		}
		if !setsIntersect(explode(pa.Constraint), explode(pb.Constraint)) {
			return false
		}
	}
	return true
}

func isWildcard(c constraint.Constraint) bool {
	if c == nil {
		return true
	}
	_, ok := c.(constraint.Wildcard)
	return ok
}

// explode expands a union into its member constraints; anything else is a
// singleton set.
func explode(c constraint.Constraint) []constraint.Constraint {
	if u, ok := c.(constraint.Union); ok {
		return u.Members
	}
	return []constraint.Constraint{c}
}

func setsIntersect(as, bs []constraint.Constraint) bool {
	for _, a := range as {
		for _, b := range bs {
			if membersOverlap(a, b) {
				return true
			}
		}
	}
	return false
}

// membersOverlap reports whether two non-union constraint members can
// accept a common value.
func membersOverlap(a, b constraint.Constraint) bool {
	if isWildcard(a) || isWildcard(b) {
		return true
	}
	ca, aConc := a.(constraint.Concrete)
	cb, bConc := b.(constraint.Concrete)
	ea, aEr := a.(constraint.Erased)
	eb, bEr := b.(constraint.Erased)

	switch {
	case aConc && bConc:
		return ca.Type == cb.Type
	case aEr && bEr:
		return ea.Kind == eb.Kind
	case aEr && bConc:
		return cb.Type.Kind() == ea.Kind
	case aConc && bEr:
		return ca.Type.Kind() == eb.Kind
	}
	return false
}
