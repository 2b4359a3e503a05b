package constraint

import (
	"reflect"
	"strings"
)

// Score results for matching one runtime value against one constraint.
//
// Reject is a sentinel, not an additive score: any Reject in a signature
// excludes the whole candidate regardless of other matches.
const (
	Match   = 1  // value satisfies the constraint
	Neutral = 0  // constraint is a wildcard, no information either way
	Reject  = -1 // value cannot satisfy the constraint
)

// Constraint is a sealed variant type for declared parameter constraints.
// Only Wildcard, Concrete, Union, and Erased implement it.
//
// The variants mirror the four ways a parameter can be constrained:
//   - Wildcard: no constraint, matches anything with a Neutral score
//   - Concrete: a specific Go type, matched by assignability
//   - Union: a set of alternatives, matched if any member matches
//   - Erased: a parameterized container reduced to its base kind
type Constraint interface {
	isConstraint()
	String() string
}

// Wildcard matches any value and contributes nothing to the score.
type Wildcard struct{}

func (Wildcard) isConstraint()  {}
func (Wildcard) String() string { return "any" }

// Concrete constrains a parameter to values assignable to Type.
// Assignability covers type identity and interface satisfaction, which is
// the closest Go analog to a runtime subtype test.
type Concrete struct {
	Type reflect.Type
}

func (Concrete) isConstraint() {}

func (c Concrete) String() string {
	if c.Type == nil {
		return "<nil>"
	}
	return c.Type.String()
}

// Union constrains a parameter to any of its member constraints.
type Union struct {
	Members []Constraint
}

func (Union) isConstraint() {}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

// Erased is a parameterized container constraint reduced to its base kind.
// A declared "[]int" erases to the slice kind and accepts any slice value,
// the same way List[int] erases to List before matching.
type Erased struct {
	Kind reflect.Kind
}

func (Erased) isConstraint() {}

func (e Erased) String() string {
	switch e.Kind {
	case reflect.Slice:
		return "slice"
	case reflect.Array:
		return "array"
	case reflect.Map:
		return "map"
	default:
		return e.Kind.String()
	}
}

// Of builds a constraint from a reflect type. A nil type or the empty
// interface becomes Wildcard; everything else becomes Concrete. Erasure is
// never applied here: a Go type taken from a real function parameter is
// enforced by that parameter, so it must stay concrete. Use Erase for
// declared container constraints.
func Of(t reflect.Type) Constraint {
	if t == nil {
		return Wildcard{}
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		return Wildcard{}
	}
	return Concrete{Type: t}
}

// Exact builds a Concrete constraint for the type parameter T.
func Exact[T any]() Constraint {
	return Of(reflect.TypeOf((*T)(nil)).Elem())
}

// Erase reduces a parameterized container type to its base kind. Slice,
// array, and map types erase to an Erased constraint; any other type
// falls back to Of.
func Erase(t reflect.Type) Constraint {
	if t == nil {
		return Wildcard{}
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return Erased{Kind: t.Kind()}
	}
	return Of(t)
}

// OneOf builds a Union from the given members, flattening nested unions.
// A single member is returned as-is.
func OneOf(members ...Constraint) Constraint {
	flat := make([]Constraint, 0, len(members))
	for _, m := range members {
		if u, ok := m.(Union); ok {
			flat = append(flat, u.Members...)
			continue
		}
		flat = append(flat, m)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return Union{Members: flat}
}

// Score compares one runtime value against one constraint.
//
// Returns Match, Neutral, or Reject:
//   - nil constraint or Wildcard: Neutral
//   - Union: Match if any member matches, else Reject
//   - Erased: Match if the value's kind equals the erased base kind
//   - Concrete: Match if the value's dynamic type is assignable to the
//     constraint type
//
// An untyped nil value carries no type information and only satisfies a
// wildcard.
func Score(v any, c Constraint) int {
	if c == nil {
		return Neutral
	}
	switch c := c.(type) {
	case Wildcard:
		return Neutral
	case Union:
		for _, m := range c.Members {
			if Score(v, m) > 0 {
				return Match
			}
		}
		return Reject
	case Erased:
		vt := reflect.TypeOf(v)
		if vt == nil {
			return Reject
		}
		if vt.Kind() == c.Kind {
			return Match
		}
		return Reject
	case Concrete:
		vt := reflect.TypeOf(v)
		if vt == nil || c.Type == nil {
			return Reject
		}
		if vt.AssignableTo(c.Type) {
			return Match
		}
		return Reject
	}
	return Reject
}
