// Package signature models one candidate implementation's parameter list
// and validates concrete calls against it.
//
// A Signature is immutable once built. Binding a call produces a transient
// BoundArgs mapping that is scored and then discarded; nothing about a call
// attempt is cached on the signature.
package signature

import (
	"fmt"
	"strings"

	"github.com/goverload/goverload/constraint"
)

// ParamKind classifies how a parameter consumes call arguments.
type ParamKind int

const (
	// KindPlain is an ordinary positional-or-keyword parameter.
	KindPlain ParamKind = iota

	// KindVariadic collects extra positional arguments beyond the plain
	// parameters. At most one per signature, after all plain parameters.
	KindVariadic

	// KindKeywordVariadic collects keyword arguments that name no plain
	// parameter. At most one per signature, always last.
	KindKeywordVariadic
)

func (k ParamKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindVariadic:
		return "variadic"
	case KindKeywordVariadic:
		return "keyword-variadic"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Param describes one declared parameter. A nil Constraint is a wildcard.
type Param struct {
	Name       string
	Kind       ParamKind
	Constraint constraint.Constraint
	HasDefault bool
	Default    any
}

// P builds a plain parameter.
func P(name string, c constraint.Constraint) Param {
	return Param{Name: name, Kind: KindPlain, Constraint: c}
}

// PDefault builds a plain parameter with a default value.
func PDefault(name string, c constraint.Constraint, def any) Param {
	return Param{Name: name, Kind: KindPlain, Constraint: c, HasDefault: true, Default: def}
}

// Var builds a variadic-positional parameter.
func Var(name string, c constraint.Constraint) Param {
	return Param{Name: name, Kind: KindVariadic, Constraint: c}
}

// KWVar builds a variadic-keyword parameter.
func KWVar(name string, c constraint.Constraint) Param {
	return Param{Name: name, Kind: KindKeywordVariadic, Constraint: c}
}

// Signature is an ordered, immutable parameter list for one candidate.
type Signature struct {
	params []Param
	byName map[string]int

	plainCount int
	varIdx     int // index of the variadic-positional param, -1 if none
	kwIdx      int // index of the keyword-variadic param, -1 if none
	minArity   int // plain params without defaults
}

// New validates and builds a Signature.
//
// Rules enforced:
//   - parameter names are non-empty and unique
//   - plain parameters come first, then at most one variadic-positional,
//     then at most one keyword-variadic
//   - defaults appear only on plain parameters, and once one plain
//     parameter has a default every later plain parameter must too
func New(params ...Param) (*Signature, error) {
	s := &Signature{
		params: append([]Param(nil), params...),
		byName: make(map[string]int, len(params)),
		varIdx: -1,
		kwIdx:  -1,
	}

	seenDefault := false
	for i, p := range s.params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter %d has no name", i)
		}
		if _, dup := s.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", p.Name)
		}
		s.byName[p.Name] = i

		switch p.Kind {
		case KindPlain:
			if s.varIdx >= 0 || s.kwIdx >= 0 {
				return nil, fmt.Errorf("plain parameter %q after variadic parameter", p.Name)
			}
			if p.HasDefault {
				seenDefault = true
			} else {
				if seenDefault {
					return nil, fmt.Errorf("required parameter %q after defaulted parameter", p.Name)
				}
				s.minArity++
			}
			s.plainCount++
		case KindVariadic:
			if s.varIdx >= 0 {
				return nil, fmt.Errorf("multiple variadic parameters (%q)", p.Name)
			}
			if s.kwIdx >= 0 {
				return nil, fmt.Errorf("variadic parameter %q after keyword-variadic parameter", p.Name)
			}
			if p.HasDefault {
				return nil, fmt.Errorf("variadic parameter %q cannot have a default", p.Name)
			}
			s.varIdx = i
		case KindKeywordVariadic:
			if s.kwIdx >= 0 {
				return nil, fmt.Errorf("multiple keyword-variadic parameters (%q)", p.Name)
			}
			if p.HasDefault {
				return nil, fmt.Errorf("keyword-variadic parameter %q cannot have a default", p.Name)
			}
			s.kwIdx = i
		default:
			return nil, fmt.Errorf("parameter %q has unknown kind %d", p.Name, int(p.Kind))
		}
	}
	return s, nil
}

// MustNew is New that panics on error.
func MustNew(params ...Param) *Signature {
	s, err := New(params...)
	if err != nil {
		panic(err)
	}
	return s
}

// Params returns a copy of the parameter list in declaration order.
func (s *Signature) Params() []Param {
	return append([]Param(nil), s.params...)
}

// NumParams returns the total declared parameter count.
func (s *Signature) NumParams() int { return len(s.params) }

// Param returns the parameter named name.
func (s *Signature) Param(name string) (Param, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// HasVariadic reports whether the signature has a variadic-positional
// parameter.
func (s *Signature) HasVariadic() bool { return s.varIdx >= 0 }

// HasKeywordVariadic reports whether the signature has a keyword-variadic
// parameter.
func (s *Signature) HasKeywordVariadic() bool { return s.kwIdx >= 0 }

// ArityRange returns the satisfiable parameter-count range: min is the
// number of required parameters, max the total parameter count. unbounded
// is true when either variadic kind is present, in which case max is
// meaningless.
func (s *Signature) ArityRange() (min, max int, unbounded bool) {
	if s.varIdx >= 0 || s.kwIdx >= 0 {
		return s.minArity, 0, true
	}
	return s.minArity, len(s.params), false
}

// String renders the signature, e.g. "(x int, y float64 = 1.5, rest ...any,
// **opts string)". Wildcard constraints render as any.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.params {
		if i > 0 {
			b.WriteString(", ")
		}
		ct := "any"
		if p.Constraint != nil {
			ct = p.Constraint.String()
		}
		switch p.Kind {
		case KindVariadic:
			fmt.Fprintf(&b, "%s ...%s", p.Name, ct)
		case KindKeywordVariadic:
			fmt.Fprintf(&b, "**%s %s", p.Name, ct)
		default:
			fmt.Fprintf(&b, "%s %s", p.Name, ct)
			if p.HasDefault {
				fmt.Fprintf(&b, " = %v", p.Default)
			}
		}
	}
	b.WriteByte(')')
	return b.String()
}
