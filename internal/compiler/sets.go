// Package compiler turns declarative overload-set definitions (CUE files
// or yaml scenarios) into signature specs the engine can run. It exists
// for the tooling surface: validating declarations, explaining sample
// calls, and driving the scenario harness.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/goverload/goverload/constraint"
	"github.com/goverload/goverload/signature"
)

// ParamDef is one declared parameter in an overload-set definition.
// Type uses the constraint vocabulary (constraint.Parse); an absent type
// is a wildcard. Default presence is modelled with a pointer: a parameter
// without a default key is required.
type ParamDef struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Variadic bool   `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Keyword  bool   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Default  *any   `json:"default,omitempty" yaml:"default,omitempty"`
}

// CandidateDef is one candidate in an overload-set definition.
type CandidateDef struct {
	Doc    string     `json:"doc,omitempty" yaml:"doc,omitempty"`
	Params []ParamDef `json:"params" yaml:"params"`
}

// OverloadSet is one logical name with its candidates in declaration
// order.
type OverloadSet struct {
	Name       string
	Candidates []CandidateDef
}

// Signature builds the runtime signature for one candidate definition.
func (d CandidateDef) Signature() (*signature.Signature, error) {
	params := make([]signature.Param, 0, len(d.Params))
	for _, pd := range d.Params {
		c, err := constraint.Parse(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pd.Name, err)
		}
		switch {
		case pd.Variadic:
			params = append(params, signature.Var(pd.Name, c))
		case pd.Keyword:
			params = append(params, signature.KWVar(pd.Name, c))
		case pd.Default != nil:
			params = append(params, signature.PDefault(pd.Name, c, Normalize(*pd.Default)))
		default:
			params = append(params, signature.P(pd.Name, c))
		}
	}
	return signature.New(params...)
}

// CompileSets parses a CUE value into overload sets. The value must hold
// an "overloads" struct mapping each logical name to its candidate list:
//
//	overloads: {
//		area: {
//			candidates: [
//				{doc: "radius", params: [{name: "r", type: "float64"}]},
//				{doc: "sides",  params: [
//					{name: "w", type: "float64"},
//					{name: "h", type: "float64"},
//				]},
//			]
//		}
//	}
//
// Sets come back in declaration order.
func CompileSets(v cue.Value) ([]OverloadSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	root := v.LookupPath(cue.ParsePath("overloads"))
	if !root.Exists() {
		return nil, &CompileError{
			Field:   "overloads",
			Message: "overloads struct is required",
			Pos:     v.Pos(),
		}
	}

	var sets []OverloadSet
	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		set, err := compileSet(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if len(sets) == 0 {
		return nil, &CompileError{
			Field:   "overloads",
			Message: "at least one overload set is required",
			Pos:     root.Pos(),
		}
	}
	return sets, nil
}

func compileSet(name string, v cue.Value) (OverloadSet, error) {
	set := OverloadSet{Name: name}

	cands := v.LookupPath(cue.ParsePath("candidates"))
	if !cands.Exists() {
		return set, &CompileError{
			Field:   name + ".candidates",
			Message: "candidates list is required",
			Pos:     v.Pos(),
		}
	}
	if err := cands.Decode(&set.Candidates); err != nil {
		return set, formatCUEError(err)
	}
	if len(set.Candidates) == 0 {
		return set, &CompileError{
			Field:   name + ".candidates",
			Message: "at least one candidate is required",
			Pos:     cands.Pos(),
		}
	}

	// Surface signature problems at compile time, not first use.
	for i, cd := range set.Candidates {
		if _, err := cd.Signature(); err != nil {
			return set, &CompileError{
				Field:   fmt.Sprintf("%s.candidates[%d]", name, i),
				Message: err.Error(),
				Pos:     cands.Pos(),
			}
		}
	}
	return set, nil
}
