package goverload

import (
	"fmt"
	"reflect"

	"github.com/goverload/goverload/constraint"
	"github.com/goverload/goverload/signature"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Candidate pairs one Go function with its declared signature. Immutable
// once built; registration order inside a registry is the only identity
// that matters at dispatch time.
//
// The Go function's parameters carry the signature in order: one Go
// parameter per plain signature parameter, then a Go variadic (or slice)
// parameter if the signature has a variadic-positional parameter, then a
// trailing map[string]V parameter if it has a keyword-variadic parameter.
//
// Return convention: a trailing error result is split off and propagated
// unchanged; of the remaining results, zero yields nil, one yields that
// value, several yield []any.
type Candidate struct {
	fn  reflect.Value
	sig *signature.Signature
	doc string
}

// CandidateOption configures optional candidate attributes.
type CandidateOption func(*Candidate)

// WithDoc attaches documentation text to the candidate, surfaced by the
// registry doc view and help lookup.
func WithDoc(doc string) CandidateOption {
	return func(c *Candidate) { c.doc = doc }
}

// NewCandidate validates fn against sig and builds an immutable candidate.
//
// Validation is structural: the Go function's parameter count and types
// must be able to carry every value the declared constraints admit. A Go
// parameter that is not the empty interface must be guaranteed assignable
// by its constraint; wildcard, union, and erased constraints therefore
// require an `any` Go parameter.
func NewCandidate(fn any, sig *signature.Signature, opts ...CandidateOption) (*Candidate, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, &RegistrationError{
			Code:    ErrCodeNotAFunc,
			Message: fmt.Sprintf("candidate must be a function, got %T", fn),
		}
	}
	if sig == nil {
		var err error
		sig, err = signature.FromFunc(fn)
		if err != nil {
			return nil, &RegistrationError{Code: ErrCodeIncompatibleShape, Message: err.Error()}
		}
	}
	if err := checkShape(fv.Type(), sig); err != nil {
		return nil, err
	}

	c := &Candidate{fn: fv, sig: sig}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Signature returns the candidate's declared signature.
func (c *Candidate) Signature() *signature.Signature { return c.sig }

// Doc returns the candidate's documentation text.
func (c *Candidate) Doc() string { return c.doc }

// checkShape verifies that the Go function can carry the declared
// signature.
func checkShape(ft reflect.Type, sig *signature.Signature) error {
	params := sig.Params()
	plains := make([]signature.Param, 0, len(params))
	var varParam, kwParam *signature.Param
	for i := range params {
		switch params[i].Kind {
		case signature.KindVariadic:
			varParam = &params[i]
		case signature.KindKeywordVariadic:
			kwParam = &params[i]
		default:
			plains = append(plains, params[i])
		}
	}

	want := len(plains)
	if varParam != nil {
		want++
	}
	if kwParam != nil {
		want++
	}
	if ft.NumIn() != want {
		return &RegistrationError{
			Code:    ErrCodeIncompatibleShape,
			Message: fmt.Sprintf("signature %s needs %d Go parameter(s), function has %d", sig, want, ft.NumIn()),
		}
	}
	if ft.IsVariadic() && (varParam == nil || kwParam != nil) {
		return &RegistrationError{
			Code:    ErrCodeIncompatibleShape,
			Message: "variadic Go function requires a variadic-positional parameter and no keyword-variadic parameter",
		}
	}

	for i, p := range plains {
		if err := checkParamType(p, ft.In(i)); err != nil {
			return err
		}
	}
	if varParam != nil {
		t := ft.In(len(plains))
		if t.Kind() != reflect.Slice {
			return &RegistrationError{
				Code:    ErrCodeIncompatibleShape,
				Message: fmt.Sprintf("variadic parameter %q requires a slice or Go variadic parameter, got %s", varParam.Name, t),
			}
		}
		if err := checkElemType(*varParam, t.Elem()); err != nil {
			return err
		}
	}
	if kwParam != nil {
		t := ft.In(ft.NumIn() - 1)
		if t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
			return &RegistrationError{
				Code:    ErrCodeIncompatibleShape,
				Message: fmt.Sprintf("keyword-variadic parameter %q requires a map[string]V parameter, got %s", kwParam.Name, t),
			}
		}
		if err := checkElemType(*kwParam, t.Elem()); err != nil {
			return err
		}
	}
	return nil
}

func checkParamType(p signature.Param, goT reflect.Type) error {
	if err := checkElemType(p, goT); err != nil {
		return err
	}
	if p.HasDefault && p.Default != nil {
		dt := reflect.TypeOf(p.Default)
		if !dt.AssignableTo(goT) {
			return &RegistrationError{
				Code:    ErrCodeIncompatibleShape,
				Message: fmt.Sprintf("default for %q has type %s, not assignable to %s", p.Name, dt, goT),
			}
		}
	}
	return nil
}

// checkElemType verifies one constraint against the Go type that will
// receive matched values.
func checkElemType(p signature.Param, goT reflect.Type) error {
	if isAny(goT) {
		return nil
	}
	if !constraintAssignable(p.Constraint, goT) {
		ct := "any"
		if p.Constraint != nil {
			ct = p.Constraint.String()
		}
		return &RegistrationError{
			Code: ErrCodeIncompatibleShape,
			Message: fmt.Sprintf("parameter %q: constraint %s admits values not assignable to Go type %s (use an `any` parameter)",
				p.Name, ct, goT),
		}
	}
	return nil
}

func isAny(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

// constraintAssignable reports whether every value the constraint admits is
// assignable to goT.
func constraintAssignable(c constraint.Constraint, goT reflect.Type) bool {
	switch c := c.(type) {
	case constraint.Concrete:
		return c.Type != nil && c.Type.AssignableTo(goT)
	case constraint.Union:
		for _, m := range c.Members {
			if !constraintAssignable(m, goT) {
				return false
			}
		}
		return len(c.Members) > 0
	default:
		// Wildcard, Erased, and nil admit values of many types; only an
		// `any` parameter (handled by the caller) can receive them.
		return false
	}
}

// invoke calls the candidate function with the bound, default-filled
// argument values. Errors returned by the function body propagate
// unchanged.
func (c *Candidate) invoke(b *signature.BoundArgs) (any, error) {
	ft := c.fn.Type()
	params := c.sig.Params()

	in := make([]reflect.Value, 0, ft.NumIn())
	goIdx := 0
	for _, p := range params {
		switch p.Kind {
		case signature.KindVariadic:
			extras := b.Values[p.Name].([]any)
			t := ft.In(goIdx)
			if ft.IsVariadic() {
				for _, e := range extras {
					in = append(in, argValue(e, t.Elem()))
				}
			} else {
				sv := reflect.MakeSlice(t, 0, len(extras))
				for _, e := range extras {
					sv = reflect.Append(sv, argValue(e, t.Elem()))
				}
				in = append(in, sv)
			}
		case signature.KindKeywordVariadic:
			extras := b.Values[p.Name].(map[string]any)
			t := ft.In(goIdx)
			mv := reflect.MakeMapWithSize(t, len(extras))
			for k, v := range extras {
				mv.SetMapIndex(reflect.ValueOf(k), argValue(v, t.Elem()))
			}
			in = append(in, mv)
		default:
			in = append(in, argValue(b.Values[p.Name], ft.In(goIdx)))
		}
		goIdx++
	}

	return splitResults(ft, c.fn.Call(in))
}

// argValue converts a bound value to a reflect value suitable for the Go
// parameter type. Shape validation at registration guarantees
// assignability for every constraint-matched value.
func argValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

// splitResults applies the candidate return convention.
func splitResults(ft reflect.Type, out []reflect.Value) (any, error) {
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorType {
		errVal := out[n-1]
		out = out[:n-1]
		if !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		results := make([]any, len(out))
		for i, v := range out {
			results[i] = v.Interface()
		}
		return results, nil
	}
}
