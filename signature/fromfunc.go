package signature

import (
	"fmt"
	"reflect"

	"github.com/goverload/goverload/constraint"
)

// FromFunc infers a signature from a Go function's reflect type.
//
// Each Go parameter becomes a plain parameter with a Concrete constraint;
// empty-interface parameters become wildcards. A Go variadic parameter
// becomes a variadic-positional parameter constrained to its element type.
//
// Go reflection exposes no parameter names, so names default to a0, a1, ...
// unless supplied. Defaults and keyword-variadic parameters cannot be
// inferred; build those signatures with New.
func FromFunc(fn any, names ...string) (*Signature, error) {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("not a function: %T", fn)
	}
	if len(names) > 0 && len(names) != ft.NumIn() {
		return nil, fmt.Errorf("got %d parameter names for %d parameters", len(names), ft.NumIn())
	}

	params := make([]Param, 0, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		name := fmt.Sprintf("a%d", i)
		if len(names) > 0 {
			name = names[i]
		}
		t := ft.In(i)
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			params = append(params, Var(name, constraint.Of(t.Elem())))
			continue
		}
		params = append(params, P(name, constraint.Of(t)))
	}
	return New(params...)
}
