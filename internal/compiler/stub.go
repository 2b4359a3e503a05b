package compiler

import (
	"fmt"
	"reflect"

	"github.com/goverload/goverload"
	"github.com/goverload/goverload/signature"
)

var (
	anyType    = reflect.TypeOf((*any)(nil)).Elem()
	stringType = reflect.TypeOf("")
)

// StubCandidate builds a runnable candidate for a declared definition.
// The generated function accepts anything its signature admits and
// returns the given label, so tooling can dispatch sample arguments and
// report which declared candidate won without any user code.
func StubCandidate(def CandidateDef, label string) (*goverload.Candidate, error) {
	sig, err := def.Signature()
	if err != nil {
		return nil, err
	}

	plains := 0
	for _, p := range sig.Params() {
		if p.Kind == signature.KindPlain {
			plains++
		}
	}

	in := make([]reflect.Type, 0, plains+2)
	for i := 0; i < plains; i++ {
		in = append(in, anyType)
	}
	variadic := false
	if sig.HasVariadic() {
		in = append(in, reflect.SliceOf(anyType))
		variadic = !sig.HasKeywordVariadic()
	}
	if sig.HasKeywordVariadic() {
		in = append(in, reflect.MapOf(stringType, anyType))
	}

	ft := reflect.FuncOf(in, []reflect.Type{stringType}, variadic)
	fn := reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.ValueOf(label)}
	})
	return goverload.NewCandidate(fn.Interface(), sig, goverload.WithDoc(def.Doc))
}

// BuildRegistry assembles a registry from an overload set, one stub
// candidate per definition, labelled by declaration index.
func BuildRegistry(set OverloadSet, opts ...goverload.RegistryOption) (*goverload.Registry, []goverload.ConflictWarning, error) {
	reg := goverload.NewRegistry(set.Name, opts...)
	var warnings []goverload.ConflictWarning
	for i, cd := range set.Candidates {
		cand, err := StubCandidate(cd, candidateLabel(set.Name, i))
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, reg.Register(cand)...)
	}
	return reg, warnings, nil
}

func candidateLabel(name string, idx int) string {
	return fmt.Sprintf("%s#%d", name, idx)
}
