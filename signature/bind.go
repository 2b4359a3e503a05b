package signature

import (
	"fmt"
	"sort"
)

// BindErrorCode categorizes binding failures.
type BindErrorCode string

const (
	// ErrCodeTooManyArgs indicates more positional arguments than the
	// signature can place.
	ErrCodeTooManyArgs BindErrorCode = "TOO_MANY_ARGS"

	// ErrCodeUnknownKeyword indicates a keyword argument naming no
	// parameter, with no keyword-variadic parameter to absorb it.
	ErrCodeUnknownKeyword BindErrorCode = "UNKNOWN_KEYWORD"

	// ErrCodeMultipleValues indicates a parameter supplied both
	// positionally and by keyword.
	ErrCodeMultipleValues BindErrorCode = "MULTIPLE_VALUES"

	// ErrCodeMissingArgument indicates a required parameter left
	// unsupplied.
	ErrCodeMissingArgument BindErrorCode = "MISSING_ARGUMENT"
)

// BindError reports that a concrete call cannot populate a signature.
//
// This is a per-candidate condition: dispatchers treat a binding failure as
// "this candidate does not participate" and never surface it to callers.
type BindError struct {
	Code  BindErrorCode
	Param string // offending parameter or keyword name, when applicable
}

func (e *BindError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Param)
	}
	return string(e.Code)
}

// BoundArgs is the transient name-to-value mapping produced by Bind.
// Values holds one entry per populated parameter; the variadic-positional
// entry is a []any of the collected extras, the keyword-variadic entry a
// map[string]any.
type BoundArgs struct {
	sig    *Signature
	Values map[string]any
}

// Signature returns the signature these arguments were bound against.
func (b *BoundArgs) Signature() *Signature { return b.sig }

// Bind validates that the supplied arguments can legally populate the
// signature and produces the name-to-value mapping. Only arity and naming
// are checked; constraints play no part in binding.
//
// Defaults are not filled here; call ApplyDefaults on the result.
func (s *Signature) Bind(args []any, kwargs map[string]any) (*BoundArgs, error) {
	values := make(map[string]any, len(s.params))

	// Positional arguments fill plain parameters in order; extras go to
	// the variadic parameter or fail the bind.
	if len(args) > s.plainCount && s.varIdx < 0 {
		return nil, &BindError{Code: ErrCodeTooManyArgs}
	}
	n := len(args)
	if n > s.plainCount {
		n = s.plainCount
	}
	for i := 0; i < n; i++ {
		values[s.params[i].Name] = args[i]
	}
	if s.varIdx >= 0 {
		extra := append([]any(nil), args[n:]...)
		values[s.params[s.varIdx].Name] = extra
	}

	// Keyword arguments fill plain parameters by name; unknown names go
	// to the keyword-variadic parameter or fail the bind. Names are
	// visited in sorted order so any failure is deterministic.
	var kwExtra map[string]any
	if s.kwIdx >= 0 {
		kwExtra = make(map[string]any)
	}
	for _, k := range sortedKeys(kwargs) {
		v := kwargs[k]
		if i, ok := s.byName[k]; ok && s.params[i].Kind == KindPlain {
			if _, dup := values[k]; dup {
				return nil, &BindError{Code: ErrCodeMultipleValues, Param: k}
			}
			values[k] = v
			continue
		}
		if kwExtra == nil {
			return nil, &BindError{Code: ErrCodeUnknownKeyword, Param: k}
		}
		kwExtra[k] = v
	}
	if s.kwIdx >= 0 {
		values[s.params[s.kwIdx].Name] = kwExtra
	}

	// Every required plain parameter must have a value.
	for i := 0; i < s.plainCount; i++ {
		p := s.params[i]
		if _, ok := values[p.Name]; !ok && !p.HasDefault {
			return nil, &BindError{Code: ErrCodeMissingArgument, Param: p.Name}
		}
	}

	return &BoundArgs{sig: s, Values: values}, nil
}

// ApplyDefaults fills every unsupplied defaulted parameter with its
// declared default value.
func (b *BoundArgs) ApplyDefaults() {
	for i := 0; i < b.sig.plainCount; i++ {
		p := b.sig.params[i]
		if !p.HasDefault {
			continue
		}
		if _, ok := b.Values[p.Name]; !ok {
			b.Values[p.Name] = p.Default
		}
	}
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
