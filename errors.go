package goverload

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ResolveErrorCode categorizes resolution failures.
type ResolveErrorCode string

const (
	// ErrCodeNoMatchingOverload indicates dispatch exhausted every
	// candidate (including, for bound dispatch, the ancestor chain)
	// without a winner.
	ErrCodeNoMatchingOverload ResolveErrorCode = "NO_MATCHING_OVERLOAD"

	// ErrCodeUnknownName indicates a logical name with no registration
	// anywhere in the consulted scope.
	ErrCodeUnknownName ResolveErrorCode = "UNKNOWN_NAME"
)

// ResolveError is the sole caller-visible resolution failure.
//
// Binding failures against individual candidates never surface; they are
// folded into a single ResolveError once every candidate (and every
// ancestor, for bound dispatch) has been exhausted.
type ResolveError struct {
	// Code identifies the failure category.
	Code ResolveErrorCode

	// Name is the logical overload name being resolved.
	Name string

	// NumArgs is the number of positional arguments in the failed call.
	NumArgs int

	// Keywords lists the keyword argument names in the failed call,
	// sorted for deterministic output.
	Keywords []string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if len(e.Keywords) > 0 {
		return fmt.Sprintf("%s: %s with %d positional argument(s) and keywords [%s]",
			e.Code, e.Name, e.NumArgs, strings.Join(e.Keywords, ", "))
	}
	return fmt.Sprintf("%s: %s with %d positional argument(s)", e.Code, e.Name, e.NumArgs)
}

// IsNoMatch returns true if the error is a no-matching-overload failure.
// Uses errors.As to handle wrapped errors.
func IsNoMatch(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoMatchingOverload
	}
	return false
}

// NewNoMatchError creates a ResolveError for an exhausted candidate set.
func NewNoMatchError(name string, args []any, kwargs map[string]any) *ResolveError {
	return &ResolveError{
		Code:     ErrCodeNoMatchingOverload,
		Name:     name,
		NumArgs:  len(args),
		Keywords: sortedKeywordNames(kwargs),
	}
}

// NewUnknownNameError creates a ResolveError for a name that was never
// registered in the consulted scope.
func NewUnknownNameError(name string) *ResolveError {
	return &ResolveError{Code: ErrCodeUnknownName, Name: name}
}

// RegistrationErrorCode categorizes registration failures.
type RegistrationErrorCode string

const (
	// ErrCodeNotAFunc indicates the registered value is not a Go
	// function.
	ErrCodeNotAFunc RegistrationErrorCode = "NOT_A_FUNC"

	// ErrCodeIncompatibleShape indicates the Go function's parameters
	// cannot carry the declared signature.
	ErrCodeIncompatibleShape RegistrationErrorCode = "INCOMPATIBLE_SHAPE"

	// ErrCodeNameTaken indicates a declaration collides with an
	// existing entry of a different kind (callable over plain value, or
	// plain value over an overload registry).
	ErrCodeNameTaken RegistrationErrorCode = "NAME_TAKEN"
)

// RegistrationError reports an invalid registration. Unlike conflict
// advisories these are hard failures: nothing is appended.
type RegistrationError struct {
	Code    RegistrationErrorCode
	Name    string
	Message string
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func sortedKeywordNames(kwargs map[string]any) []string {
	if len(kwargs) == 0 {
		return nil
	}
	names := make([]string, 0, len(kwargs))
	for k := range kwargs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
