package goverload

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/goverload/goverload/signature"
)

// Table is the registration surface for free functions. Free functions
// have no enclosing object whose attribute assignment could be
// intercepted, so a table keyed by fully-qualified name (declaring-scope
// path plus local name) plays the class-body role: the first registration
// under a name creates the registry, later ones append.
//
// Registration is expected to finish before any dispatch begins; the table
// performs no synchronization.
type Table struct {
	entries map[string]*Registry
	opts    []RegistryOption
}

// NewTable creates an empty table. The options are applied to every
// registry the table creates.
func NewTable(opts ...RegistryOption) *Table {
	return &Table{entries: make(map[string]*Registry), opts: opts}
}

// Register appends fn as one overload of the fully-qualified name,
// creating the registry on first use. A nil sig is inferred from fn.
// Returns the dispatcher for the name along with any conflict advisories.
func (t *Table) Register(qualName string, fn any, sig *signature.Signature, opts ...CandidateOption) (*FuncDispatcher, []ConflictWarning, error) {
	cand, err := NewCandidate(fn, sig, opts...)
	if err != nil {
		return nil, nil, err
	}
	reg, ok := t.entries[qualName]
	if !ok {
		ropts := append([]RegistryOption{WithScope(scopeOf(qualName))}, t.opts...)
		reg = NewRegistry(qualName, ropts...)
		t.entries[qualName] = reg
	}
	warnings := reg.Register(cand)
	return NewFuncDispatcher(reg), warnings, nil
}

// Lookup returns the dispatcher for a fully-qualified name.
func (t *Table) Lookup(qualName string) (*FuncDispatcher, bool) {
	reg, ok := t.entries[qualName]
	if !ok {
		return nil, false
	}
	return NewFuncDispatcher(reg), true
}

// Registry returns the registry for a fully-qualified name.
func (t *Table) Registry(qualName string) (*Registry, bool) {
	reg, ok := t.entries[qualName]
	return reg, ok
}

// Names returns the registered fully-qualified names in no particular
// order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

// scopeOf splits the declaring-scope path off a fully-qualified name.
func scopeOf(qualName string) string {
	if i := strings.LastIndex(qualName, "."); i > 0 {
		return qualName[:i]
	}
	return ""
}

// defaultTable is the process-wide free-function table used by the
// package-level Register and Lookup.
var defaultTable = NewTable()

// Register appends fn as one overload of qualName in the process-wide
// table. Conflict advisories go through the default warning sink.
func Register(qualName string, fn any, sig *signature.Signature, opts ...CandidateOption) (*FuncDispatcher, error) {
	d, _, err := defaultTable.Register(qualName, fn, sig, opts...)
	return d, err
}

// Lookup returns the process-wide dispatcher for qualName.
func Lookup(qualName string) (*FuncDispatcher, bool) {
	return defaultTable.Lookup(qualName)
}

// Qualify derives a fully-qualified name from fn's declaring package path
// and a local name, e.g. Qualify(area, "area") ->
// "example.com/geo.area". Useful when several differently named Go
// functions register under one logical name.
func Qualify(fn any, local string) string {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return local
	}
	full := runtime.FuncForPC(fv.Pointer()).Name()
	if i := strings.LastIndex(full, "."); i > 0 {
		return full[:i] + "." + local
	}
	return local
}
