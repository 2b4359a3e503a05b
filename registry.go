package goverload

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Registry is an append-only, ordered collection of candidates sharing one
// logical name, scoped by an owning identity so identically named
// registries in different scopes never merge.
//
// INVARIANTS:
//   - candidate order == registration order, used as the dispatch tie-break
//   - the scope identity never changes after creation
//   - conflict advisories never block registration
//
// Registration is expected to complete before any dispatch begins; the
// registry performs no synchronization of its own.
type Registry struct {
	name       string
	scope      string
	candidates []*Candidate
	warn       func(ConflictWarning)
}

// RegistryOption configures a registry at construction.
type RegistryOption func(*Registry)

// WithScope sets the owning identity of the registry, e.g. a class name or
// a package path. Fixed after creation.
func WithScope(scope string) RegistryOption {
	return func(r *Registry) { r.scope = scope }
}

// WithWarnFunc replaces the default conflict advisory sink (slog at Warn
// level).
func WithWarnFunc(fn func(ConflictWarning)) RegistryOption {
	return func(r *Registry) { r.warn = fn }
}

// NewRegistry creates an empty registry for one logical name.
func NewRegistry(name string, opts ...RegistryOption) *Registry {
	r := &Registry{name: name}
	for _, opt := range opts {
		opt(r)
	}
	if r.warn == nil {
		r.warn = func(w ConflictWarning) {
			slog.Warn("conflicting overloads",
				"name", w.Name,
				"earlier", w.Earlier.Signature().String(),
				"later", w.Later.Signature().String(),
			)
		}
	}
	return r
}

// Name returns the logical overload name.
func (r *Registry) Name() string { return r.name }

// Scope returns the owning identity.
func (r *Registry) Scope() string { return r.scope }

// Len returns the number of registered candidates.
func (r *Registry) Len() int { return len(r.candidates) }

// Candidates returns the candidates in registration order. The slice is a
// copy; the registration order invariant cannot be broken from outside.
func (r *Registry) Candidates() []*Candidate {
	return append([]*Candidate(nil), r.candidates...)
}

// Register appends a candidate, running the conflict detector against
// every already-registered candidate first. Detected overlaps are emitted
// through the warning sink and returned; they never prevent the append.
func (r *Registry) Register(c *Candidate) []ConflictWarning {
	var warnings []ConflictWarning
	for _, earlier := range r.candidates {
		if Overlaps(earlier.Signature(), c.Signature()) {
			w := ConflictWarning{Name: r.name, Earlier: earlier, Later: c}
			warnings = append(warnings, w)
			r.warn(w)
		}
	}
	r.candidates = append(r.candidates, c)
	return warnings
}

// Doc returns the documentation view: one "signature: doc" line per
// candidate in registration order. Text is NFC-normalized so rendered
// output is byte-deterministic.
func (r *Registry) Doc() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overloaded function %q with %d signature(s):\n", r.name, len(r.candidates))
	for _, c := range r.candidates {
		fmt.Fprintf(&b, "- %s: %s\n", c.Signature(), c.Doc())
	}
	return norm.NFC.String(b.String())
}

// HelpFor runs the same bind-and-score procedure as dispatch against the
// sample arguments and returns the winning candidate's documentation text
// instead of invoking it. Fails with the same no-matching-overload
// condition as dispatch when nothing matches.
func (r *Registry) HelpFor(args []any, kwargs map[string]any) (string, error) {
	c, _, _, err := resolve(r, args, kwargs)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(c.Doc()), nil
}
