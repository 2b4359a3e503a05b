package goverload

import (
	"github.com/goverload/goverload/signature"
)

// FuncDispatcher resolves and invokes free-function overloads from one
// registry. It holds no per-call state; every call recomputes bindings and
// scores because argument types are not fixed per registry.
type FuncDispatcher struct {
	reg *Registry
}

// NewFuncDispatcher creates a dispatcher bound to one registry.
func NewFuncDispatcher(reg *Registry) *FuncDispatcher {
	return &FuncDispatcher{reg: reg}
}

// Registry returns the dispatcher's registry.
func (d *FuncDispatcher) Registry() *Registry { return d.reg }

// Call dispatches positional arguments to the best-matching candidate and
// returns its result. Errors raised by the winner's body propagate
// unchanged.
func (d *FuncDispatcher) Call(args ...any) (any, error) {
	return d.CallKW(args, nil)
}

// CallKW dispatches positional and keyword arguments to the best-matching
// candidate.
func (d *FuncDispatcher) CallKW(args []any, kwargs map[string]any) (any, error) {
	c, b, _, err := resolve(d.reg, args, kwargs)
	if err != nil {
		return nil, err
	}
	return c.invoke(b)
}

// BestMatch resolves without invoking, returning the winning candidate and
// its score.
func (d *FuncDispatcher) BestMatch(args []any, kwargs map[string]any) (*Candidate, int, error) {
	c, _, score, err := resolve(d.reg, args, kwargs)
	return c, score, err
}

// resolve performs the selection algorithm shared by every dispatch form:
//
//  1. For each candidate in registration order, attempt to bind; a binding
//     failure rejects the candidate with no score.
//  2. On success, fill defaults and compute the signature score.
//  3. Track the best pair with strict greater-than, so on equal top scores
//     the earliest-registered candidate is kept. A rejected signature
//     (score -1) never beats the initial best of -1.
//  4. No candidate bound, or every bound candidate rejected: fail with the
//     no-matching-overload condition.
func resolve(r *Registry, args []any, kwargs map[string]any) (*Candidate, *signature.BoundArgs, int, error) {
	bestScore := -1
	var bestCand *Candidate
	var bestBound *signature.BoundArgs

	for _, c := range r.candidates {
		b, err := c.sig.Bind(args, kwargs)
		if err != nil {
			continue
		}
		b.ApplyDefaults()
		score := signature.ScoreBound(b)
		if score > bestScore {
			bestScore, bestCand, bestBound = score, c, b
		}
	}

	if bestCand == nil {
		return nil, nil, 0, NewNoMatchError(r.name, args, kwargs)
	}
	return bestCand, bestBound, bestScore, nil
}

// Attempt records one candidate's outcome during an Explain pass.
type Attempt struct {
	// Index is the candidate's registration position.
	Index int

	// Signature is the candidate's rendered signature.
	Signature string

	// Bound reports whether the arguments bound to the signature.
	Bound bool

	// BindError carries the binding failure code when Bound is false.
	BindError string

	// Score is the signature score; meaningful only when Bound is true.
	Score int

	// Winner marks the selected candidate.
	Winner bool
}

// Trace is the observational record of one resolution pass. It is computed
// on demand and never feeds back into dispatch.
type Trace struct {
	Name        string
	Attempts    []Attempt
	WinnerIndex int // -1 when resolution failed
}

// Explain runs the selection algorithm and reports every candidate's bind
// outcome and score plus the winner, without invoking anything.
func (d *FuncDispatcher) Explain(args []any, kwargs map[string]any) *Trace {
	tr := &Trace{Name: d.reg.name, WinnerIndex: -1}
	bestScore := -1

	for i, c := range d.reg.candidates {
		a := Attempt{Index: i, Signature: c.sig.String()}
		b, err := c.sig.Bind(args, kwargs)
		if err != nil {
			a.BindError = err.Error()
			tr.Attempts = append(tr.Attempts, a)
			continue
		}
		b.ApplyDefaults()
		a.Bound = true
		a.Score = signature.ScoreBound(b)
		if a.Score > bestScore {
			bestScore = a.Score
			tr.WinnerIndex = i
		}
		tr.Attempts = append(tr.Attempts, a)
	}

	if tr.WinnerIndex >= 0 {
		tr.Attempts[tr.WinnerIndex].Winner = true
	}
	return tr
}
