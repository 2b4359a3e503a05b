package harness

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/goverload/goverload"
	"github.com/goverload/goverload/internal/compiler"
)

// Result is the complete outcome of one scenario run.
type Result struct {
	RunID    string
	Scenario string
	Sets     []SetResult
	Calls    []CallResult
}

// SetResult records the registry built for one declared set, including any
// conflict advisories emitted during registration.
type SetResult struct {
	Name       string
	Candidates int
	Warnings   []string
}

// CallResult records one call's resolution trace and validation outcome.
type CallResult struct {
	Step  CallStep
	Trace *goverload.Trace

	// Value is the winning candidate's return value when the call
	// succeeded.
	Value any

	// ErrCode is the resolution failure code when the call failed.
	ErrCode string

	// Pass reports whether the expectation (if any) held.
	Pass bool

	// Detail explains a failed expectation.
	Detail string
}

// Failed reports whether any call missed its expectation.
func (r *Result) Failed() bool {
	for _, c := range r.Calls {
		if !c.Pass {
			return true
		}
	}
	return false
}

// Runner executes scenarios.
type Runner struct {
	runID RunIDGenerator
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunIDGenerator replaces the UUIDv7 run identifier source, mainly for
// deterministic tests.
func WithRunIDGenerator(g RunIDGenerator) RunnerOption {
	return func(r *Runner) { r.runID = g }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{runID: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run builds every declared overload set and fires every call in order.
// Only structural problems (a declaration that cannot build) are returned
// as errors; dispatch failures land in the per-call results.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	// Load validates, but scenarios can also be built in code.
	if err := s.Validate(); err != nil {
		return nil, err
	}
	res := &Result{RunID: r.runID.Generate(), Scenario: s.Name}

	dispatchers := make(map[string]*goverload.FuncDispatcher, len(s.Sets))
	for _, def := range s.Sets {
		// Advisories are collected on the result instead of logged.
		var warnings []string
		reg, ws, err := compiler.BuildRegistry(compiler.OverloadSet{
			Name:       def.Name,
			Candidates: def.Candidates,
		}, goverload.WithWarnFunc(func(goverload.ConflictWarning) {}))
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", def.Name, err)
		}
		for _, w := range ws {
			warnings = append(warnings, w.Message())
		}
		dispatchers[def.Name] = goverload.NewFuncDispatcher(reg)
		res.Sets = append(res.Sets, SetResult{
			Name:       def.Name,
			Candidates: reg.Len(),
			Warnings:   warnings,
		})
	}

	for _, step := range s.Calls {
		res.Calls = append(res.Calls, runCall(dispatchers[step.Set], step))
	}
	return res, nil
}

func runCall(d *goverload.FuncDispatcher, step CallStep) CallResult {
	args := compiler.NormalizeArgs(step.Args)
	kwargs := compiler.NormalizeKwargs(step.Kwargs)

	cr := CallResult{Step: step, Trace: d.Explain(args, kwargs)}

	value, err := d.CallKW(args, kwargs)
	if err != nil {
		var re *goverload.ResolveError
		if errors.As(err, &re) {
			cr.ErrCode = string(re.Code)
		} else {
			cr.ErrCode = err.Error()
		}
	} else {
		cr.Value = value
	}

	cr.Pass, cr.Detail = checkExpect(step.Expect, cr)
	return cr
}

func checkExpect(e *ExpectClause, cr CallResult) (bool, string) {
	if e == nil {
		return true, ""
	}
	if e.Error != "" {
		if cr.ErrCode != e.Error {
			return false, fmt.Sprintf("expected error %s, got %q", e.Error, cr.ErrCode)
		}
		return true, ""
	}
	if cr.ErrCode != "" {
		return false, fmt.Sprintf("unexpected error %s", cr.ErrCode)
	}
	if e.Winner != nil && cr.Trace.WinnerIndex != *e.Winner {
		return false, fmt.Sprintf("expected winner %d, got %d", *e.Winner, cr.Trace.WinnerIndex)
	}
	if e.Result != nil && !reflect.DeepEqual(compiler.Normalize(e.Result), cr.Value) {
		return false, fmt.Sprintf("expected result %v, got %v", e.Result, cr.Value)
	}
	return true, ""
}
