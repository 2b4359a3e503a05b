package harness

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/sebdah/goldie/v2"
)

// spewConf renders runtime argument values deterministically: map keys are
// sorted and pointer addresses suppressed, so snapshots are stable across
// runs.
var spewConf = &spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Snapshot renders a run result as the canonical golden-file text.
func Snapshot(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(&b, "run: %s\n", r.RunID)

	for _, set := range r.Sets {
		fmt.Fprintf(&b, "\nset %s: %d candidate(s)\n", set.Name, set.Candidates)
		for _, w := range set.Warnings {
			fmt.Fprintf(&b, "  warning: %s\n", w)
		}
	}

	for i, call := range r.Calls {
		fmt.Fprintf(&b, "\ncall %d: %s\n", i+1, renderCall(call.Step))
		for _, a := range call.Trace.Attempts {
			if !a.Bound {
				fmt.Fprintf(&b, "  [%d] %s no-bind %s\n", a.Index, a.Signature, a.BindError)
				continue
			}
			line := fmt.Sprintf("  [%d] %s score=%d", a.Index, a.Signature, a.Score)
			if a.Winner {
				line += " <- winner"
			}
			b.WriteString(line + "\n")
		}
		if call.ErrCode != "" {
			fmt.Fprintf(&b, "  error: %s\n", call.ErrCode)
		} else {
			fmt.Fprintf(&b, "  result: %s\n", renderValue(call.Value))
		}
		if !call.Pass {
			fmt.Fprintf(&b, "  FAIL: %s\n", call.Detail)
		}
	}
	return b.String()
}

func renderCall(step CallStep) string {
	parts := make([]string, 0, len(step.Args)+len(step.Kwargs))
	for _, a := range step.Args {
		parts = append(parts, renderValue(a))
	}
	keys := make([]string, 0, len(step.Kwargs))
	for k := range step.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, renderValue(step.Kwargs[k])))
	}
	return fmt.Sprintf("%s(%s)", step.Set, strings.Join(parts, ", "))
}

func renderValue(v any) string {
	return spewConf.Sprintf("%v", v)
}

// RunWithGolden executes a scenario with a fixed run identifier and
// compares the rendered snapshot against
// testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	runner := NewRunner(WithRunIDGenerator(NewFixedGenerator("harness")))
	result, err := runner.Run(s)
	if err != nil {
		t.Fatalf("run scenario %s: %v", s.Name, err)
	}

	g := goldie.New(t)
	g.Assert(t, s.Name, []byte(Snapshot(result)))
	return result
}
