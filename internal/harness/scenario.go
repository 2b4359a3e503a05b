// Package harness executes yaml-declared dispatch scenarios end to end:
// build registries from declared overload sets, fire sample calls, and
// compare winners, results, and failure codes against expectations.
// Golden trace files keep the observable resolution behavior pinned.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goverload/goverload/internal/compiler"
)

// Scenario is one yaml-declared dispatch test.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what the scenario pins down.
	Description string `yaml:"description,omitempty"`

	// Sets declares the overload sets available to calls.
	Sets []SetDef `yaml:"sets"`

	// Calls fire in order against the declared sets.
	Calls []CallStep `yaml:"calls"`
}

// SetDef declares one overload set: a logical name and its candidates in
// registration order.
type SetDef struct {
	Name       string                  `yaml:"name"`
	Candidates []compiler.CandidateDef `yaml:"candidates"`
}

// CallStep is one dispatch attempt.
type CallStep struct {
	// Set names the overload set to dispatch against.
	Set string `yaml:"set"`

	// Args are the positional arguments.
	Args []any `yaml:"args,omitempty"`

	// Kwargs are the keyword arguments.
	Kwargs map[string]any `yaml:"kwargs,omitempty"`

	// Expect validates the outcome. If nil the call only has to not
	// surprise the golden file.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of one call.
type ExpectClause struct {
	// Winner is the expected winning candidate's registration index.
	Winner *int `yaml:"winner,omitempty"`

	// Result is the expected invocation result. Stub candidates return
	// their label, "<set>#<index>".
	Result any `yaml:"result,omitempty"`

	// Error is the expected resolution error code, e.g.
	// "NO_MATCHING_OVERLOAD". Empty means the call must succeed.
	Error string `yaml:"error,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks structural requirements before execution.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Sets) == 0 {
		return fmt.Errorf("at least one overload set is required")
	}
	seen := make(map[string]bool, len(s.Sets))
	for _, set := range s.Sets {
		if set.Name == "" {
			return fmt.Errorf("overload set with empty name")
		}
		if seen[set.Name] {
			return fmt.Errorf("duplicate overload set %q", set.Name)
		}
		seen[set.Name] = true
		if len(set.Candidates) == 0 {
			return fmt.Errorf("overload set %q has no candidates", set.Name)
		}
	}
	for i, call := range s.Calls {
		if !seen[call.Set] {
			return fmt.Errorf("call %d targets undeclared set %q", i, call.Set)
		}
	}
	return nil
}
