package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goverload/goverload"
	"github.com/goverload/goverload/internal/compiler"
	"github.com/goverload/goverload/internal/store"
)

// ExplainResult is the JSON shape of one explained sample call.
type ExplainResult struct {
	Set         string           `json:"set"`
	Call        string           `json:"call"`
	Attempts    []ExplainAttempt `json:"attempts"`
	WinnerIndex int              `json:"winner_index"`
	Result      any              `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	RunID       string           `json:"run_id,omitempty"`
}

// ExplainAttempt mirrors goverload.Attempt for output purposes.
type ExplainAttempt struct {
	Index     int    `json:"index"`
	Signature string `json:"signature"`
	Bound     bool   `json:"bound"`
	BindError string `json:"bind_error,omitempty"`
	Score     int    `json:"score"`
	Winner    bool   `json:"winner"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		argsJSON   string
		kwargsJSON string
		record     string
	)

	cmd := &cobra.Command{
		Use:   "explain <decl-path> <set-name>",
		Short: "Explain how a sample call resolves against an overload set",
		Long: `Build the named overload set from CUE declarations, dispatch the
sample arguments against stub candidates, and report every candidate's
bind outcome and score plus the winner.

Sample arguments are JSON: --args takes an array of positionals,
--kwargs an object of keyword arguments. Integral JSON numbers become
int, fractional ones float64, matching the constraint vocabulary.`,
		Example: `  goverload explain decls/ area --args '[3.0, 4.0]'
  goverload explain decls/ render --args '["name"]' --kwargs '{"bold": true}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return runExplain(rootOpts, explainOptions{
				path:   cmdArgs[0],
				set:    cmdArgs[1],
				args:   argsJSON,
				kwargs: kwargsJSON,
				record: record,
			}, cmd)
		},
	}
	cmd.Flags().StringVar(&argsJSON, "args", "[]", "positional arguments as a JSON array")
	cmd.Flags().StringVar(&kwargsJSON, "kwargs", "", "keyword arguments as a JSON object")
	cmd.Flags().StringVar(&record, "record", "", "record the run to the SQLite database at this path")
	return cmd
}

type explainOptions struct {
	path   string
	set    string
	args   string
	kwargs string
	record string
}

func runExplain(opts *RootOptions, eo explainOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadSets(eo.path)
	if err != nil {
		return err
	}
	set, err := findSet(loaded, eo.set)
	if err != nil {
		return err
	}

	callArgs, callKwargs, err := parseSampleCall(eo.args, eo.kwargs)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid sample arguments", err)
	}

	reg, warnings, err := buildSilent(set)
	if err != nil {
		return WrapExitError(ExitFailure, "building overload set", err)
	}
	for _, w := range warnings {
		formatter.VerboseLog("warning: %s", w.Message())
	}

	disp := goverload.NewFuncDispatcher(reg)
	trace := disp.Explain(callArgs, callKwargs)

	result := ExplainResult{
		Set:         set.Name,
		Call:        renderSampleCall(set.Name, callArgs, callKwargs),
		WinnerIndex: trace.WinnerIndex,
	}
	for _, a := range trace.Attempts {
		result.Attempts = append(result.Attempts, ExplainAttempt{
			Index:     a.Index,
			Signature: a.Signature,
			Bound:     a.Bound,
			BindError: a.BindError,
			Score:     a.Score,
			Winner:    a.Winner,
		})
	}

	value, callErr := disp.CallKW(callArgs, callKwargs)
	if callErr != nil {
		var re *goverload.ResolveError
		if errors.As(callErr, &re) {
			result.Error = string(re.Code)
		} else {
			result.Error = callErr.Error()
		}
	} else {
		result.Result = value
	}

	if eo.record != "" {
		runID, err := recordRun(cmd, eo, result)
		if err != nil {
			return WrapExitError(ExitFailure, "recording run", err)
		}
		result.RunID = runID
	}

	if opts.Format == "json" {
		if err := formatter.JSON(result); err != nil {
			return err
		}
		if result.Error != "" {
			return NewExitError(ExitFailure, "no matching overload")
		}
		return nil
	}

	formatter.Text("call: %s", result.Call)
	for _, a := range result.Attempts {
		line := fmt.Sprintf("  [%d] %s", a.Index, a.Signature)
		if a.Bound {
			line += fmt.Sprintf(" score=%d", a.Score)
			if a.Winner {
				line += " <- winner"
			}
		} else {
			line += " no-bind " + a.BindError
		}
		formatter.Text("%s", line)
	}
	if result.Error != "" {
		formatter.Text("error: %s", result.Error)
		return NewExitError(ExitFailure, "no matching overload")
	}
	formatter.Text("result: %v", result.Result)
	if result.RunID != "" {
		formatter.Text("recorded: %s", result.RunID)
	}
	return nil
}

// buildSilent builds the registry with conflict warnings collected rather
// than logged; the caller decides how to surface them.
func buildSilent(set compiler.OverloadSet) (*goverload.Registry, []goverload.ConflictWarning, error) {
	return compiler.BuildRegistry(set, goverload.WithWarnFunc(func(goverload.ConflictWarning) {}))
}

func recordRun(cmd *cobra.Command, eo explainOptions, result ExplainResult) (string, error) {
	st, err := store.Open(eo.record)
	if err != nil {
		return "", err
	}
	defer st.Close()

	runID := uuid.Must(uuid.NewV7()).String()
	run := store.Run{
		ID:          runID,
		CreatedAt:   time.Now().UTC(),
		Source:      eo.path,
		Name:        result.Set,
		Call:        result.Call,
		WinnerIndex: result.WinnerIndex,
	}
	attempts := make([]store.Attempt, 0, len(result.Attempts))
	for _, a := range result.Attempts {
		attempts = append(attempts, store.Attempt{
			RunID:     runID,
			Index:     a.Index,
			Signature: a.Signature,
			Bound:     a.Bound,
			BindError: a.BindError,
			Score:     a.Score,
			Winner:    a.Winner,
		})
	}
	return runID, st.RecordRun(cmd.Context(), run, attempts)
}

// parseSampleCall decodes the --args array and --kwargs object. Decoding
// goes through json.Number so integral literals land as int, which is
// what concrete int constraints score against.
func parseSampleCall(argsJSON, kwargsJSON string) ([]any, map[string]any, error) {
	var rawArgs []any
	if err := decodeJSON(argsJSON, &rawArgs); err != nil {
		return nil, nil, fmt.Errorf("--args: %w", err)
	}

	var rawKwargs map[string]any
	if strings.TrimSpace(kwargsJSON) != "" {
		if err := decodeJSON(kwargsJSON, &rawKwargs); err != nil {
			return nil, nil, fmt.Errorf("--kwargs: %w", err)
		}
	}

	args := make([]any, len(rawArgs))
	for i, v := range rawArgs {
		args[i] = convertNumbers(v)
	}
	var kwargs map[string]any
	if len(rawKwargs) > 0 {
		kwargs = make(map[string]any, len(rawKwargs))
		for k, v := range rawKwargs {
			kwargs[k] = convertNumbers(v)
		}
	}
	return args, kwargs, nil
}

func decodeJSON(s string, dst any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	return dec.Decode(dst)
}

func convertNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if n, err := t.Int64(); err == nil {
				return int(n)
			}
		}
		f, _ := t.Float64()
		return f
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = convertNumbers(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = convertNumbers(e)
		}
		return out
	default:
		return v
	}
}

func renderSampleCall(name string, args []any, kwargs map[string]any) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, kwargs[k]))
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
