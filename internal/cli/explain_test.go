package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goverload/goverload/internal/store"
)

func TestExplain_PicksWinner(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewExplainCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "area", "--args", "[3.5]"})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "call: area(3.5)")
	assert.Contains(t, out, "[0] (r float64) score=1 <- winner")
	assert.Contains(t, out, "no-bind")
	assert.Contains(t, out, "result: area#0")
}

func TestExplain_JSONResult(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewExplainCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "area.cue"), "area",
		"--args", "[2.5, 4.5]",
	})

	err := cmd.Execute()
	require.NoError(t, err)

	var res ExplainResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, "area", res.Set)
	assert.Equal(t, 1, res.WinnerIndex)
	assert.Equal(t, "area#1", res.Result)
	require.Len(t, res.Attempts, 2)
	assert.False(t, res.Attempts[0].Bound)
	assert.True(t, res.Attempts[1].Winner)
}

func TestExplain_IntegralJSONNumbersMatchIntConstraints(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewExplainCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "describe", "--args", "[7]"})

	err := cmd.Execute()
	require.NoError(t, err)

	var res ExplainResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, 0, res.WinnerIndex, "7 should land on the int candidate, not the wildcard")
}

func TestExplain_NoMatchFails(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewExplainCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "area", "--args", `["nope"]`})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "error: NO_MATCHING_OVERLOAD")
}

func TestExplain_UnknownSet(t *testing.T) {
	cmd := NewExplainCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "ghost"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExplain_BadArgsJSON(t *testing.T) {
	cmd := NewExplainCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "area", "--args", "{not json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExplain_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	buf := &bytes.Buffer{}
	cmd := NewExplainCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "area.cue"), "area",
		"--args", "[3.5]",
		"--record", dbPath,
	})

	err := cmd.Execute()
	require.NoError(t, err)

	var res ExplainResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	require.NotEmpty(t, res.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].ID)
	assert.Equal(t, "area(3.5)", runs[0].Call)
	assert.Equal(t, 0, runs[0].WinnerIndex)

	attempts, err := st.GetAttempts(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Len(t, attempts, 2)
}

func TestParseSampleCall_NumberConversion(t *testing.T) {
	args, kwargs, err := parseSampleCall(`[1, 2.5, "s", [3, 4.5], {"n": 6}]`, `{"k": 7}`)
	require.NoError(t, err)

	assert.Equal(t, []any{1, 2.5, "s", []any{3, 4.5}, map[string]any{"n": 6}}, args)
	assert.Equal(t, map[string]any{"k": 7}, kwargs)
}
