package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_CleanDeclarations(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue")})

	err := cmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "validated 2 overload set(s)")
	// "describe" carries a wildcard over "int": an expected advisory.
	assert.Contains(t, out, `conflict: overload collision on "describe"`)
}

func TestValidate_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue")})

	err := cmd.Execute()
	require.NoError(t, err)

	var res ValidationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Sets)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "describe", res.Conflicts[0].Set)
	assert.Equal(t, 0, res.Conflicts[0].Earlier)
	assert.Equal(t, 1, res.Conflicts[0].Later)
}

func TestValidate_StrictFailsOnConflicts(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "area.cue"), "--strict"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidate_NoConflicts(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "clean.cue", `
overloads: convert: candidates: [
	{params: [{name: "x", type: "int"}]},
	{params: [{name: "x", type: "string"}]},
]
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir, "--strict"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no conflicts detected")
}

func TestValidate_MissingPath(t *testing.T) {
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/no/such/path"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
