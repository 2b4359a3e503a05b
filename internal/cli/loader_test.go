package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSets_SingleFile(t *testing.T) {
	res, err := LoadSets(filepath.Join("testdata", "area.cue"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.FileCount)
	require.Len(t, res.Sets, 2)
	assert.Equal(t, "area", res.Sets[0].Name)
	assert.Equal(t, "describe", res.Sets[1].Name)
}

func TestLoadSets_Directory(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "b.cue", `overloads: second: candidates: [{params: [{name: "x"}]}]`)
	writeCUE(t, dir, "a.cue", `overloads: first: candidates: [{params: [{name: "x"}]}]`)

	res, err := LoadSets(dir)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FileCount)
	require.Len(t, res.Sets, 2)
	// Files load in sorted order.
	assert.Equal(t, "first", res.Sets[0].Name)
	assert.Equal(t, "second", res.Sets[1].Name)
}

func TestLoadSets_NotFound(t *testing.T) {
	_, err := LoadSets("/no/such/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestLoadSets_EmptyDirectory(t *testing.T) {
	_, err := LoadSets(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .cue files")
}

func TestLoadSets_DuplicateSetAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "a.cue", `overloads: area: candidates: [{params: [{name: "x"}]}]`)
	writeCUE(t, dir, "b.cue", `overloads: area: candidates: [{params: [{name: "y"}]}]`)

	_, err := LoadSets(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `overload set "area" declared in both`)
}

func TestLoadSets_CompileErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	writeCUE(t, dir, "bad.cue", `overloads: area: candidates: []`)

	_, err := LoadSets(dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "bad.cue")
}

func TestFindSet(t *testing.T) {
	res, err := LoadSets(filepath.Join("testdata", "area.cue"))
	require.NoError(t, err)

	set, err := findSet(res, "describe")
	require.NoError(t, err)
	assert.Equal(t, "describe", set.Name)

	_, err = findSet(res, "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func writeCUE(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}
