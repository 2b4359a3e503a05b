package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, src string) ([]OverloadSet, error) {
	t.Helper()
	v := cuecontext.New().CompileString(src)
	return CompileSets(v)
}

func TestCompileSets_DeclarationOrder(t *testing.T) {
	sets, err := compileSource(t, `
overloads: {
	area: {
		candidates: [
			{doc: "circle", params: [{name: "r", type: "float64"}]},
			{doc: "rect", params: [
				{name: "w", type: "float64"},
				{name: "h", type: "float64"},
			]},
		]
	}
	render: {
		candidates: [
			{params: [{name: "text", type: "string"}]},
		]
	}
}
`)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "area", sets[0].Name)
	assert.Equal(t, "render", sets[1].Name)
	require.Len(t, sets[0].Candidates, 2)
	assert.Equal(t, "circle", sets[0].Candidates[0].Doc)
}

func TestCompileSets_BuildsSignatures(t *testing.T) {
	sets, err := compileSource(t, `
overloads: join: candidates: [
	{params: [
		{name: "sep", type: "string"},
		{name: "upper", type: "bool", default: false},
		{name: "parts", type: "string", variadic: true},
		{name: "opts", keyword: true},
	]},
]
`)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	sig, err := sets[0].Candidates[0].Signature()
	require.NoError(t, err)
	assert.Equal(t, "(sep string, upper bool = false, parts ...string, **opts any)", sig.String())
}

func TestCompileSets_MissingOverloads(t *testing.T) {
	_, err := compileSource(t, `something: {}`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "overloads", ce.Field)
}

func TestCompileSets_EmptyCandidates(t *testing.T) {
	_, err := compileSource(t, `overloads: area: candidates: []`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "area")
}

func TestCompileSets_MissingCandidates(t *testing.T) {
	_, err := compileSource(t, `overloads: area: {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "candidates")
}

func TestCompileSets_BadConstraintSurfacesAtCompile(t *testing.T) {
	_, err := compileSource(t, `
overloads: area: candidates: [
	{params: [{name: "x", type: "complex256"}]},
]
`)
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Field, "candidates[0]")
	assert.Contains(t, ce.Message, "complex256")
}

func TestCompileSets_BadSignatureShape(t *testing.T) {
	_, err := compileSource(t, `
overloads: area: candidates: [
	{params: [
		{name: "rest", type: "any", variadic: true},
		{name: "x", type: "int"},
	]},
]
`)
	require.Error(t, err, "plain parameter after variadic")
}

func TestCompileSets_AbsentTypeIsWildcard(t *testing.T) {
	sets, err := compileSource(t, `
overloads: f: candidates: [
	{params: [{name: "x"}]},
]
`)
	require.NoError(t, err)

	sig, err := sets[0].Candidates[0].Signature()
	require.NoError(t, err)
	assert.Equal(t, "(x any)", sig.String())

	p, ok := sig.Param("x")
	require.True(t, ok)
	assert.False(t, p.HasDefault)
}
