package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goverload/goverload/internal/compiler"
)

func intPtr(n int) *int { return &n }

func twoCandidateScenario() *Scenario {
	return &Scenario{
		Name: "inline",
		Sets: []SetDef{{
			Name: "convert",
			Candidates: []compiler.CandidateDef{
				{Params: []compiler.ParamDef{{Name: "x", Type: "int"}}},
				{Params: []compiler.ParamDef{{Name: "x", Type: "string"}}},
			},
		}},
		Calls: []CallStep{
			{Set: "convert", Args: []any{7}},
			{Set: "convert", Args: []any{"s"}},
		},
	}
}

func TestRun_ResolvesCalls(t *testing.T) {
	runner := NewRunner(WithRunIDGenerator(NewFixedGenerator("test")))
	res, err := runner.Run(twoCandidateScenario())
	require.NoError(t, err)

	assert.Equal(t, "test-0001", res.RunID)
	assert.Equal(t, "inline", res.Scenario)
	require.Len(t, res.Sets, 1)
	assert.Equal(t, 2, res.Sets[0].Candidates)
	assert.Empty(t, res.Sets[0].Warnings)

	require.Len(t, res.Calls, 2)
	assert.Equal(t, "convert#0", res.Calls[0].Value)
	assert.Equal(t, "convert#1", res.Calls[1].Value)
	assert.False(t, res.Failed())
}

func TestRun_CollectsWarnings(t *testing.T) {
	s := &Scenario{
		Name: "warned",
		Sets: []SetDef{{
			Name: "pick",
			Candidates: []compiler.CandidateDef{
				{Params: []compiler.ParamDef{{Name: "x"}}},
				{Params: []compiler.ParamDef{{Name: "x"}}},
			},
		}},
	}

	res, err := NewRunner().Run(s)
	require.NoError(t, err)
	require.Len(t, res.Sets[0].Warnings, 1)
	assert.Contains(t, res.Sets[0].Warnings[0], `"pick"`)
}

func TestRun_StructuralErrorAborts(t *testing.T) {
	s := &Scenario{
		Name: "broken",
		Sets: []SetDef{{
			Name: "bad",
			Candidates: []compiler.CandidateDef{
				{Params: []compiler.ParamDef{{Name: "x", Type: "no-such"}}},
			},
		}},
	}

	_, err := NewRunner().Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `set "bad"`)
}

func TestRun_ExpectationOutcomes(t *testing.T) {
	s := twoCandidateScenario()
	s.Calls = []CallStep{
		{Set: "convert", Args: []any{7}, Expect: &ExpectClause{Winner: intPtr(0), Result: "convert#0"}},
		{Set: "convert", Args: []any{7}, Expect: &ExpectClause{Winner: intPtr(1)}},
		{Set: "convert", Args: []any{2.5}, Expect: &ExpectClause{Error: "NO_MATCHING_OVERLOAD"}},
		{Set: "convert", Args: []any{2.5}, Expect: &ExpectClause{Result: "convert#0"}},
	}

	res, err := NewRunner().Run(s)
	require.NoError(t, err)
	require.Len(t, res.Calls, 4)

	assert.True(t, res.Calls[0].Pass)

	assert.False(t, res.Calls[1].Pass, "wrong winner")
	assert.Contains(t, res.Calls[1].Detail, "expected winner 1")

	assert.True(t, res.Calls[2].Pass, "expected failure code matched")

	assert.False(t, res.Calls[3].Pass, "call failed but success expected")
	assert.Contains(t, res.Calls[3].Detail, "unexpected error")

	assert.True(t, res.Failed())
}

func TestRun_RejectsUndeclaredCallSet(t *testing.T) {
	// Scenarios built in code skip Load, so Run must validate itself.
	s := twoCandidateScenario()
	s.Calls = append(s.Calls, CallStep{Set: "ghost", Args: []any{1}})

	_, err := NewRunner().Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `undeclared set "ghost"`)
}

func TestRun_NormalizesDecodedIntegers(t *testing.T) {
	// yaml and CUE decoders hand over int64; a declared "int" constraint
	// must still match.
	s := twoCandidateScenario()
	s.Calls = []CallStep{
		{Set: "convert", Args: []any{int64(7)}, Expect: &ExpectClause{Winner: intPtr(0)}},
	}

	res, err := NewRunner().Run(s)
	require.NoError(t, err)
	assert.True(t, res.Calls[0].Pass)
}
