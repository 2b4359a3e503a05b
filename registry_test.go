package goverload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goverload/goverload/constraint"
	"github.com/goverload/goverload/signature"
)

func intStringSigs(t *testing.T) (*Candidate, *Candidate) {
	t.Helper()
	ci, err := NewCandidate(func(x int) string { return "int" },
		signature.MustNew(signature.P("x", constraint.Exact[int]())),
		WithDoc("handles ints"))
	require.NoError(t, err)
	cs, err := NewCandidate(func(x string) string { return "string" },
		signature.MustNew(signature.P("x", constraint.Exact[string]())),
		WithDoc("handles strings"))
	require.NoError(t, err)
	return ci, cs
}

func TestRegister_PreservesOrder(t *testing.T) {
	ci, cs := intStringSigs(t)
	reg := NewRegistry("convert")

	reg.Register(ci)
	reg.Register(cs)

	require.Equal(t, 2, reg.Len())
	cands := reg.Candidates()
	assert.Same(t, ci, cands[0])
	assert.Same(t, cs, cands[1])
}

func TestRegister_DisjointConstraintsNoWarning(t *testing.T) {
	ci, cs := intStringSigs(t)
	var warned []ConflictWarning
	reg := NewRegistry("convert", WithWarnFunc(func(w ConflictWarning) {
		warned = append(warned, w)
	}))

	assert.Empty(t, reg.Register(ci))
	assert.Empty(t, reg.Register(cs))
	assert.Empty(t, warned)
}

func TestRegister_OverlapWarnsAndStillAppends(t *testing.T) {
	ci, _ := intStringSigs(t)
	wild, err := NewCandidate(func(x any) string { return "any" },
		signature.MustNew(signature.P("x", nil)))
	require.NoError(t, err)

	var warned []ConflictWarning
	reg := NewRegistry("convert", WithWarnFunc(func(w ConflictWarning) {
		warned = append(warned, w)
	}))

	reg.Register(ci)
	ws := reg.Register(wild)

	require.Len(t, ws, 1)
	require.Len(t, warned, 1)
	assert.Same(t, ci, ws[0].Earlier)
	assert.Same(t, wild, ws[0].Later)
	assert.Contains(t, ws[0].Message(), `overload collision on "convert"`)
	assert.Contains(t, ws[0].Message(), "earlier registration wins")

	// Advisory only: both candidates dispatch.
	assert.Equal(t, 2, reg.Len())
	v, err := NewFuncDispatcher(reg).Call(1)
	require.NoError(t, err)
	assert.Equal(t, "int", v)
}

func TestScope_IsolatesIdenticalNames(t *testing.T) {
	a := NewRegistry("run", WithScope("pkg/a"))
	b := NewRegistry("run", WithScope("pkg/b"))

	assert.Equal(t, "run", a.Name())
	assert.Equal(t, "run", b.Name())
	assert.NotEqual(t, a.Scope(), b.Scope())
}

func TestDoc_ListsCandidatesInOrder(t *testing.T) {
	ci, cs := intStringSigs(t)
	reg := NewRegistry("convert")
	reg.Register(ci)
	reg.Register(cs)

	doc := reg.Doc()
	assert.Contains(t, doc, `Overloaded function "convert" with 2 signature(s):`)
	assert.Contains(t, doc, "- (x int): handles ints")
	assert.Contains(t, doc, "- (x string): handles strings")
}

func TestHelpFor_ReturnsWinnerDoc(t *testing.T) {
	ci, cs := intStringSigs(t)
	reg := NewRegistry("convert")
	reg.Register(ci)
	reg.Register(cs)

	doc, err := reg.HelpFor([]any{42}, nil)
	require.NoError(t, err)
	assert.Equal(t, "handles ints", doc)

	doc, err = reg.HelpFor([]any{"s"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "handles strings", doc)

	_, err = reg.HelpFor([]any{1.5}, nil)
	assert.True(t, IsNoMatch(err), "help fails exactly where dispatch would")
}
