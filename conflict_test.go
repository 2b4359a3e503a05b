package goverload

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goverload/goverload/constraint"
	"github.com/goverload/goverload/signature"
)

func TestOverlaps_DisjointArityRanges(t *testing.T) {
	one := signature.MustNew(signature.P("x", nil))
	three := signature.MustNew(
		signature.P("x", nil), signature.P("y", nil), signature.P("z", nil))

	assert.False(t, Overlaps(one, three))
	assert.False(t, Overlaps(three, one))
}

func TestOverlaps_VariadicIsUnbounded(t *testing.T) {
	one := signature.MustNew(signature.P("x", nil))
	variadic := signature.MustNew(
		signature.P("a", nil), signature.P("b", nil), signature.Var("rest", nil))

	// min 2 vs max 1: the variadic still cannot reach down to one
	// argument.
	assert.False(t, Overlaps(one, variadic))

	short := signature.MustNew(signature.Var("rest", nil))
	assert.True(t, Overlaps(one, short))
}

func TestOverlaps_DisjointSharedConstraint(t *testing.T) {
	a := signature.MustNew(signature.P("x", constraint.Exact[int]()))
	b := signature.MustNew(signature.P("x", constraint.Exact[string]()))

	assert.False(t, Overlaps(a, b), "no value is both int and string")
}

func TestOverlaps_SameConcreteType(t *testing.T) {
	a := signature.MustNew(signature.P("x", constraint.Exact[int]()))
	b := signature.MustNew(signature.P("x", constraint.Exact[int]()))

	assert.True(t, Overlaps(a, b))
}

func TestOverlaps_WildcardAlwaysSharesValues(t *testing.T) {
	wild := signature.MustNew(signature.P("x", nil))
	typed := signature.MustNew(signature.P("x", constraint.Exact[int]()))

	assert.True(t, Overlaps(wild, typed))
	assert.True(t, Overlaps(typed, wild))
}

func TestOverlaps_UnionsIntersectByMember(t *testing.T) {
	intOrString := signature.MustNew(signature.P("x",
		constraint.OneOf(constraint.Exact[int](), constraint.Exact[string]())))
	stringOrFloat := signature.MustNew(signature.P("x",
		constraint.OneOf(constraint.Exact[string](), constraint.Exact[float64]())))
	boolOnly := signature.MustNew(signature.P("x", constraint.Exact[bool]()))

	assert.True(t, Overlaps(intOrString, stringOrFloat), "string is common")
	assert.False(t, Overlaps(intOrString, boolOnly))
}

func TestOverlaps_ErasedVsConcrete(t *testing.T) {
	erased := signature.MustNew(signature.P("x", constraint.Erased{Kind: reflect.Slice}))
	intSlice := signature.MustNew(signature.P("x", constraint.Exact[[]int]()))
	scalar := signature.MustNew(signature.P("x", constraint.Exact[int]()))

	assert.True(t, Overlaps(erased, intSlice), "kind matches")
	assert.False(t, Overlaps(erased, scalar))

	erasedMap := signature.MustNew(signature.P("x", constraint.Erased{Kind: reflect.Map}))
	assert.False(t, Overlaps(erased, erasedMap))
}

func TestOverlaps_DifferentNamesDontConstrain(t *testing.T) {
	// Constraint comparison only runs on shared parameter names; a name
	// present in just one signature cannot rule the overlap out.
	a := signature.MustNew(signature.P("x", constraint.Exact[int]()))
	b := signature.MustNew(signature.P("y", constraint.Exact[string]()))

	assert.True(t, Overlaps(a, b))
}

func TestOverlaps_DefaultedParamsWidenArity(t *testing.T) {
	bare := signature.MustNew(signature.P("x", nil))
	defaulted := signature.MustNew(
		signature.P("x", nil), signature.PDefault("y", nil, 0))

	// The defaulted signature also accepts one-argument calls.
	assert.True(t, Overlaps(bare, defaulted))
}
