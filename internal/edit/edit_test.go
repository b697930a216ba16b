package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func TestBuilderLifecycle(t *testing.T) {
	b := NewBuilder()
	c := uml.NewClass("Person")
	op := uml.NewOperation("getAge", uml.Public, c)

	require.NoError(t, b.Begin("generate getter & setter"))
	assert.True(t, b.Open())
	require.NoError(t, b.Insert(op))
	require.NoError(t, b.FieldInsert(c, uml.FieldOperations, op))

	cs, err := b.End()
	require.NoError(t, err)
	assert.False(t, b.Open())
	assert.Equal(t, "generate getter & setter", cs.Label)
	assert.Equal(t, []uml.Element{op}, cs.Inserted)
	require.Len(t, cs.Fields, 1)
	assert.Equal(t, uml.FieldOperations, cs.Fields[0].Field)
	assert.Empty(t, c.Operations, "End must not mutate the model")
}

func TestBuilderMisuse(t *testing.T) {
	b := NewBuilder()
	c := uml.NewClass("Person")

	assert.True(t, errors.Is(b.Insert(c), ErrNoScope))
	assert.True(t, errors.Is(b.FieldInsert(c, uml.FieldOperations, c), ErrNoScope))
	_, err := b.End()
	assert.True(t, errors.Is(err, ErrNoScope))

	require.NoError(t, b.Begin("a"))
	assert.True(t, errors.Is(b.Begin("b"), ErrScopeOpen))

	_, err = b.End()
	assert.True(t, errors.Is(err, ErrEmptyScope))
	assert.False(t, b.Open())

	require.NoError(t, b.Begin("c"))
	b.Discard()
	assert.False(t, b.Open())
}

func TestApplyAndRevert(t *testing.T) {
	c := uml.NewClass("Person")
	get := uml.NewOperation("getAge", uml.Public, c)
	set := uml.NewOperation("setAge", uml.Public, c)
	cs := &ChangeSet{
		Label: "pair",
		Fields: []FieldChange{
			{Parent: c, Field: uml.FieldOperations, Element: get},
			{Parent: c, Field: uml.FieldOperations, Element: set},
		},
	}

	require.NoError(t, cs.Check())
	require.NoError(t, cs.Apply())
	assert.Equal(t, []*uml.Operation{get, set}, c.Operations)

	require.NoError(t, cs.Revert())
	assert.Empty(t, c.Operations)
	assert.Error(t, cs.Revert())
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	c := uml.NewClass("Person")
	get := uml.NewOperation("getAge", uml.Public, c)
	cs := &ChangeSet{
		Label: "broken",
		Fields: []FieldChange{
			{Parent: c, Field: uml.FieldOperations, Element: get},
			{Parent: c, Field: "methods", Element: get},
		},
	}

	assert.True(t, errors.Is(cs.Check(), uml.ErrUnknownField))
	assert.Error(t, cs.Apply())
	assert.Empty(t, c.Operations)
}
