package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func person() (*uml.Project, *uml.Classifier) {
	p := uml.NewProject("demo")
	c := p.AddPackage("shop").AddClass("Person")
	c.AddAttribute("age", uml.Named("int"))
	c.AddAttribute("name", uml.Named("String"))
	return p, c
}

func signatures(c *uml.Classifier) []string {
	var out []string
	for _, op := range c.Operations {
		out = append(out, op.Signature())
	}
	return out
}

func TestGenerateGetterSetterCamelCase(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))

	ops, err := b.GenerateGetterSetter(context.Background(), c.Attribute("age"), naming.CamelCase.Transform())
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, []string{"getAge(): int", "setAge(value: int)"}, signatures(c))
	assert.Len(t, c.Attributes, 2, "attributes are never touched")

	getter, setter := c.Operations[0], c.Operations[1]
	assert.Equal(t, uml.Public, getter.Visibility)
	assert.Same(t, c, getter.Parent)
	require.Len(t, getter.Parameters, 1)
	assert.Equal(t, uml.Return, getter.Parameters[0].Direction)
	assert.Equal(t, "int", getter.Parameters[0].Type.String())

	require.Len(t, setter.Parameters, 1)
	assert.Equal(t, uml.In, setter.Parameters[0].Direction)
	assert.Equal(t, "value", setter.Parameters[0].Name)
}

func TestGenerateGetterSetterSnakeCase(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))

	_, err := b.GenerateGetterSetter(context.Background(), c.Attribute("age"), naming.SnakeCase)
	require.NoError(t, err)
	assert.Equal(t, []string{"get_age(): int", "set_age(value: int)"}, signatures(c))
}

func TestGenerateGetterSetterDefaultsToFirstUpperCase(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))

	_, err := b.GenerateGetterSetter(context.Background(), c.Attribute("name"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"getName(): String", "setName(value: String)"}, signatures(c))
}

func TestGenerateGetterSetterIsNotIdempotent(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))
	ctx := context.Background()

	for range 2 {
		_, err := b.GenerateGetterSetter(ctx, c.Attribute("age"), nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"getAge(): int", "setAge(value: int)",
		"getAge(): int", "setAge(value: int)",
	}, signatures(c))
}

func TestGenerateGetterSetterIsOneUndoableUnit(t *testing.T) {
	p, c := person()
	repo := repository.New(p)
	b := New(repo)
	ctx := context.Background()

	_, err := b.GenerateGetterSetter(ctx, c.Attribute("age"), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{LabelGetterSetter}, repo.History())

	_, err = repo.Undo(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Operations)
}

func TestGenerateGetterSetterWithoutParent(t *testing.T) {
	var calls int
	b := New(edit.ApplierFunc(func(context.Context, *edit.ChangeSet) error {
		calls++
		return nil
	}))

	_, err := b.GenerateGetterSetter(context.Background(), &uml.Attribute{Name: "orphan"}, nil)
	assert.ErrorIs(t, err, ErrNoParent)
	_, err = b.GenerateGetterSetter(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilAttribute)
	assert.Zero(t, calls)
}

func TestCommitFailurePropagates(t *testing.T) {
	_, c := person()
	rejected := errors.New("repository is read-only")
	b := New(edit.ApplierFunc(func(context.Context, *edit.ChangeSet) error {
		return rejected
	}))

	_, err := b.GenerateGetterSetter(context.Background(), c.Attribute("age"), nil)
	assert.ErrorIs(t, err, rejected)
	_, err = b.GenerateConstructor(context.Background(), c, nil, true)
	assert.ErrorIs(t, err, rejected)
	assert.Empty(t, c.Operations)
}

func TestGetterSetterChangeSetShape(t *testing.T) {
	_, c := person()
	var got *edit.ChangeSet
	b := New(edit.ApplierFunc(func(_ context.Context, cs *edit.ChangeSet) error {
		got = cs
		return nil
	}))

	_, err := b.GenerateGetterSetter(context.Background(), c.Attribute("age"), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, LabelGetterSetter, got.Label)
	require.Len(t, got.Inserted, 2)
	require.Len(t, got.Fields, 2)
	for i, fc := range got.Fields {
		assert.Same(t, c, fc.Parent)
		assert.Equal(t, uml.FieldOperations, fc.Field)
		assert.Equal(t, got.Inserted[i], fc.Element)
	}
}

func TestGenerateFullJavaConstructor(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))

	ctor, err := b.GenerateConstructor(context.Background(), c, naming.Java.ConstructorName(), true)
	require.NoError(t, err)

	require.Len(t, c.Operations, 1)
	assert.Same(t, ctor, c.Operations[0])
	assert.Equal(t, "Person(age: int, name: String)", ctor.Signature())
	require.Len(t, ctor.Parameters, 3)
	last := ctor.Parameters[2]
	assert.Equal(t, uml.Return, last.Direction)
	assert.True(t, last.Type.IsVoid())
}

func TestGenerateEmptyJSConstructor(t *testing.T) {
	p, c := person()
	b := New(repository.New(p))

	ctor, err := b.GenerateConstructor(context.Background(), c, naming.JSConstructorName, false)
	require.NoError(t, err)

	assert.Equal(t, "constructor", ctor.Name)
	assert.Empty(t, ctor.Inputs())
	require.Len(t, ctor.Parameters, 1)
	assert.True(t, ctor.Parameters[0].Type.IsVoid())
}

func TestGenerateConstructorNilClassifier(t *testing.T) {
	b := New(edit.ApplierFunc(func(context.Context, *edit.ChangeSet) error { return nil }))
	_, err := b.GenerateConstructor(context.Background(), nil, nil, true)
	assert.ErrorIs(t, err, ErrNilClassifier)
}
