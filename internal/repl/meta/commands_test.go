package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	p := uml.NewProject("demo")
	c := p.AddPackage("shop").AddClass("Person")
	c.AddAttribute("age", uml.Named("int"))
	return New(repository.New(p))
}

func TestHelp(t *testing.T) {
	h := newHandler(t)
	sess := session.NewSession()

	res, err := h.Execute(sess, "help", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Output, "run <command> [path...]")

	res, err = h.Execute(sess, "help", []string{"run"})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "generate_full_constructor_js")

	res, err = h.Execute(sess, "help", []string{"nope"})
	require.NoError(t, err)
	assert.Equal(t, "No help available for 'nope'", res.Output)
}

func TestClearAndHistory(t *testing.T) {
	h := newHandler(t)
	sess := session.NewSession()

	res, err := h.Execute(sess, "clear", nil)
	require.NoError(t, err)
	assert.True(t, res.Clear)

	res, err = h.Execute(sess, "history", nil)
	require.NoError(t, err)
	assert.Equal(t, "(no history)", res.Output)

	sess.AddHistory("select Person")
	res, err = h.Execute(sess, "history", nil)
	require.NoError(t, err)
	assert.Equal(t, "  1  select Person\n", res.Output)
}

func TestModel(t *testing.T) {
	h := newHandler(t)
	sess := session.NewSession()

	res, err := h.Execute(sess, "model", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Output, "class Person (1 attributes, 0 operations)")

	res, err = h.Execute(sess, "model", []string{"Person"})
	require.NoError(t, err)
	assert.Equal(t, "class shop.Person\n  private   age: int\n", res.Output)

	_, err = h.Execute(sess, "model", []string{"Person.age"})
	assert.ErrorContains(t, err, "not a class")

	_, err = h.Execute(sess, "model", []string{"Ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUnknownMeta(t *testing.T) {
	_, err := newHandler(t).Execute(session.NewSession(), "bogus", nil)
	assert.ErrorIs(t, err, ErrUnknownMeta)
}
