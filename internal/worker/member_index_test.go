package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func getterChange(t *testing.T) *edit.ChangeSet {
	t.Helper()
	c := uml.NewClass("Person")
	op := uml.NewOperation("getAge", uml.Public, c)
	op.AddParameter(uml.Return, "", uml.Named("int"))

	b := edit.NewBuilder()
	require.NoError(t, b.Begin("generate getter & setter"))
	require.NoError(t, b.Insert(op))
	require.NoError(t, b.FieldInsert(c, uml.FieldOperations, op))
	cs, err := b.End()
	require.NoError(t, err)
	return cs
}

func TestMemberIndexFollowsUndoRedo(t *testing.T) {
	ctx := context.Background()
	idx := NewMemberIndex()
	cs := getterChange(t)

	require.NoError(t, idx.HandleEvent(ctx, event.NewChangeApplied(cs)))
	assert.Equal(t, map[string][]string{"Person": {"getAge(): int"}}, idx.Snapshot())

	require.NoError(t, idx.HandleEvent(ctx, event.NewChangeUndone(cs)))
	assert.Empty(t, idx.Snapshot())
	assert.Equal(t, 0, idx.Len())

	require.NoError(t, idx.HandleEvent(ctx, event.NewChangeRedone(cs)))
	assert.Equal(t, 1, idx.Len())
}

func TestMemberIndexRejectsBadPayload(t *testing.T) {
	err := NewMemberIndex().HandleEvent(context.Background(), event.DomainEvent{EventType: event.ChangeApplied, Payload: []byte("{")})
	assert.ErrorContains(t, err, "member index")
}
