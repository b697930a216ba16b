package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/activity"
	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/types"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func accessorChange() (*uml.Classifier, *edit.ChangeSet) {
	c := uml.NewClass("Person")
	get := uml.NewOperation("getAge", uml.Public, c)
	get.AddParameter(uml.Return, "", uml.Named("int"))
	set := uml.NewOperation("setAge", uml.Public, c)
	set.AddParameter(uml.In, "value", uml.Named("int"))

	b := edit.NewBuilder()
	b.Begin("generate getter & setter")
	b.Insert(get)
	b.FieldInsert(c, uml.FieldOperations, get)
	b.Insert(set)
	b.FieldInsert(c, uml.FieldOperations, set)
	cs, _ := b.End()
	return c, cs
}

func TestNewChangeApplied(t *testing.T) {
	c, cs := accessorChange()
	evt := NewChangeApplied(cs)

	assert.Equal(t, ChangeApplied, evt.EventType)
	assert.Equal(t, "accessor", evt.Category)
	assert.Equal(t, "positive", evt.Polarity)
	assert.Equal(t, `applied "generate getter & setter": Person.getAge(): int, Person.setAge(value: int)`, evt.Summary)

	require.Len(t, evt.AffectedEntities, 3, "one context ref for the class plus one subject per operation")
	assert.Equal(t, c.ID.String(), evt.AffectedEntities[0].EntityID)
	assert.Equal(t, "context", evt.AffectedEntities[0].Role)
	assert.Equal(t, "operation", evt.AffectedEntities[1].EntityType)

	var p ChangePayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, cs.ID.String(), p.ChangeSetID)
	require.Len(t, p.Members, 2)
	assert.Equal(t, "setAge(value: int)", p.Members[1].Signature)
}

func TestUndoRedoEvents(t *testing.T) {
	_, cs := accessorChange()
	undone := NewChangeUndone(cs)
	assert.Equal(t, "negative", undone.Polarity)
	assert.Equal(t, "minor", undone.Weight)
	assert.Contains(t, undone.Summary, "undid")

	redone := NewChangeRedone(cs)
	assert.Equal(t, ChangeRedone, redone.EventType)
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, "constructor", categoryOf("generate constructor"))
	assert.Equal(t, "edit", categoryOf("rename"))
}

type publisher struct{ got []DomainEvent }

func (p *publisher) Publish(_ context.Context, evt DomainEvent) { p.got = append(p.got, evt) }

func TestActivityRecorder(t *testing.T) {
	ctx := context.Background()
	c, cs := accessorChange()
	store := activity.NewMemoryStore()
	pub := &publisher{}
	rec := NewActivityRecorder(store)
	rec.SetPublisher(pub)

	evt := NewChangeApplied(cs)
	require.NoError(t, rec.Record(ctx, evt))
	require.Len(t, pub.got, 1)

	entries, _, total, err := store.QueryByEntity(ctx, "class", c.ID.String(), activity.DefaultQueryOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, evt.ID, entries[0].EventID)
	assert.Len(t, entries[0].SourceRefs, 3)

	op := cs.Fields[0].Element
	_, _, total, err = store.QueryByEntity(ctx, "operation", op.ElementID().String(), activity.DefaultQueryOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

type failingStore struct{ activity.Store }

func (failingStore) WriteEntries(context.Context, []types.ActivityEntry) error {
	return errors.New("disk full")
}

func TestActivityRecorderStoreFailureSkipsPublish(t *testing.T) {
	_, cs := accessorChange()
	pub := &publisher{}
	rec := NewActivityRecorder(failingStore{})
	rec.SetPublisher(pub)

	err := rec.Record(context.Background(), NewChangeApplied(cs))
	assert.ErrorContains(t, err, "journal change_applied")
	assert.Empty(t, pub.got)
}

func TestActivityRecorderRejectsInvalidEvent(t *testing.T) {
	err := NewActivityRecorder(activity.NewMemoryStore()).Record(context.Background(), DomainEvent{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestActivityRecorderPublishesEventWithoutEntities(t *testing.T) {
	pub := &publisher{}
	rec := NewActivityRecorder(failingStore{})
	rec.SetPublisher(pub)

	require.NoError(t, rec.Record(context.Background(), DomainEvent{ID: "e1", EventType: ChangeApplied}))
	assert.Len(t, pub.got, 1)
}

func TestEntries(t *testing.T) {
	_, cs := accessorChange()
	evt := NewChangeUndone(cs)
	entries := Entries(evt)
	require.Len(t, entries, 3)
	assert.Equal(t, "context", entries[0].EntityRole)
	assert.Equal(t, "subject", entries[1].EntityRole)
	for _, e := range entries {
		assert.Equal(t, "negative", e.Polarity)
		assert.Equal(t, evt.ID, e.EventID)
	}
}
