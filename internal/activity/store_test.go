package activity

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/matthewbaird/umlgen/internal/types"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_WriteAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	e := testEntry("class", "person", "accessor", "info", "applied getAge", 1)
	e.SourceRefs = []types.SourceRef{{EntityType: "class", EntityID: "person", Role: "context"}}
	e.Payload = json.RawMessage(`{"label":"generate getter & setter"}`)
	require.NoError(t, s.WriteEntries(ctx, []types.ActivityEntry{
		e,
		testEntry("class", "person", "constructor", "info", "applied Person()", 0),
		testEntry("class", "order", "accessor", "info", "applied getTotal", 0),
	}))

	got, cursor, total, err := s.QueryByEntity(ctx, "class", "person", DefaultQueryOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Empty(t, cursor)
	require.Len(t, got, 2)
	assert.Equal(t, "applied Person()", got[0].Summary)
	assert.Equal(t, "applied getAge", got[1].Summary)
	assert.Equal(t, e.SourceRefs, got[1].SourceRefs)
	assert.JSONEq(t, string(e.Payload), string(got[1].Payload))
	assert.Equal(t, e.OccurredAt.UnixNano(), got[1].OccurredAt.UnixNano())
}

func TestSQLiteStore_DuplicatesIgnored(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	e := testEntry("class", "person", "accessor", "info", "applied getAge", 1)
	require.NoError(t, s.WriteEntries(ctx, []types.ActivityEntry{e}))
	require.NoError(t, s.WriteEntries(ctx, []types.ActivityEntry{e}))

	_, _, total, err := s.QueryByEntity(ctx, "class", "person", DefaultQueryOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSQLiteStore_FiltersAndPagination(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var entries []types.ActivityEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, testEntry("class", "person", "accessor", "info", string(rune('a'+i)), i+1))
	}
	entries = append(entries, testEntry("class", "person", "constructor", "minor", "undone", 30))
	require.NoError(t, s.WriteEntries(ctx, entries))

	opts := DefaultQueryOptions()
	opts.MinWeight = "minor"
	got, _, total, err := s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "undone", got[0].Summary)

	opts = DefaultQueryOptions()
	opts.Categories = []string{"accessor"}
	opts.Limit = 2
	page1, cursor, total, err := s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	require.NotEmpty(t, cursor)

	opts.Cursor = cursor
	page2, _, _, err := s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "c", page2[0].Summary)

	since := time.Now().Add(-150 * time.Second)
	opts = DefaultQueryOptions()
	opts.Since = &since
	_, _, total, err = s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSQLiteStore_Search(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.WriteEntries(ctx, []types.ActivityEntry{
		testEntry("class", "person", "accessor", "info", "Person.getAge(): int", 3),
		testEntry("operation", "op-1", "accessor", "info", "Person.getAge(): int", 3),
		testEntry("class", "order", "accessor", "info", "Order.getTotal(): double", 2),
	}))

	got, total, err := s.Search(ctx, "GETAGE", DefaultSearchOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	opts := DefaultSearchOptions()
	opts.EntityType = "operation"
	_, total, err = s.Search(ctx, "getage", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSQLiteStore_RoleFilter(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	owner := testEntry("class", "person", "accessor", "info", "getAge on Person", 2)
	owner.EventID = "evt-owner"
	self := testEntry("class", "person", "edit", "info", "Person added", 1)
	self.EventID = "evt-self"
	self.EntityRole = types.RoleSubject
	require.NoError(t, s.WriteEntries(ctx, []types.ActivityEntry{owner, self}))

	opts := DefaultQueryOptions()
	opts.Role = types.RoleContext
	got, _, total, err := s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "evt-owner", got[0].EventID)

	opts.Role = ""
	_, _, total, err = s.QueryByEntity(ctx, "class", "person", opts)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
