package activity

import (
	"context"
	"testing"
	"time"

	"github.com/matthewbaird/umlgen/internal/types"
)

func testEntry(entityType, entityID, category, weight, summary string, minutesAgo int) types.ActivityEntry {
	return types.ActivityEntry{
		EventID:           "test-" + summary,
		EventType:         "change_applied",
		OccurredAt:        time.Now().Add(-time.Duration(minutesAgo) * time.Minute),
		IndexedEntityType: entityType,
		IndexedEntityID:   entityID,
		EntityRole:        "context",
		Summary:           summary,
		Category:          category,
		Weight:            weight,
		Polarity:          "positive",
	}
}

func TestMemoryStore_WriteAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entries := []types.ActivityEntry{
		testEntry("class", "person", "accessor", "info", "getAge", 10),
		testEntry("class", "person", "constructor", "info", "Person()", 5),
		testEntry("class", "order", "accessor", "info", "getTotal", 10),
	}
	if err := store.WriteEntries(ctx, entries); err != nil {
		t.Fatalf("WriteEntries: %v", err)
	}

	results, _, total, err := store.QueryByEntity(ctx, "class", "person", DefaultQueryOptions())
	if err != nil {
		t.Fatalf("QueryByEntity: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Summary != "Person()" {
		t.Errorf("first = %q, want newest entry Person()", results[0].Summary)
	}
}

func TestMemoryStore_QueryByEntity_AnyType(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.WriteEntries(ctx, []types.ActivityEntry{
		testEntry("interface", "shape", "accessor", "info", "getArea", 1),
	})

	_, _, total, err := store.QueryByEntity(ctx, "", "shape", DefaultQueryOptions())
	if err != nil {
		t.Fatalf("QueryByEntity: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestMemoryStore_QueryByEntity_FilterCategory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.WriteEntries(ctx, []types.ActivityEntry{
		testEntry("class", "person", "accessor", "info", "getAge", 10),
		testEntry("class", "person", "constructor", "info", "Person()", 5),
	})

	opts := DefaultQueryOptions()
	opts.Categories = []string{"constructor"}
	results, _, total, err := store.QueryByEntity(ctx, "class", "person", opts)
	if err != nil {
		t.Fatalf("QueryByEntity: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("total = %d, results = %d, want 1/1", total, len(results))
	}
	if results[0].Category != "constructor" {
		t.Errorf("category = %q, want constructor", results[0].Category)
	}
}

func TestMemoryStore_QueryByEntity_MinWeight(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.WriteEntries(ctx, []types.ActivityEntry{
		testEntry("class", "person", "accessor", "info", "applied", 5),
		testEntry("class", "person", "accessor", "minor", "undone", 4),
	})

	opts := DefaultQueryOptions()
	opts.MinWeight = "minor"
	results, _, total, err := store.QueryByEntity(ctx, "class", "person", opts)
	if err != nil {
		t.Fatalf("QueryByEntity: %v", err)
	}
	if total != 1 || results[0].Summary != "undone" {
		t.Errorf("expected only the minor entry, got total=%d", total)
	}
}

func TestMemoryStore_QueryByEntity_Pagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var entries []types.ActivityEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, testEntry("class", "person", "accessor", "info", string(rune('a'+i)), i+1))
	}
	store.WriteEntries(ctx, entries)

	opts := DefaultQueryOptions()
	opts.Limit = 2
	page1, cursor, total, err := store.QueryByEntity(ctx, "class", "person", opts)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if total != 5 || len(page1) != 2 || cursor == "" {
		t.Fatalf("page 1: total=%d len=%d cursor=%q", total, len(page1), cursor)
	}

	opts.Cursor = cursor
	page2, _, _, err := store.QueryByEntity(ctx, "class", "person", opts)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page 2 len = %d, want 2", len(page2))
	}
	if page2[0].Summary != "c" {
		t.Errorf("page 2 first = %q, want c", page2[0].Summary)
	}
}

func TestMemoryStore_Search(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.WriteEntries(ctx, []types.ActivityEntry{
		testEntry("class", "person", "accessor", "info", "Person.getAge(): int", 3),
		testEntry("operation", "op-1", "accessor", "info", "Person.getAge(): int", 3),
		testEntry("class", "order", "accessor", "info", "Order.getTotal(): double", 2),
	})

	results, total, err := store.Search(ctx, "GETAGE", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Errorf("total = %d, len = %d, want 2/2", total, len(results))
	}

	opts := DefaultSearchOptions()
	opts.EntityType = "operation"
	_, total, _ = store.Search(ctx, "getAge", opts)
	if total != 1 {
		t.Errorf("filtered total = %d, want 1", total)
	}
}

func TestMemoryStore_QueryByEntity_Role(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	owner := testEntry("class", "person", "accessor", "info", "getAge as owner", 3)
	created := testEntry("class", "person", "accessor", "info", "Person created", 2)
	created.EntityRole = types.RoleSubject
	store.WriteEntries(ctx, []types.ActivityEntry{owner, created})

	opts := DefaultQueryOptions()
	opts.Role = types.RoleSubject
	results, _, total, err := store.QueryByEntity(ctx, "class", "person", opts)
	if err != nil {
		t.Fatalf("QueryByEntity: %v", err)
	}
	if total != 1 || results[0].Summary != "Person created" {
		t.Errorf("subject filter: total=%d", total)
	}

	opts.Role = types.RoleContext
	results, _, total, _ = store.QueryByEntity(ctx, "class", "person", opts)
	if total != 1 || results[0].Summary != "getAge as owner" {
		t.Errorf("context filter: total=%d", total)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"", types.RoleSubject, types.RoleContext} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	if ValidRole("owner") {
		t.Error("ValidRole(owner) = true")
	}
}
