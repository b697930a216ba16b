package activity

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/matthewbaird/umlgen/internal/types"
)

// MemoryStore keeps the journal in process. Entries are held in write order
// and indexed by the element they were recorded against, so element queries
// never scan other elements' history.
type MemoryStore struct {
	mu        sync.RWMutex
	log       []types.ActivityEntry
	byElement map[string][]int // IndexedEntityID -> positions in log
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byElement: make(map[string][]int)}
}

func (s *MemoryStore) WriteEntries(_ context.Context, entries []types.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.byElement[e.IndexedEntityID] = append(s.byElement[e.IndexedEntityID], len(s.log))
		s.log = append(s.log, e)
	}
	return nil
}

// QueryByEntity pages through one element's history, newest first. Entries
// of the same change-set share a timestamp and keep the order they were
// written in.
func (s *MemoryStore) QueryByEntity(_ context.Context, entityType, entityID string, opts QueryOptions) ([]types.ActivityEntry, string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var before time.Time
	if opts.Cursor != "" {
		before, _ = time.Parse(time.RFC3339Nano, opts.Cursor)
	}

	var page []types.ActivityEntry
	total := 0
	for _, pos := range s.byElement[entityID] {
		e := s.log[pos]
		if entityType != "" && e.IndexedEntityType != entityType {
			continue
		}
		if !opts.admits(e) {
			continue
		}
		total++
		if !before.IsZero() && !e.OccurredAt.Before(before) {
			continue
		}
		page = append(page, e)
	}
	newestFirst(page)

	limit := normalizeLimit(opts.Limit)
	if len(page) <= limit {
		return page, "", total, nil
	}
	page = page[:limit]
	return page, page[limit-1].OccurredAt.Format(time.RFC3339Nano), total, nil
}

// Search matches query case-insensitively against summaries.
func (s *MemoryStore) Search(_ context.Context, query string, opts SearchOptions) ([]types.ActivityEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var hits []types.ActivityEntry
	for _, e := range s.log {
		switch {
		case !strings.Contains(strings.ToLower(e.Summary), q):
		case opts.EntityType != "" && e.IndexedEntityType != opts.EntityType:
		case opts.Since != nil && e.OccurredAt.Before(*opts.Since):
		case len(opts.Categories) > 0 && !slices.Contains(opts.Categories, e.Category):
		default:
			hits = append(hits, e)
		}
	}
	newestFirst(hits)

	total := len(hits)
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, total, nil
}

func newestFirst(entries []types.ActivityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
}
