// Package activity stores the per-element activity stream of model edits:
// every committed, undone or redone change-set indexed by each element it
// touched.
package activity

import (
	"slices"
	"time"

	"github.com/matthewbaird/umlgen/internal/types"
)

// QueryOptions controls filtering and pagination for element activity queries.
type QueryOptions struct {
	Since      *time.Time
	Until      *time.Time
	Categories []string // "accessor", "constructor", "edit"
	MinWeight  string   // minimum weight threshold (default: "info")
	Role       string   // types.RoleSubject or types.RoleContext; empty keeps both
	Limit      int      // max results (default: 100, max: 500)
	Cursor     string   // occurred_at of the last entry of the previous page
}

// SearchOptions controls filtering for summary search.
type SearchOptions struct {
	EntityType string // filter to one element kind
	Since      *time.Time
	Categories []string
	Limit      int // max results (default: 20)
}

// DefaultQueryOptions returns QueryOptions with sensible defaults.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		MinWeight: "info",
		Limit:     100,
	}
}

// DefaultSearchOptions returns SearchOptions with sensible defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit: 20,
	}
}

// ValidRole reports whether role is accepted as a QueryOptions.Role.
func ValidRole(role string) bool {
	return role == "" || role == types.RoleSubject || role == types.RoleContext
}

// admits applies every filter except entity and cursor.
func (o QueryOptions) admits(e types.ActivityEntry) bool {
	switch {
	case o.Since != nil && e.OccurredAt.Before(*o.Since):
		return false
	case o.Until != nil && e.OccurredAt.After(*o.Until):
		return false
	case len(o.Categories) > 0 && !slices.Contains(o.Categories, e.Category):
		return false
	case o.MinWeight != "" && !types.IsAtLeastWeight(e.Weight, o.MinWeight):
		return false
	case o.Role != "" && e.EntityRole != o.Role:
		return false
	}
	return true
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
