package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/types"
)

// Store is the interface for reading and writing activity entries.
type Store interface {
	// WriteEntries writes one or more activity entries (one event → many entries).
	WriteEntries(ctx context.Context, entries []types.ActivityEntry) error

	// QueryByEntity returns activity entries for a specific element, newest first.
	QueryByEntity(ctx context.Context, entityType, entityID string, opts QueryOptions) (entries []types.ActivityEntry, nextCursor string, totalCount int, err error)

	// Search matches a substring of entry summaries, case-insensitively.
	Search(ctx context.Context, query string, opts SearchOptions) (entries []types.ActivityEntry, totalCount int, err error)
}

const table = "activity_entries"

var columns = []string{
	"event_id", "event_type", "occurred_at", "indexed_entity_type", "indexed_entity_id",
	"entity_role", "source_refs", "summary", "category", "weight", "polarity", "payload",
}

// SQLiteStore implements Store on a SQLite table. Queries are built with
// ent's SQL builder and run through its driver.
type SQLiteStore struct {
	drv *entsql.Driver
}

// OpenSQLite opens (creating if needed) the journal database at path using
// the modernc.org/sqlite driver. The caller must import the driver.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "opening activity database")
	}
	db.SetMaxOpenConns(1)
	s := NewSQLiteStore(entsql.OpenDB(dialect.SQLite, db))
	if err := s.CreateTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an ent SQL driver.
func NewSQLiteStore(drv *entsql.Driver) *SQLiteStore {
	return &SQLiteStore{drv: drv}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.drv.Close()
}

// CreateTable creates the activity_entries table and its index.
func (s *SQLiteStore) CreateTable(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activity_entries (
			event_id            TEXT NOT NULL,
			event_type          TEXT NOT NULL,
			occurred_at         INTEGER NOT NULL,
			indexed_entity_type TEXT NOT NULL,
			indexed_entity_id   TEXT NOT NULL,
			entity_role         TEXT NOT NULL,
			source_refs         TEXT NOT NULL DEFAULT '[]',
			summary             TEXT NOT NULL,
			category            TEXT NOT NULL,
			weight              TEXT NOT NULL,
			polarity            TEXT NOT NULL,
			payload             TEXT,
			PRIMARY KEY (indexed_entity_type, indexed_entity_id, occurred_at, event_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_entity_time
			ON activity_entries (indexed_entity_id, occurred_at DESC)`,
	}
	for _, stmt := range stmts {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return errors.Wrap(err, "creating activity table")
		}
	}
	return nil
}

// WriteEntries inserts entries in one statement. Duplicates are ignored.
func (s *SQLiteStore) WriteEntries(ctx context.Context, entries []types.ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ins := entsql.Dialect(dialect.SQLite).Insert(table).Columns(columns...)
	for _, e := range entries {
		refsJSON, err := json.Marshal(e.SourceRefs)
		if err != nil {
			return errors.Wrap(err, "encoding source refs")
		}
		ins.Values(
			e.EventID, e.EventType, e.OccurredAt.UnixNano(), e.IndexedEntityType, e.IndexedEntityID,
			e.EntityRole, string(refsJSON), e.Summary, e.Category, e.Weight, e.Polarity, string(e.Payload),
		)
	}
	ins.OnConflict(entsql.DoNothing())

	query, args := ins.Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return errors.Wrap(err, "inserting activity entries")
	}
	return nil
}

// QueryByEntity returns activity entries for a specific element with filtering and pagination.
func (s *SQLiteStore) QueryByEntity(ctx context.Context, entityType, entityID string, opts QueryOptions) ([]types.ActivityEntry, string, int, error) {
	limit := normalizeLimit(opts.Limit)

	preds := []*entsql.Predicate{entsql.EQ("indexed_entity_id", entityID)}
	if entityType != "" {
		preds = append(preds, entsql.EQ("indexed_entity_type", entityType))
	}
	if opts.Since != nil {
		preds = append(preds, entsql.GTE("occurred_at", opts.Since.UnixNano()))
	}
	if opts.Until != nil {
		preds = append(preds, entsql.LTE("occurred_at", opts.Until.UnixNano()))
	}
	if len(opts.Categories) > 0 {
		preds = append(preds, entsql.In("category", anySlice(opts.Categories)...))
	}
	if opts.MinWeight != "" && opts.MinWeight != types.WeightInfo {
		var allowed []string
		for _, w := range []string{types.WeightInfo, types.WeightMinor, types.WeightMajor, types.WeightCritical} {
			if types.IsAtLeastWeight(w, opts.MinWeight) {
				allowed = append(allowed, w)
			}
		}
		preds = append(preds, entsql.In("weight", anySlice(allowed)...))
	}
	if opts.Role != "" {
		preds = append(preds, entsql.EQ("entity_role", opts.Role))
	}
	total, err := s.count(ctx, preds)
	if err != nil {
		return nil, "", 0, err
	}
	if opts.Cursor != "" {
		if cursorTime, err := time.Parse(time.RFC3339Nano, opts.Cursor); err == nil {
			preds = append(preds, entsql.LT("occurred_at", cursorTime.UnixNano()))
		}
	}

	entries, err := s.selectEntries(ctx, preds, limit+1)
	if err != nil {
		return nil, "", 0, err
	}

	var nextCursor string
	if len(entries) > limit {
		entries = entries[:limit]
		nextCursor = entries[len(entries)-1].OccurredAt.Format(time.RFC3339Nano)
	}
	return entries, nextCursor, total, nil
}

// Search matches query against entry summaries.
func (s *SQLiteStore) Search(ctx context.Context, query string, opts SearchOptions) ([]types.ActivityEntry, int, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	preds := []*entsql.Predicate{entsql.ContainsFold("summary", query)}
	if opts.EntityType != "" {
		preds = append(preds, entsql.EQ("indexed_entity_type", opts.EntityType))
	}
	if opts.Since != nil {
		preds = append(preds, entsql.GTE("occurred_at", opts.Since.UnixNano()))
	}
	if len(opts.Categories) > 0 {
		preds = append(preds, entsql.In("category", anySlice(opts.Categories)...))
	}

	total, err := s.count(ctx, preds)
	if err != nil {
		return nil, 0, err
	}
	entries, err := s.selectEntries(ctx, preds, limit)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *SQLiteStore) count(ctx context.Context, preds []*entsql.Predicate) (int, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(table)).
		Where(entsql.And(preds...))
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, errors.Wrap(err, "counting activity entries")
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, errors.Wrap(err, "scanning activity count")
		}
	}
	return n, rows.Err()
}

func (s *SQLiteStore) selectEntries(ctx context.Context, preds []*entsql.Predicate, limit int) ([]types.ActivityEntry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc("occurred_at")).
		Limit(limit)
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, errors.Wrap(err, "querying activity entries")
	}
	defer rows.Close()

	var entries []types.ActivityEntry
	for rows.Next() {
		var (
			e                 types.ActivityEntry
			occurred          int64
			refsJSON, payload sql.NullString
		)
		err := rows.Scan(
			&e.EventID, &e.EventType, &occurred, &e.IndexedEntityType, &e.IndexedEntityID,
			&e.EntityRole, &refsJSON, &e.Summary, &e.Category, &e.Weight, &e.Polarity, &payload,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scanning activity entry")
		}
		e.OccurredAt = time.Unix(0, occurred)
		if refsJSON.Valid && refsJSON.String != "" {
			_ = json.Unmarshal([]byte(refsJSON.String), &e.SourceRefs)
		}
		if payload.Valid && payload.String != "" {
			e.Payload = json.RawMessage(payload.String)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
