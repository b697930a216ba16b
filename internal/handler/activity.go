package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/umlgen/internal/activity"
	"github.com/matthewbaird/umlgen/internal/signals"
	"github.com/matthewbaird/umlgen/internal/types"
)

// ActivityHandler serves the journal of model edits.
type ActivityHandler struct {
	store activity.Store
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(store activity.Store) *ActivityHandler {
	return &ActivityHandler{store: store}
}

// HandleGetElementActivity returns the edits that touched one element,
// newest first.
// GET /v1/activity/{elementID}?kind=&role=&since=&until=&categories=&min_weight=&limit=&cursor=
func (h *ActivityHandler) HandleGetElementActivity(w http.ResponseWriter, r *http.Request) {
	elementID := chi.URLParam(r, "elementID")
	if elementID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "elementID is required")
		return
	}
	q := r.URL.Query()

	opts := activity.DefaultQueryOptions()
	if s := q.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			opts.Since = &t
		}
	}
	if u := q.Get("until"); u != "" {
		if t, err := time.Parse(time.RFC3339, u); err == nil {
			opts.Until = &t
		}
	}
	if cats := q.Get("categories"); cats != "" {
		opts.Categories = strings.Split(cats, ",")
	}
	if mw := q.Get("min_weight"); mw != "" {
		opts.MinWeight = mw
	}
	opts.Role = q.Get("role")
	if !activity.ValidRole(opts.Role) {
		writeError(w, http.StatusBadRequest, "INVALID_ROLE", "role must be subject or context")
		return
	}
	opts.Limit = parseLimit(r, opts.Limit, 500)
	opts.Cursor = q.Get("cursor")

	entries, nextCursor, totalCount, err := h.store.QueryByEntity(r.Context(), q.Get("kind"), elementID, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	resp := struct {
		Activities []types.ActivityEntry `json:"activities"`
		NextCursor string                `json:"next_cursor,omitempty"`
		TotalCount int                   `json:"total_count"`
	}{
		Activities: entries,
		NextCursor: nextCursor,
		TotalCount: totalCount,
	}
	if resp.Activities == nil {
		resp.Activities = []types.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSearchActivity matches a substring of edit summaries.
// POST /v1/activity/search
func (h *ActivityHandler) HandleSearchActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query      string   `json:"query"`
		Kind       string   `json:"kind,omitempty"`
		Since      string   `json:"since,omitempty"`
		Categories []string `json:"categories,omitempty"`
		Limit      int      `json:"limit,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_PARAMS", "query is required")
		return
	}

	opts := activity.DefaultSearchOptions()
	opts.EntityType = req.Kind
	opts.Categories = req.Categories
	if req.Limit > 0 {
		opts.Limit = req.Limit
	}
	if req.Since != "" {
		if t, err := time.Parse(time.RFC3339, req.Since); err == nil {
			opts.Since = &t
		}
	}

	entries, totalCount, err := h.store.Search(r.Context(), req.Query, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	resp := struct {
		Results    []types.ActivityEntry `json:"results"`
		TotalCount int                   `json:"total_count"`
	}{
		Results:    entries,
		TotalCount: totalCount,
	}
	if resp.Results == nil {
		resp.Results = []types.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetElementSummary aggregates an element's recent activity.
// GET /v1/activity/{elementID}/summary?kind=&since=
func (h *ActivityHandler) HandleGetElementSummary(w http.ResponseWriter, r *http.Request) {
	elementID := chi.URLParam(r, "elementID")
	q := r.URL.Query()

	now := time.Now()
	since := now.Add(-24 * time.Hour)
	if s := q.Get("since"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be RFC3339")
			return
		}
		since = t
	}

	opts := activity.DefaultQueryOptions()
	opts.Since = &since
	opts.Limit = 500
	entries, _, _, err := h.store.QueryByEntity(r.Context(), q.Get("kind"), elementID, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, signals.Aggregate(entries, q.Get("kind"), elementID, since, now, now))
}
