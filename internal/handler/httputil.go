// Package handler implements the HTTP API over the model repository, the
// generator commands and the activity journal.
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/repository"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Logger.Warnw("writeJSON encode error", "error", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseLimit reads a positive "limit" query parameter capped at max.
func parseLimit(r *http.Request, def, max int) int {
	n := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			n = p
		}
	}
	if n > max {
		n = max
	}
	return n
}

// errorToHTTP maps domain errors to HTTP responses.
func errorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		writeError(w, http.StatusNotFound, "UNKNOWN_COMMAND", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.IsAny(err, repository.ErrNothingToUndo, repository.ErrNothingToRedo):
		writeError(w, http.StatusConflict, "NOTHING_TO_DO", err.Error())
	default:
		logger.Logger.Errorw("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
