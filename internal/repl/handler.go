// Package repl provides the WebSocket shell for selecting model elements and
// running generator commands.
package repl

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/repl/autocomplete"
	"github.com/matthewbaird/umlgen/internal/repl/meta"
	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repl/shell"
	"github.com/matthewbaird/umlgen/internal/repl/wire"
	"github.com/matthewbaird/umlgen/internal/repository"
)

// Session timeouts.
const (
	sessionMaxAge      = 24 * time.Hour
	sessionIdleTimeout = 30 * time.Minute
	cleanupInterval    = 5 * time.Minute
)

// RegisterRoutes registers REPL HTTP and WebSocket routes on the given
// router. Expired sessions are swept until ctx is done.
func RegisterRoutes(ctx context.Context, r chi.Router, repo *repository.Repository) {
	sessions := session.NewManager(sessionMaxAge, sessionIdleTimeout)
	go sessions.RunCleanup(ctx, cleanupInterval)

	sh := shell.New(repo, meta.New(repo))
	ac := autocomplete.New(repo)
	wsHandler := wire.NewHandler(sessions, sh, ac)

	r.Route("/api/repl", func(r chi.Router) {
		r.Get("/ws", wsHandler.ServeHTTP)

		// Command table (REST, for tooling)
		r.Get("/commands", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(command.Specs)
		})
	})
}
