// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matthewbaird/umlgen/internal/activity"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/handler"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/repl"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/worker"
)

// Config holds server configuration.
type Config struct {
	Port       int
	Repository *repository.Repository
	Activity   activity.Store
	// Members is optional; when set GET /v1/generated serves it.
	Members *worker.MemberIndex
}

// NewRouter registers every route. ctx bounds background work such as REPL
// session cleanup.
func NewRouter(ctx context.Context, cfg Config) (http.Handler, error) {
	mh, err := handler.NewModelHandler(cfg.Repository)
	if err != nil {
		return nil, errors.Wrap(err, "model handler")
	}
	ah := handler.NewActivityHandler(cfg.Activity)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.Recovery)
	r.Use(handler.Logging)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/commands", mh.ListCommands)
		r.Post("/commands/{id}", mh.RunCommand)
		r.Get("/selection", mh.GetSelection)
		r.Get("/model", mh.GetModel)
		r.Get("/classifiers/{name}/source", mh.GetClassifierSource)
		r.Post("/undo", mh.Undo)
		r.Post("/redo", mh.Redo)
		r.Get("/activity/{elementID}", ah.HandleGetElementActivity)
		r.Get("/activity/{elementID}/summary", ah.HandleGetElementSummary)
		r.Post("/activity/search", ah.HandleSearchActivity)
		if cfg.Members != nil {
			r.Get("/generated", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(cfg.Members.Snapshot()); err != nil {
					logger.Named("server").Warnw("encoding generated members", "error", err)
				}
			})
		}
	})

	repl.RegisterRoutes(ctx, r, cfg.Repository)
	return r, nil
}

// Run starts the HTTP server and shuts it down when ctx is done.
func Run(ctx context.Context, cfg Config) error {
	h, err := NewRouter(ctx, cfg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	log := logger.Named("server")
	log.Infow("starting server", "addr", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warnw("shutdown", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
