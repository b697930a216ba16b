// Package app wires the model repository, activity journal and event bus
// from a loaded configuration. Both binaries start through it.
package app

import (
	"context"

	_ "modernc.org/sqlite"

	"github.com/matthewbaird/umlgen/internal/activity"
	"github.com/matthewbaird/umlgen/internal/config"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/eventbus"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/modelfile"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/seed"
	"github.com/matthewbaird/umlgen/internal/server"
	"github.com/matthewbaird/umlgen/internal/uml"
	"github.com/matthewbaird/umlgen/internal/worker"
)

// Env is everything a command needs to operate on the model.
type Env struct {
	Repo    *repository.Repository
	Store   activity.Store
	Members *worker.MemberIndex
	Bus     *eventbus.Bus

	closers []func()
}

// Open loads the model, opens the activity journal and starts the event
// bus. The bus stops when ctx is done or Close is called.
func Open(ctx context.Context, cfg *config.Config) (*Env, error) {
	project, err := LoadProject(cfg.Model.Path)
	if err != nil {
		return nil, err
	}

	e := &Env{}
	if cfg.Database.Path != "" {
		s, err := activity.OpenSQLite(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		e.Store = s
		e.closers = append(e.closers, func() {
			if err := s.Close(); err != nil {
				logger.Logger.Warnw("closing activity database", "error", err)
			}
		})
	} else {
		e.Store = activity.NewMemoryStore()
	}

	e.Bus = eventbus.New(cfg.EventBus.Buffer)
	e.Members = worker.NewMemberIndex()
	e.Bus.Subscribe("log", eventbus.NewLogConsumer())
	e.Bus.Subscribe("members", e.Members)
	e.Bus.Start(ctx)
	e.closers = append(e.closers, e.Bus.Stop)

	rec := event.NewActivityRecorder(e.Store)
	rec.SetPublisher(e.Bus)
	e.Repo = repository.New(project, repository.WithRecorder(rec))

	logger.Logger.Debugw("model opened",
		"project", project.Name,
		"packages", len(project.Packages),
		"journal", journalName(cfg.Database.Path))
	return e, nil
}

// Close stops the bus and closes the journal, in reverse opening order.
func (e *Env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// ServerConfig returns the HTTP server settings for e.
func (e *Env) ServerConfig(port int) server.Config {
	return server.Config{
		Port:       port,
		Repository: e.Repo,
		Activity:   e.Store,
		Members:    e.Members,
	}
}

// LoadProject reads the CUE model at path, or the built-in sample when path
// is empty.
func LoadProject(path string) (*uml.Project, error) {
	if path == "" {
		return seed.Project()
	}
	p, err := modelfile.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading model %s", path)
	}
	return p, nil
}

func journalName(path string) string {
	if path == "" {
		return "memory"
	}
	return path
}
