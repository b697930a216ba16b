package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/render"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// ModelHandler serves the model, the generator commands and undo/redo.
// Requests share one selection, the way a single desktop window would.
type ModelHandler struct {
	repo      *repository.Repository
	selection *repository.Selection
	commands  *command.Registry
	menu      *command.Menu
	log       *zap.SugaredLogger
}

// NewModelHandler wires the command router over repo.
func NewModelHandler(repo *repository.Repository) (*ModelHandler, error) {
	h := &ModelHandler{
		repo:      repo,
		selection: repository.NewSelection(),
		commands:  command.NewRegistry(),
		menu:      command.NewMenu(),
		log:       logger.Named("handler"),
	}
	if err := command.NewRouter(h.selection, repo, h.commands, h.menu).Install(); err != nil {
		return nil, err
	}
	return h, nil
}

type commandView struct {
	command.Spec
	Menu string `json:"menu"`
}

// ListCommands handles GET /v1/commands.
func (h *ModelHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	items := h.menu.Items(command.MenuTools)
	out := make([]commandView, 0, len(items))
	for _, it := range items {
		s, ok := command.SpecFor(it.CommandID)
		if !ok {
			continue
		}
		out = append(out, commandView{Spec: s, Menu: it.Menu})
	}
	writeJSON(w, http.StatusOK, out)
}

type runRequest struct {
	Select []string `json:"select"`
}

type runResponse struct {
	Command   string   `json:"command"`
	Elements  int      `json:"elements"`
	Skipped   int      `json:"skipped"`
	Generated []string `json:"generated"`
}

// RunCommand handles POST /v1/commands/{id}. The body's "select" paths
// replace the shared selection before the command runs; without them the
// current selection is used.
func (h *ModelHandler) RunCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req runRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if _, ok := h.commands.Get(id); !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_COMMAND", "unknown command: "+id)
		return
	}

	var (
		res    *command.Result
		runErr error
	)
	err := h.repo.RunExclusive(func() error {
		if len(req.Select) > 0 {
			els := make([]uml.Element, 0, len(req.Select))
			for _, p := range req.Select {
				el, err := h.repo.Lookup(p)
				if err != nil {
					return err
				}
				els = append(els, el)
			}
			h.selection.Select(els...)
		}
		res, runErr = h.commands.Execute(r.Context(), id)
		return nil
	})
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	resp := runResponse{
		Command:   res.Command,
		Elements:  res.Elements,
		Skipped:   res.Skipped,
		Generated: res.Signatures(),
	}
	if runErr != nil {
		h.log.Warnw("command failed", "command", id, "error", runErr)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  runErr.Error(),
			"code":   "COMMAND_FAILED",
			"result": resp,
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetModel handles GET /v1/model.
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	h.repo.View(func(p *uml.Project) {
		writeJSON(w, http.StatusOK, p)
	})
}

// GetSelection handles GET /v1/selection.
func (h *ModelHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	els := h.selection.SelectedModels()
	out := make([]map[string]string, 0, len(els))
	for _, el := range els {
		out = append(out, map[string]string{
			"id":   el.ElementID().String(),
			"kind": uml.KindOf(el),
			"path": repository.PathOf(el),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetClassifierSource handles GET /v1/classifiers/{name}/source?lang=java|js.
func (h *ModelHandler) GetClassifierSource(w http.ResponseWriter, r *http.Request) {
	lang := naming.Java
	if l := r.URL.Query().Get("lang"); l != "" {
		parsed, ok := naming.ParseLanguage(l)
		if !ok {
			writeError(w, http.StatusBadRequest, "INVALID_LANGUAGE", "unknown language: "+l)
			return
		}
		lang = parsed
	}

	el, err := h.repo.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	c, ok := el.(*uml.Classifier)
	if !ok {
		writeError(w, http.StatusBadRequest, "NOT_A_CLASSIFIER", repository.PathOf(el)+" is a "+uml.KindOf(el))
		return
	}

	var src string
	h.repo.View(func(*uml.Project) { src, err = render.Source(c, lang) })
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(src))
}

// Undo handles POST /v1/undo.
func (h *ModelHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.undoRedo(w, r, h.repo.Undo)
}

// Redo handles POST /v1/redo.
func (h *ModelHandler) Redo(w http.ResponseWriter, r *http.Request) {
	h.undoRedo(w, r, h.repo.Redo)
}

func (h *ModelHandler) undoRedo(w http.ResponseWriter, r *http.Request, fn func(context.Context) (*edit.ChangeSet, error)) {
	var cs *edit.ChangeSet
	err := h.repo.RunExclusive(func() error {
		var err error
		cs, err = fn(r.Context())
		return err
	})
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"change_set": cs.ID.String(),
		"label":      cs.Label,
		"undo_depth": h.repo.CanUndo(),
		"redo_depth": h.repo.CanRedo(),
	})
}
