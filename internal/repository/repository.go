// Package repository owns the in-memory model tree. It applies change-sets
// atomically, keeps undo and redo stacks of whole change-sets, and records an
// event for every commit, undo and redo.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/uml"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrNotFound      = errors.New("element not found")
	ErrNilChangeSet  = errors.New("nil change-set")
)

// Repository is the model tree plus its operation log.
type Repository struct {
	// exclusive serializes whole commands, the way a UI event loop would.
	exclusive sync.Mutex

	mu       sync.RWMutex
	project  *uml.Project
	index    map[uuid.UUID]uml.Element
	undo     []*edit.ChangeSet
	redo     []*edit.ChangeSet
	recorder event.Recorder
	log      *zap.SugaredLogger
}

// Option configures a Repository.
type Option func(*Repository)

// WithRecorder records an event for every commit, undo and redo.
func WithRecorder(rec event.Recorder) Option {
	return func(r *Repository) { r.recorder = rec }
}

// New wraps project. A nil project starts an empty one.
func New(project *uml.Project, opts ...Option) *Repository {
	if project == nil {
		project = uml.NewProject("untitled")
	}
	r := &Repository{
		project: project,
		index:   make(map[uuid.UUID]uml.Element),
		log:     logger.Named("repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.indexTree(project)
	return r
}

// Project returns the model root. Readers that may race with commits should
// go through View.
func (r *Repository) Project() *uml.Project {
	return r.project
}

// View runs fn with the model locked for reading.
func (r *Repository) View(fn func(p *uml.Project)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.project)
}

// RunExclusive runs fn while no other exclusive caller runs. Hosts wrap each
// command invocation in it so that commands never interleave.
func (r *Repository) RunExclusive(fn func() error) error {
	r.exclusive.Lock()
	defer r.exclusive.Unlock()
	return fn()
}

// DoOperation applies cs as one unit: either every field change is applied
// or none is. A successful commit clears the redo stack.
func (r *Repository) DoOperation(ctx context.Context, cs *edit.ChangeSet) error {
	if cs == nil {
		return ErrNilChangeSet
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	if err := cs.Check(); err != nil {
		r.mu.Unlock()
		return err
	}
	if err := cs.Apply(); err != nil {
		r.mu.Unlock()
		return err
	}
	r.indexChange(cs)
	r.undo = append(r.undo, cs)
	r.redo = nil
	r.mu.Unlock()

	r.log.Debugw("change applied", "label", cs.Label, "change_set", cs.ID, "fields", len(cs.Fields))
	r.record(ctx, event.NewChangeApplied(cs))
	return nil
}

// Undo reverts the most recent change-set.
func (r *Repository) Undo(ctx context.Context) (*edit.ChangeSet, error) {
	r.mu.Lock()
	if len(r.undo) == 0 {
		r.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	cs := r.undo[len(r.undo)-1]
	if err := cs.Revert(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.undo = r.undo[:len(r.undo)-1]
	r.redo = append(r.redo, cs)
	r.unindexChange(cs)
	r.mu.Unlock()

	r.record(ctx, event.NewChangeUndone(cs))
	return cs, nil
}

// Redo re-applies the most recently undone change-set.
func (r *Repository) Redo(ctx context.Context) (*edit.ChangeSet, error) {
	r.mu.Lock()
	if len(r.redo) == 0 {
		r.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	cs := r.redo[len(r.redo)-1]
	if err := cs.Check(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if err := cs.Apply(); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.redo = r.redo[:len(r.redo)-1]
	r.undo = append(r.undo, cs)
	r.indexChange(cs)
	r.mu.Unlock()

	r.record(ctx, event.NewChangeRedone(cs))
	return cs, nil
}

// History returns the labels of the undoable change-sets, oldest first.
func (r *Repository) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	labels := make([]string, len(r.undo))
	for i, cs := range r.undo {
		labels[i] = cs.Label
	}
	return labels
}

// CanUndo and CanRedo report the depth of each stack.
func (r *Repository) CanUndo() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.undo)
}

func (r *Repository) CanRedo() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.redo)
}

// Find returns the element with the given ID, or nil.
func (r *Repository) Find(id uuid.UUID) uml.Element {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[id]
}

// Classifiers returns every classifier in package order.
func (r *Repository) Classifiers() []*uml.Classifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*uml.Classifier
	for _, pkg := range r.project.Packages {
		out = append(out, pkg.Classifiers...)
	}
	return out
}

// Lookup resolves a dotted path or an element ID. Accepted paths are
// "Class", "pkg", "pkg.Class", "Class.member" and "pkg.Class.member", where
// member names an attribute or, failing that, an operation.
func (r *Repository) Lookup(path string) (uml.Element, error) {
	path = strings.TrimSpace(path)
	if id, err := uuid.Parse(path); err == nil {
		if el := r.Find(id); el != nil {
			return el, nil
		}
		return nil, errors.Wrapf(ErrNotFound, "id %s", path)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	parts := strings.Split(path, ".")
	var el uml.Element
	switch len(parts) {
	case 1:
		if c := r.classifier("", parts[0]); c != nil {
			el = c
		} else if pkg := r.pkg(parts[0]); pkg != nil {
			el = pkg
		}
	case 2:
		if c := r.classifier(parts[0], parts[1]); c != nil {
			el = c
		} else if c := r.classifier("", parts[0]); c != nil {
			el = member(c, parts[1])
		}
	case 3:
		if c := r.classifier(parts[0], parts[1]); c != nil {
			el = member(c, parts[2])
		}
	}
	if el == nil {
		return nil, errors.Wrapf(ErrNotFound, "%q", path)
	}
	return el, nil
}

func (r *Repository) pkg(name string) *uml.Package {
	for _, p := range r.project.Packages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Repository) classifier(pkg, name string) *uml.Classifier {
	for _, p := range r.project.Packages {
		if pkg != "" && p.Name != pkg {
			continue
		}
		for _, c := range p.Classifiers {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

func member(c *uml.Classifier, name string) uml.Element {
	if a := c.Attribute(name); a != nil {
		return a
	}
	for _, op := range c.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

func (r *Repository) record(ctx context.Context, evt event.DomainEvent) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, evt); err != nil {
		r.log.Warnw("event recording failed", "event_type", evt.EventType, "error", err)
	}
}

func (r *Repository) indexTree(el uml.Element) {
	r.index[el.ElementID()] = el
	switch v := el.(type) {
	case *uml.Project:
		for _, p := range v.Packages {
			r.indexTree(p)
		}
	case *uml.Package:
		for _, c := range v.Classifiers {
			r.indexTree(c)
		}
	case *uml.Classifier:
		for _, a := range v.Attributes {
			r.indexTree(a)
		}
		for _, op := range v.Operations {
			r.indexTree(op)
		}
	case *uml.Operation:
		for _, p := range v.Parameters {
			r.indexTree(p)
		}
	}
}

func (r *Repository) unindexTree(el uml.Element) {
	delete(r.index, el.ElementID())
	switch v := el.(type) {
	case *uml.Package:
		for _, c := range v.Classifiers {
			r.unindexTree(c)
		}
	case *uml.Classifier:
		for _, a := range v.Attributes {
			r.unindexTree(a)
		}
		for _, op := range v.Operations {
			r.unindexTree(op)
		}
	case *uml.Operation:
		for _, p := range v.Parameters {
			r.unindexTree(p)
		}
	}
}

func (r *Repository) indexChange(cs *edit.ChangeSet) {
	for _, el := range cs.Inserted {
		r.indexTree(el)
	}
	for _, fc := range cs.Fields {
		r.indexTree(fc.Element)
	}
}

func (r *Repository) unindexChange(cs *edit.ChangeSet) {
	for _, el := range cs.Inserted {
		r.unindexTree(el)
	}
	for _, fc := range cs.Fields {
		r.unindexTree(fc.Element)
	}
}

// PathOf returns the dotted path that Lookup resolves back to el.
func PathOf(el uml.Element) string {
	switch v := el.(type) {
	case *uml.Classifier:
		return v.QualifiedName()
	case *uml.Attribute:
		if v.Parent != nil {
			return v.Parent.QualifiedName() + "." + v.Name
		}
	case *uml.Operation:
		if v.Parent != nil {
			return v.Parent.QualifiedName() + "." + v.Name
		}
	}
	return el.ElementName()
}
