// Package command registers the generator commands and routes each one over
// the current selection. Attributes and classifiers are handled; any other
// element kind is skipped.
package command

import (
	"context"

	"go.uber.org/zap"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/generate"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// SelectionProvider returns the selected elements in selection order.
type SelectionProvider interface {
	SelectedModels() []uml.Element
}

// Result reports what one command invocation did.
type Result struct {
	Command    string           `json:"command"`
	Elements   int              `json:"elements"`
	Skipped    int              `json:"skipped"`
	Operations []*uml.Operation `json:"-"`
}

// Signatures returns "Owner.signature" for every generated operation.
func (r *Result) Signatures() []string {
	out := make([]string, 0, len(r.Operations))
	for _, op := range r.Operations {
		owner := ""
		if op.Parent != nil {
			owner = op.Parent.Name + "."
		}
		out = append(out, owner+op.Signature())
	}
	return out
}

// Router runs generator commands over a selection.
type Router struct {
	selection SelectionProvider
	gen       *generate.Builder
	registry  *Registry
	menu      *Menu
	log       *zap.SugaredLogger
}

// NewRouter wires a router. menu may be nil.
func NewRouter(selection SelectionProvider, applier edit.Applier, registry *Registry, menu *Menu) *Router {
	return &Router{
		selection: selection,
		gen:       generate.New(applier),
		registry:  registry,
		menu:      menu,
		log:       logger.Named("command"),
	}
}

// Install registers every command in Specs and adds it to the Tools menu.
func (r *Router) Install() error {
	for _, s := range Specs {
		if err := r.registry.Register(s.Label, s.ID, r.Handler(s)); err != nil {
			return err
		}
		for _, alias := range s.Aliases {
			if err := r.registry.Alias(alias, s.ID); err != nil {
				return err
			}
		}
		if r.menu != nil {
			r.menu.AddMenuItem(MenuTools, s.ID, s.Keys...)
		}
	}
	return nil
}

// Handler returns the selection-scanning handler for s.
func (r *Router) Handler(s Spec) HandlerFunc {
	return func(ctx context.Context) (*Result, error) {
		return r.Run(ctx, s, r.selection.SelectedModels())
	}
}

// Run applies s to each element in order. A failure on one element does not
// stop the others or undo what was already committed; every failure is
// returned joined.
func (r *Router) Run(ctx context.Context, s Spec, selected []uml.Element) (*Result, error) {
	res := &Result{Command: s.ID, Elements: len(selected)}
	var errs []error
	for _, el := range selected {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ops, skipped, err := r.dispatch(ctx, s, el)
		res.Operations = append(res.Operations, ops...)
		if skipped {
			res.Skipped++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	r.log.Debugw("command finished",
		"command", s.ID,
		"elements", res.Elements,
		"generated", len(res.Operations),
		"skipped", res.Skipped,
		"errors", len(errs),
	)
	if len(errs) > 0 {
		return res, errors.Wrapf(errors.Join(errs...), "command %s", s.ID)
	}
	return res, nil
}

func (r *Router) dispatch(ctx context.Context, s Spec, el uml.Element) ([]*uml.Operation, bool, error) {
	switch v := el.(type) {
	case *uml.Attribute:
		if v == nil || v.Parent == nil {
			r.log.Debugw("skipping detached attribute", "command", s.ID)
			return nil, true, nil
		}
		if s.Kind == Constructor {
			r.log.Debugw("skipping attribute for constructor command", "command", s.ID, "attribute", v.Name)
			return nil, true, nil
		}
		ops, err := r.gen.GenerateGetterSetter(ctx, v, s.Convention.Transform())
		return ops, false, err
	case *uml.Classifier:
		if v == nil {
			r.log.Debugw("skipping nil classifier", "command", s.ID)
			return nil, true, nil
		}
		if s.Kind == Constructor {
			op, err := r.gen.GenerateConstructor(ctx, v, s.Language.ConstructorName(), s.Full)
			if err != nil {
				return nil, false, err
			}
			return []*uml.Operation{op}, false, nil
		}
		return r.classAccessors(ctx, s, v)
	default:
		r.log.Debugw("skipping element", "command", s.ID, "kind", uml.KindOf(el))
		return nil, true, nil
	}
}

func (r *Router) classAccessors(ctx context.Context, s Spec, c *uml.Classifier) ([]*uml.Operation, bool, error) {
	attrs := append([]*uml.Attribute(nil), c.Attributes...)
	var (
		out  []*uml.Operation
		errs []error
	)
	for _, a := range attrs {
		ops, err := r.gen.GenerateGetterSetter(ctx, a, s.Convention.Transform())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, ops...)
	}
	return out, false, errors.Join(errs...)
}
