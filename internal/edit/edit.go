// Package edit records model mutations as change-sets that a repository
// applies, and later reverts, as one unit.
//
// A Builder is used the same way for every edit:
//
//	b.Begin("generate getter & setter")
//	b.Insert(op)
//	b.FieldInsert(class, uml.FieldOperations, op)
//	cs, err := b.End()
//	err = applier.DoOperation(ctx, cs)
package edit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/uml"
)

var (
	ErrNoScope    = errors.New("edit: no scope open")
	ErrScopeOpen  = errors.New("edit: scope already open")
	ErrEmptyScope = errors.New("edit: scope recorded no changes")
)

// FieldChange appends Element to the Field collection of Parent.
type FieldChange struct {
	Parent  uml.Container
	Field   string
	Element uml.Element
}

// ChangeSet is a closed edit scope, ready to be applied.
type ChangeSet struct {
	ID        uuid.UUID
	Label     string
	Inserted  []uml.Element
	Fields    []FieldChange
	CreatedAt time.Time
}

// Applier commits change-sets. The repository implements it; generators
// depend on nothing else.
type Applier interface {
	DoOperation(ctx context.Context, cs *ChangeSet) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(ctx context.Context, cs *ChangeSet) error

func (f ApplierFunc) DoOperation(ctx context.Context, cs *ChangeSet) error {
	return f(ctx, cs)
}

// Builder accumulates one edit scope at a time. It is not safe for
// concurrent use.
type Builder struct {
	cur *ChangeSet
}

// NewBuilder returns an idle builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Begin opens a scope.
func (b *Builder) Begin(label string) error {
	if b.cur != nil {
		return errors.Wrapf(ErrScopeOpen, "begin %q while %q is open", label, b.cur.Label)
	}
	b.cur = &ChangeSet{ID: uuid.New(), Label: label, CreatedAt: time.Now()}
	return nil
}

// Insert registers a newly created element.
func (b *Builder) Insert(el uml.Element) error {
	if b.cur == nil {
		return ErrNoScope
	}
	b.cur.Inserted = append(b.cur.Inserted, el)
	return nil
}

// FieldInsert records that el is to be appended to parent's field.
func (b *Builder) FieldInsert(parent uml.Container, field string, el uml.Element) error {
	if b.cur == nil {
		return ErrNoScope
	}
	b.cur.Fields = append(b.cur.Fields, FieldChange{Parent: parent, Field: field, Element: el})
	return nil
}

// End closes the scope and returns its change-set. An empty scope is
// discarded and reported as ErrEmptyScope.
func (b *Builder) End() (*ChangeSet, error) {
	if b.cur == nil {
		return nil, ErrNoScope
	}
	cs := b.cur
	b.cur = nil
	if len(cs.Fields) == 0 && len(cs.Inserted) == 0 {
		return nil, ErrEmptyScope
	}
	return cs, nil
}

// Discard drops the open scope, if any.
func (b *Builder) Discard() {
	b.cur = nil
}

// Open reports whether a scope is open.
func (b *Builder) Open() bool {
	return b.cur != nil
}

// Check validates every field change against its parent without mutating
// anything.
func (cs *ChangeSet) Check() error {
	for _, fc := range cs.Fields {
		if fc.Parent == nil {
			return errors.Newf("edit: %q: field change without parent", cs.Label)
		}
		if err := fc.Parent.CheckAppend(fc.Field, fc.Element); err != nil {
			return errors.Wrapf(err, "edit: %q", cs.Label)
		}
	}
	return nil
}

// Apply appends every element in order. Callers run Check first; if an
// append still fails, the appends already made are reverted.
func (cs *ChangeSet) Apply() error {
	for i, fc := range cs.Fields {
		if err := fc.Parent.AppendTo(fc.Field, fc.Element); err != nil {
			cs.revert(i)
			return errors.Wrapf(err, "edit: apply %q", cs.Label)
		}
	}
	return nil
}

// Revert removes every appended element, last first.
func (cs *ChangeSet) Revert() error {
	var errs []error
	for i := len(cs.Fields) - 1; i >= 0; i-- {
		fc := cs.Fields[i]
		if err := fc.Parent.RemoveFrom(fc.Field, fc.Element); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Wrapf(errors.Join(errs...), "edit: revert %q", cs.Label)
	}
	return nil
}

func (cs *ChangeSet) revert(n int) {
	for i := n - 1; i >= 0; i-- {
		fc := cs.Fields[i]
		_ = fc.Parent.RemoveFrom(fc.Field, fc.Element)
	}
}
