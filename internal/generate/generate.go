// Package generate builds accessor and constructor operations for UML
// classifiers and commits each generated set as one edit.
package generate

import (
	"context"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// Edit scope labels.
const (
	LabelGetterSetter = "generate getter & setter"
	LabelConstructor  = "generate constructor"
)

// SetterParam is the name of a setter's single input parameter.
const SetterParam = "value"

var (
	ErrNoParent      = errors.New("attribute has no owning classifier")
	ErrNilAttribute  = errors.New("nil attribute")
	ErrNilClassifier = errors.New("nil classifier")
)

// Builder creates operations and hands them to an Applier.
type Builder struct {
	applier edit.Applier
}

// New returns a Builder that commits through applier.
func New(applier edit.Applier) *Builder {
	return &Builder{applier: applier}
}

// GenerateGetterSetter appends a getter and a setter for attr to its owning
// classifier in one edit. The getter is "get"+transform(name) and returns the
// attribute's type; the setter is "set"+transform(name) and takes one "value"
// parameter of that type. A nil transform means naming.FirstUpperCase.
//
// Nothing checks for existing members: running it twice yields two pairs.
func (b *Builder) GenerateGetterSetter(ctx context.Context, attr *uml.Attribute, transform naming.Transform) ([]*uml.Operation, error) {
	if attr == nil {
		return nil, ErrNilAttribute
	}
	owner := attr.Parent
	if owner == nil {
		return nil, errors.Wrapf(ErrNoParent, "attribute %q", attr.Name)
	}
	if transform == nil {
		transform = naming.FirstUpperCase
	}

	getter := uml.NewOperation("get"+transform(attr.Name), uml.Public, owner)
	getter.AddParameter(uml.Return, "", attr.Type)

	setter := uml.NewOperation("set"+transform(attr.Name), uml.Public, owner)
	setter.AddParameter(uml.In, SetterParam, attr.Type)

	ops := []*uml.Operation{getter, setter}
	if err := b.commit(ctx, LabelGetterSetter, owner, ops...); err != nil {
		return nil, err
	}
	return ops, nil
}

// GenerateConstructor appends one operation named nameFn(classifier.Name).
// When full is set it takes one input parameter per attribute, in declaration
// order. A void return parameter always comes last. A nil nameFn means
// naming.JavaConstructorName.
func (b *Builder) GenerateConstructor(ctx context.Context, classifier *uml.Classifier, nameFn naming.ConstructorName, full bool) (*uml.Operation, error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	if nameFn == nil {
		nameFn = naming.JavaConstructorName
	}

	ctor := uml.NewOperation(nameFn(classifier.Name), uml.Public, classifier)
	if full {
		for _, a := range classifier.Attributes {
			ctor.AddParameter(uml.In, a.Name, a.Type)
		}
	}
	ctor.AddParameter(uml.Return, "", uml.Void)

	if err := b.commit(ctx, LabelConstructor, classifier, ctor); err != nil {
		return nil, err
	}
	return ctor, nil
}

func (b *Builder) commit(ctx context.Context, label string, owner *uml.Classifier, ops ...*uml.Operation) error {
	eb := edit.NewBuilder()
	if err := eb.Begin(label); err != nil {
		return err
	}
	for _, op := range ops {
		if err := eb.Insert(op); err != nil {
			eb.Discard()
			return err
		}
		if err := eb.FieldInsert(owner, uml.FieldOperations, op); err != nil {
			eb.Discard()
			return err
		}
	}
	cs, err := eb.End()
	if err != nil {
		return err
	}
	if err := b.applier.DoOperation(ctx, cs); err != nil {
		return errors.Wrapf(err, "%s on %s", label, owner.Name)
	}
	return nil
}
