package uml

import (
	"github.com/matthewbaird/umlgen/internal/errors"
)

// Names of the owned collections that edit scopes may append to.
const (
	FieldPackages    = "packages"
	FieldClassifiers = "classifiers"
	FieldAttributes  = "attributes"
	FieldOperations  = "operations"
	FieldParameters  = "parameters"
)

var (
	// ErrUnknownField is returned for a collection name the container lacks.
	ErrUnknownField = errors.New("unknown field")
	// ErrWrongKind is returned when an element cannot live in the collection.
	ErrWrongKind = errors.New("element kind not allowed in field")
	// ErrNotMember is returned when removing an element the collection lacks.
	ErrNotMember = errors.New("element not in field")
)

// Container is an element with named, ordered child collections.
type Container interface {
	Element
	// CheckAppend reports whether AppendTo would succeed, without mutating.
	CheckAppend(field string, el Element) error
	AppendTo(field string, el Element) error
	RemoveFrom(field string, el Element) error
}

func (p *Project) CheckAppend(field string, el Element) error {
	_, err := castFor[*Package](p, field, FieldPackages, el)
	return err
}

func (p *Project) AppendTo(field string, el Element) error {
	pkg, err := castFor[*Package](p, field, FieldPackages, el)
	if err != nil {
		return err
	}
	pkg.Parent = p
	p.Packages = append(p.Packages, pkg)
	return nil
}

func (p *Project) RemoveFrom(field string, el Element) error {
	pkg, err := castFor[*Package](p, field, FieldPackages, el)
	if err != nil {
		return err
	}
	return remove(&p.Packages, pkg, p, field)
}

func (p *Package) CheckAppend(field string, el Element) error {
	_, err := castFor[*Classifier](p, field, FieldClassifiers, el)
	return err
}

func (p *Package) AppendTo(field string, el Element) error {
	c, err := castFor[*Classifier](p, field, FieldClassifiers, el)
	if err != nil {
		return err
	}
	c.Namespace = p
	p.Classifiers = append(p.Classifiers, c)
	return nil
}

func (p *Package) RemoveFrom(field string, el Element) error {
	c, err := castFor[*Classifier](p, field, FieldClassifiers, el)
	if err != nil {
		return err
	}
	return remove(&p.Classifiers, c, p, field)
}

func (c *Classifier) CheckAppend(field string, el Element) error {
	switch field {
	case FieldAttributes:
		_, err := castFor[*Attribute](c, field, FieldAttributes, el)
		return err
	case FieldOperations:
		_, err := castFor[*Operation](c, field, FieldOperations, el)
		return err
	}
	return errors.Wrapf(ErrUnknownField, "%s has no field %q", c.Name, field)
}

func (c *Classifier) AppendTo(field string, el Element) error {
	if err := c.CheckAppend(field, el); err != nil {
		return err
	}
	switch v := el.(type) {
	case *Attribute:
		v.Parent = c
		c.Attributes = append(c.Attributes, v)
	case *Operation:
		v.Parent = c
		c.Operations = append(c.Operations, v)
	}
	return nil
}

func (c *Classifier) RemoveFrom(field string, el Element) error {
	if err := c.CheckAppend(field, el); err != nil {
		return err
	}
	switch v := el.(type) {
	case *Attribute:
		return remove(&c.Attributes, v, c, field)
	case *Operation:
		return remove(&c.Operations, v, c, field)
	}
	return nil
}

func (o *Operation) CheckAppend(field string, el Element) error {
	_, err := castFor[*Parameter](o, field, FieldParameters, el)
	return err
}

func (o *Operation) AppendTo(field string, el Element) error {
	p, err := castFor[*Parameter](o, field, FieldParameters, el)
	if err != nil {
		return err
	}
	p.Parent = o
	o.Parameters = append(o.Parameters, p)
	return nil
}

func (o *Operation) RemoveFrom(field string, el Element) error {
	p, err := castFor[*Parameter](o, field, FieldParameters, el)
	if err != nil {
		return err
	}
	return remove(&o.Parameters, p, o, field)
}

func castFor[T Element](owner Element, field, want string, el Element) (T, error) {
	var zero T
	if field != want {
		return zero, errors.Wrapf(ErrUnknownField, "%s has no field %q", owner.ElementName(), field)
	}
	v, ok := el.(T)
	if !ok {
		return zero, errors.Wrapf(ErrWrongKind, "%T in %s.%s", el, owner.ElementName(), field)
	}
	return v, nil
}

func remove[T comparable](s *[]T, v T, owner Element, field string) error {
	for i, e := range *s {
		if e == v {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return nil
		}
	}
	return errors.Wrapf(ErrNotMember, "%s.%s", owner.ElementName(), field)
}
