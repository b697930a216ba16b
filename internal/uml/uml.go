// Package uml holds the subset of the UML metamodel that umlgen reads and
// writes: projects, packages, classifiers, attributes, operations and
// parameters.
//
// Element is a closed set. Code that branches on element kind uses a type
// switch over the concrete types declared here and treats anything else as
// not applicable.
package uml

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Element is any node of the model tree.
type Element interface {
	ElementID() uuid.UUID
	ElementName() string
	isElement()
}

// Visibility is a member's UML visibility kind.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
	PackageVisibility
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	case PackageVisibility:
		return "package"
	default:
		return "unknown"
	}
}

// MarshalText encodes the visibility by name.
func (v Visibility) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Direction is a parameter's UML direction kind.
type Direction int

const (
	In Direction = iota
	InOut
	Out
	Return
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case InOut:
		return "inout"
	case Out:
		return "out"
	case Return:
		return "return"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// TypeRef is a type reference: either a plain type name or a classifier of
// the same model.
type TypeRef struct {
	Name string
	Ref  *Classifier
}

// Void is the type of a return parameter that carries no value.
var Void = TypeRef{Name: "void"}

// Named returns a plain type reference.
func Named(name string) TypeRef { return TypeRef{Name: name} }

// RefTo returns a reference to a classifier.
func RefTo(c *Classifier) TypeRef { return TypeRef{Name: c.Name, Ref: c} }

// String returns the referenced type's name.
func (t TypeRef) String() string {
	if t.Ref != nil {
		return t.Ref.Name
	}
	return t.Name
}

// IsVoid reports whether t names void.
func (t TypeRef) IsVoid() bool {
	return t.Ref == nil && t.Name == Void.Name
}

// MarshalJSON encodes the type reference as its name.
func (t TypeRef) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

// Project is the model root.
type Project struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Packages []*Package `json:"packages"`
}

// NewProject returns an empty project.
func NewProject(name string) *Project {
	return &Project{ID: uuid.New(), Name: name}
}

func (p *Project) ElementID() uuid.UUID { return p.ID }
func (p *Project) ElementName() string  { return p.Name }
func (*Project) isElement()             {}

// AddPackage creates a package owned by p.
func (p *Project) AddPackage(name string) *Package {
	pkg := &Package{ID: uuid.New(), Name: name, Parent: p}
	p.Packages = append(p.Packages, pkg)
	return pkg
}

// Package is a namespace of classifiers.
type Package struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Parent      *Project      `json:"-"`
	Classifiers []*Classifier `json:"classifiers"`
}

func (p *Package) ElementID() uuid.UUID { return p.ID }
func (p *Package) ElementName() string  { return p.Name }
func (*Package) isElement()             {}

// AddClass creates a class in p.
func (p *Package) AddClass(name string) *Classifier {
	c := NewClass(name)
	c.Namespace = p
	p.Classifiers = append(p.Classifiers, c)
	return c
}

// ClassifierKind distinguishes classes from interfaces.
type ClassifierKind int

const (
	Class ClassifierKind = iota
	Interface
)

func (k ClassifierKind) String() string {
	if k == Interface {
		return "interface"
	}
	return "class"
}

// MarshalText encodes the kind by name.
func (k ClassifierKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Classifier owns attributes and operations.
type Classifier struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	Kind       ClassifierKind `json:"kind"`
	Namespace  *Package       `json:"-"`
	Attributes []*Attribute   `json:"attributes"`
	Operations []*Operation   `json:"operations"`
}

// NewClass returns a class with no namespace.
func NewClass(name string) *Classifier {
	return &Classifier{ID: uuid.New(), Name: name, Kind: Class}
}

func (c *Classifier) ElementID() uuid.UUID { return c.ID }
func (c *Classifier) ElementName() string  { return c.Name }
func (*Classifier) isElement()             {}

// QualifiedName is "package.Class", or just the class name without a namespace.
func (c *Classifier) QualifiedName() string {
	if c.Namespace == nil || c.Namespace.Name == "" {
		return c.Name
	}
	return c.Namespace.Name + "." + c.Name
}

// AddAttribute creates a private attribute owned by c.
func (c *Classifier) AddAttribute(name string, typ TypeRef) *Attribute {
	a := &Attribute{ID: uuid.New(), Name: name, Type: typ, Visibility: Private, Parent: c}
	c.Attributes = append(c.Attributes, a)
	return a
}

// Attribute returns the first attribute with the given name, or nil.
func (c *Classifier) Attribute(name string) *Attribute {
	for _, a := range c.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Attribute is a typed, named property of a classifier.
type Attribute struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Type       TypeRef     `json:"type"`
	Visibility Visibility  `json:"visibility"`
	Parent     *Classifier `json:"-"`
}

func (a *Attribute) ElementID() uuid.UUID { return a.ID }
func (a *Attribute) ElementName() string  { return a.Name }
func (*Attribute) isElement()             {}

// Operation is a method of a classifier.
type Operation struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Visibility Visibility   `json:"visibility"`
	Parent     *Classifier  `json:"-"`
	Parameters []*Parameter `json:"parameters"`
}

// NewOperation returns a detached operation whose parent is set to owner.
// It is not part of owner.Operations until inserted through an edit scope.
func NewOperation(name string, vis Visibility, owner *Classifier) *Operation {
	return &Operation{ID: uuid.New(), Name: name, Visibility: vis, Parent: owner}
}

func (o *Operation) ElementID() uuid.UUID { return o.ID }
func (o *Operation) ElementName() string  { return o.Name }
func (*Operation) isElement()             {}

// AddParameter appends a parameter to o and returns it.
func (o *Operation) AddParameter(dir Direction, name string, typ TypeRef) *Parameter {
	p := &Parameter{ID: uuid.New(), Name: name, Direction: dir, Type: typ, Parent: o}
	o.Parameters = append(o.Parameters, p)
	return p
}

// Inputs returns the non-return parameters in order.
func (o *Operation) Inputs() []*Parameter {
	var in []*Parameter
	for _, p := range o.Parameters {
		if p.Direction != Return {
			in = append(in, p)
		}
	}
	return in
}

// ReturnType returns the type of the first return parameter. ok is false if
// there is none.
func (o *Operation) ReturnType() (typ TypeRef, ok bool) {
	for _, p := range o.Parameters {
		if p.Direction == Return {
			return p.Type, true
		}
	}
	return TypeRef{}, false
}

// Signature renders o as "name(a: T, b: U): R". A void or missing return is
// left out.
func (o *Operation) Signature() string {
	var b strings.Builder
	b.WriteString(o.Name)
	b.WriteByte('(')
	for i, p := range o.Inputs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.String())
	}
	b.WriteByte(')')
	if rt, ok := o.ReturnType(); ok && !rt.IsVoid() {
		b.WriteString(": ")
		b.WriteString(rt.String())
	}
	return b.String()
}

// Parameter is a typed slot of an operation.
type Parameter struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name,omitempty"`
	Direction Direction  `json:"direction"`
	Type      TypeRef    `json:"type"`
	Parent    *Operation `json:"-"`
}

func (p *Parameter) ElementID() uuid.UUID { return p.ID }
func (p *Parameter) ElementName() string  { return p.Name }
func (*Parameter) isElement()             {}

// Note is a free-text annotation. Generators never act on it.
type Note struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// NewNote returns a note.
func NewNote(text string) *Note { return &Note{ID: uuid.New(), Text: text} }

func (n *Note) ElementID() uuid.UUID { return n.ID }
func (n *Note) ElementName() string  { return "" }
func (*Note) isElement()             {}

// KindOf names an element's kind as used in events and the HTTP API.
func KindOf(el Element) string {
	switch v := el.(type) {
	case *Project:
		return "project"
	case *Package:
		return "package"
	case *Classifier:
		return v.Kind.String()
	case *Attribute:
		return "attribute"
	case *Operation:
		return "operation"
	case *Parameter:
		return "parameter"
	case *Note:
		return "note"
	default:
		return "unknown"
	}
}
