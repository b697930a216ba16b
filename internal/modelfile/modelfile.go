// Package modelfile reads a UML model from a CUE file.
//
// The CUE package becomes the UML package. Every definition becomes a
// classifier and its regular and optional fields become attributes, in
// declaration order:
//
//	package shop
//
//	#Person: {
//		age:     int
//		name:    string
//		address: #Address
//		tags:    [...string]
//	}
//
//	#Named: {
//		name: string
//	} @uml(interface)
//
// A field attribute @uml(visibility=public) overrides the default private
// visibility of an attribute.
package modelfile

import (
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/parser"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// DefaultPackage names the UML package of a CUE file without a package clause.
const DefaultPackage = "model"

// Load reads and parses the CUE file at path.
func Load(path string) (*uml.Project, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model %s", path)
	}
	return Parse(filepath.Base(path), src)
}

// Parse builds a project from CUE source. filename is used in error
// positions only.
func Parse(filename string, src []byte) (*uml.Project, error) {
	f, err := parser.ParseFile(filename, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	pkgName := f.PackageName()
	if pkgName == "" {
		pkgName = DefaultPackage
	}

	val := cuecontext.New().BuildFile(f)
	if err := val.Validate(); err != nil {
		return nil, errors.Wrapf(err, "build %s", filename)
	}

	project := uml.NewProject(pkgName)
	pkg := project.AddPackage(pkgName)

	type pending struct {
		class *uml.Classifier
		val   cue.Value
	}
	var defs []pending
	classes := make(map[string]*uml.Classifier)

	iter, err := val.Fields(cue.Definitions(true))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	for iter.Next() {
		sel := iter.Selector()
		if !sel.IsDefinition() {
			continue
		}
		defVal := iter.Value()
		if defVal.IncompleteKind() != cue.StructKind {
			continue
		}
		c := pkg.AddClass(strings.TrimPrefix(sel.String(), "#"))
		if isInterface(defVal) {
			c.Kind = uml.Interface
		}
		classes[c.Name] = c
		defs = append(defs, pending{class: c, val: defVal})
	}

	// Attributes are added once every classifier exists so that references
	// to later definitions resolve.
	for _, d := range defs {
		fIter, err := d.val.Fields(cue.Optional(true))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: #%s", filename, d.class.Name)
		}
		for fIter.Next() {
			label := strings.TrimSuffix(fIter.Selector().String(), "?")
			if strings.HasPrefix(label, "_") {
				continue
			}
			fv := fIter.Value()
			a := d.class.AddAttribute(label, typeOf(fv, classes))
			if vis, ok := visibility(fv); ok {
				a.Visibility = vis
			}
		}
	}
	return project, nil
}

func typeOf(val cue.Value, classes map[string]*uml.Classifier) uml.TypeRef {
	if ref := findReference(val); strings.HasPrefix(ref, "#") {
		if c, ok := classes[strings.TrimPrefix(ref, "#")]; ok {
			return uml.RefTo(c)
		}
	}

	kind := val.IncompleteKind()
	if kind == cue.BottomKind {
		kind = inferKind(val)
	}
	switch kind {
	case cue.ListKind:
		elem := val.LookupPath(cue.MakePath(cue.AnyIndex))
		if elem.Err() != nil {
			return uml.Named("Object[]")
		}
		return uml.Named(typeOf(elem, classes).String() + "[]")
	case cue.StringKind:
		return uml.Named("String")
	case cue.IntKind:
		return uml.Named("int")
	case cue.FloatKind, cue.NumberKind:
		return uml.Named("double")
	case cue.BoolKind:
		return uml.Named("boolean")
	}
	return uml.Named("Object")
}

func findReference(val cue.Value) string {
	_, path := val.ReferencePath()
	if sels := path.Selectors(); len(sels) > 0 {
		return sels[len(sels)-1].String()
	}
	op, args := val.Expr()
	if op == cue.AndOp || op == cue.OrOp {
		for _, a := range args {
			if r := findReference(a); r != "" {
				return r
			}
		}
	}
	return ""
}

func inferKind(val cue.Value) cue.Kind {
	op, args := val.Expr()
	if op == cue.AndOp || op == cue.OrOp {
		for _, a := range args {
			if k := a.IncompleteKind(); k != cue.BottomKind {
				return k
			}
		}
	}
	return cue.BottomKind
}

func isInterface(val cue.Value) bool {
	attr := val.Attribute("uml")
	if attr.Err() != nil {
		return false
	}
	ok, err := attr.Flag(0, "interface")
	return err == nil && ok
}

func visibility(val cue.Value) (uml.Visibility, bool) {
	attr := val.Attribute("uml")
	if attr.Err() != nil {
		return 0, false
	}
	s, found, err := attr.Lookup(0, "visibility")
	if err != nil || !found {
		return 0, false
	}
	switch s {
	case "public":
		return uml.Public, true
	case "protected":
		return uml.Protected, true
	case "private":
		return uml.Private, true
	case "package":
		return uml.PackageVisibility, true
	}
	return 0, false
}
