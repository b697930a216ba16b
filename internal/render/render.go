// Package render previews a classifier as Java or JavaScript source.
// Bodies are filled in for recognised accessors and constructors only.
package render

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/uml"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"join": strings.Join,
	"mod": func(v string) string {
		if v == "" {
			return ""
		}
		return v + " "
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

// ErrNilClassifier is returned when there is nothing to render.
var ErrNilClassifier = errors.New("render: nil classifier")

type classView struct {
	Package   string
	Name      string
	Interface bool
	Fields    []fieldView
	Methods   []methodView
}

type fieldView struct {
	Visibility string
	Type       string
	Name       string
}

type methodView struct {
	Visibility  string
	Return      string
	Name        string
	Constructor bool
	Shadowed    bool // an earlier constructor a later one replaces
	Params      []string
	Body        []string
}

// Source renders c in lang.
func Source(c *uml.Classifier, lang naming.Language) (string, error) {
	if lang == naming.JavaScript {
		return JavaScript(c)
	}
	return Java(c)
}

// Java renders c as a Java class or interface.
func Java(c *uml.Classifier) (string, error) {
	if c == nil {
		return "", ErrNilClassifier
	}
	v := classView{Name: c.Name, Interface: c.Kind == uml.Interface}
	if c.Namespace != nil {
		v.Package = c.Namespace.Name
	}
	if !v.Interface {
		for _, a := range c.Attributes {
			v.Fields = append(v.Fields, fieldView{Visibility: javaVisibility(a.Visibility), Type: a.Type.String(), Name: a.Name})
		}
	}
	for _, op := range c.Operations {
		m := methodView{
			Visibility:  javaVisibility(op.Visibility),
			Name:        op.Name,
			Constructor: op.Name == naming.JavaConstructorName(c.Name),
			Return:      "void",
		}
		if rt, ok := op.ReturnType(); ok {
			m.Return = rt.String()
		}
		if v.Interface {
			m.Visibility = ""
		}
		for _, p := range op.Inputs() {
			m.Params = append(m.Params, p.Type.String()+" "+p.Name)
		}
		m.Body = body(c, op, m.Constructor, javaDefault(m.Return))
		v.Methods = append(v.Methods, m)
	}
	return execute("java.tmpl", v)
}

// JavaScript renders c as an ES2022 class.
func JavaScript(c *uml.Classifier) (string, error) {
	if c == nil {
		return "", ErrNilClassifier
	}
	v := classView{Name: c.Name}
	if c.Namespace != nil {
		v.Package = c.Namespace.Name
	}
	for _, a := range c.Attributes {
		v.Fields = append(v.Fields, fieldView{Name: a.Name})
	}
	// A JavaScript class allows one constructor; the last one generated wins.
	lastCtor := -1
	for i, op := range c.Operations {
		if op.Name == naming.JSConstructorName(c.Name) {
			lastCtor = i
		}
	}
	for i, op := range c.Operations {
		m := methodView{Name: op.Name, Constructor: op.Name == naming.JSConstructorName(c.Name)}
		m.Shadowed = m.Constructor && i != lastCtor
		for _, p := range op.Inputs() {
			m.Params = append(m.Params, p.Name)
		}
		ret := "undefined"
		if rt, ok := op.ReturnType(); !ok || rt.IsVoid() {
			ret = ""
		}
		m.Body = body(c, op, m.Constructor, ret)
		v.Methods = append(v.Methods, m)
	}
	return execute("js.tmpl", v)
}

func execute(name string, v classView) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, v); err != nil {
		return "", errors.Wrapf(err, "render %s with %s", v.Name, name)
	}
	return buf.String(), nil
}

// body fills constructors with field assignments and accessors with a
// field read or write. Other methods return zero.
func body(c *uml.Classifier, op *uml.Operation, ctor bool, zero string) []string {
	if ctor {
		var lines []string
		for _, p := range op.Inputs() {
			if c.Attribute(p.Name) != nil {
				lines = append(lines, "this."+p.Name+" = "+p.Name+";")
			}
		}
		return lines
	}
	if a, getter := accessorTarget(c, op); a != nil {
		if getter {
			return []string{"return this." + a.Name + ";"}
		}
		return []string{"this." + a.Name + " = " + op.Inputs()[0].Name + ";"}
	}
	if zero == "" {
		return nil
	}
	return []string{"return " + zero + ";"}
}

// accessorTarget matches getX()/get_x() and setX(v)/set_x(v) to attribute x.
func accessorTarget(c *uml.Classifier, op *uml.Operation) (*uml.Attribute, bool) {
	inputs := op.Inputs()
	rt, hasReturn := op.ReturnType()
	var rest string
	var getter bool
	switch {
	case strings.HasPrefix(op.Name, "get") && len(inputs) == 0 && hasReturn && !rt.IsVoid():
		rest, getter = op.Name[len("get"):], true
	case strings.HasPrefix(op.Name, "set") && len(inputs) == 1:
		rest = op.Name[len("set"):]
	default:
		return nil, false
	}
	rest = strings.TrimPrefix(rest, "_")
	for _, a := range c.Attributes {
		if strings.EqualFold(a.Name, rest) {
			return a, getter
		}
	}
	return nil, false
}

func javaVisibility(v uml.Visibility) string {
	if v == uml.PackageVisibility {
		return ""
	}
	return v.String()
}

func javaDefault(typ string) string {
	switch typ {
	case "void":
		return ""
	case "int", "long", "short", "byte":
		return "0"
	case "double", "float":
		return "0.0"
	case "boolean":
		return "false"
	case "char":
		return "'\\0'"
	}
	return "null"
}
