package modelfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/uml"
)

const shopModel = `
package shop

#Person: {
	age:      int
	name:     string
	height:   float
	active:   bool
	nickname?: string
	address:  #Address
	tags:     [...string]
	meta:     {...}
	id:       string @uml(visibility=public)
	_cache:   int
}

#Address: {
	street: string
	zip:    int | *0
}

#Named: {
	name: string
} @uml(interface)

#Status: "active" | "inactive"
`

func attrTypes(c *uml.Classifier) map[string]string {
	out := make(map[string]string, len(c.Attributes))
	for _, a := range c.Attributes {
		out[a.Name] = a.Type.String()
	}
	return out
}

func attrNames(c *uml.Classifier) []string {
	var out []string
	for _, a := range c.Attributes {
		out = append(out, a.Name)
	}
	return out
}

func TestParse(t *testing.T) {
	p, err := Parse("shop.cue", []byte(shopModel))
	require.NoError(t, err)

	assert.Equal(t, "shop", p.Name)
	require.Len(t, p.Packages, 1)
	pkg := p.Packages[0]
	assert.Equal(t, "shop", pkg.Name)

	require.Len(t, pkg.Classifiers, 3, "non-struct definitions are not classifiers")
	person, address, named := pkg.Classifiers[0], pkg.Classifiers[1], pkg.Classifiers[2]
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, "shop.Person", person.QualifiedName())
	assert.Equal(t, uml.Class, person.Kind)
	assert.Equal(t, uml.Interface, named.Kind)

	assert.Equal(t,
		[]string{"age", "name", "height", "active", "nickname", "address", "tags", "meta", "id"},
		attrNames(person), "declaration order is kept and hidden fields are dropped")

	assert.Equal(t, map[string]string{
		"age":      "int",
		"name":     "String",
		"height":   "double",
		"active":   "boolean",
		"nickname": "String",
		"address":  "Address",
		"tags":     "String[]",
		"meta":     "Object",
		"id":       "String",
	}, attrTypes(person))

	assert.Same(t, address, person.Attribute("address").Type.Ref, "references bind to the classifier")
	assert.Equal(t, "int", address.Attribute("zip").Type.String())

	assert.Equal(t, uml.Private, person.Attribute("age").Visibility)
	assert.Equal(t, uml.Public, person.Attribute("id").Visibility)
	for _, a := range person.Attributes {
		assert.Same(t, person, a.Parent)
	}
}

func TestParseWithoutPackageClause(t *testing.T) {
	p, err := Parse("anon.cue", []byte(`#Point: {x: int, y: int}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultPackage, p.Packages[0].Name)
	assert.Equal(t, []string{"x", "y"}, attrNames(p.Packages[0].Classifiers[0]))
}

func TestParseForwardReference(t *testing.T) {
	p, err := Parse("fwd.cue", []byte(`
#Order: {customer: #Customer}
#Customer: {name: string}
`))
	require.NoError(t, err)
	order, customer := p.Packages[0].Classifiers[0], p.Packages[0].Classifiers[1]
	assert.Same(t, customer, order.Attribute("customer").Type.Ref)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.cue", []byte(`#Person: {age: int`))
	assert.Error(t, err)

	_, err = Parse("conflict.cue", []byte(`
x: 1
x: 2
`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.cue")
	require.NoError(t, os.WriteFile(path, []byte(shopModel), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Packages[0].Classifiers, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.Error(t, err)
}
