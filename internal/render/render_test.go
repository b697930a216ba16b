package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/umlgen/internal/generate"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

func generatedPerson(t *testing.T, ctorName naming.ConstructorName) *uml.Classifier {
	t.Helper()
	p := uml.NewProject("demo")
	c := p.AddPackage("shop").AddClass("Person")
	c.AddAttribute("age", uml.Named("int"))

	b := generate.New(repository.New(p))
	ctx := context.Background()
	_, err := b.GenerateConstructor(ctx, c, ctorName, true)
	require.NoError(t, err)
	_, err = b.GenerateGetterSetter(ctx, c.Attribute("age"), nil)
	require.NoError(t, err)
	return c
}

func TestJava(t *testing.T) {
	c := generatedPerson(t, naming.JavaConstructorName)
	got, err := Java(c)
	require.NoError(t, err)

	want := `package shop;

public class Person {
    private int age;

    public Person(int age) {
        this.age = age;
    }

    public int getAge() {
        return this.age;
    }

    public void setAge(int value) {
        this.age = value;
    }
}
`
	assert.Equal(t, want, got)
}

func TestJavaScript(t *testing.T) {
	c := generatedPerson(t, naming.JSConstructorName)
	got, err := Source(c, naming.JavaScript)
	require.NoError(t, err)

	want := `// shop
class Person {
    age;

    constructor(age) {
        this.age = age;
    }

    getAge() {
        return this.age;
    }

    setAge(value) {
        this.age = value;
    }
}
`
	assert.Equal(t, want, got)
}

func TestJavaInterface(t *testing.T) {
	c := uml.NewClass("Named")
	c.Kind = uml.Interface
	c.AddAttribute("name", uml.Named("String"))
	op := uml.NewOperation("describe", uml.Public, c)
	op.AddParameter(uml.Return, "", uml.Named("String"))
	c.Operations = append(c.Operations, op)

	got, err := Java(c)
	require.NoError(t, err)
	assert.Equal(t, "public interface Named {\n\n    String describe();\n}\n", got)
}

func TestJavaSnakeCaseAccessorsAndUnknownMethods(t *testing.T) {
	c := uml.NewClass("Counter")
	c.AddAttribute("total", uml.Named("double"))
	get := uml.NewOperation("get_total", uml.Public, c)
	get.AddParameter(uml.Return, "", uml.Named("double"))
	other := uml.NewOperation("reset", uml.Protected, c)
	flag := uml.NewOperation("isEmpty", uml.PackageVisibility, c)
	flag.AddParameter(uml.Return, "", uml.Named("boolean"))
	c.Operations = append(c.Operations, get, other, flag)

	got, err := Java(c)
	require.NoError(t, err)
	assert.Contains(t, got, "public double get_total() {\n        return this.total;\n    }")
	assert.Contains(t, got, "protected void reset() {\n    }")
	assert.Contains(t, got, "boolean isEmpty() {\n        return false;\n    }")
}

func TestNilClassifier(t *testing.T) {
	_, err := Java(nil)
	assert.ErrorIs(t, err, ErrNilClassifier)
	_, err = JavaScript(nil)
	assert.ErrorIs(t, err, ErrNilClassifier)
}

func TestJavaScriptKeepsOnlyLastConstructor(t *testing.T) {
	p := uml.NewProject("demo")
	c := p.AddPackage("shop").AddClass("Person")
	c.AddAttribute("age", uml.Named("int"))

	b := generate.New(repository.New(p))
	ctx := context.Background()
	_, err := b.GenerateConstructor(ctx, c, naming.JSConstructorName, false)
	require.NoError(t, err)
	_, err = b.GenerateConstructor(ctx, c, naming.JSConstructorName, true)
	require.NoError(t, err)

	got, err := JavaScript(c)
	require.NoError(t, err)
	want := `// shop
class Person {
    age;

    // constructor() replaced by a later constructor

    constructor(age) {
        this.age = age;
    }
}
`
	assert.Equal(t, want, got)
}
