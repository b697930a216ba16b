package command

import (
	"github.com/matthewbaird/umlgen/internal/naming"
)

// Kind is the member family a command generates.
type Kind int

const (
	Accessors Kind = iota
	Constructor
)

func (k Kind) String() string {
	if k == Constructor {
		return "constructor"
	}
	return "accessors"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Spec is one row of the command table.
type Spec struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Kind       Kind              `json:"kind"`
	Convention naming.Convention `json:"-"`
	Language   naming.Language   `json:"-"`
	Full       bool              `json:"full,omitempty"`
	Keys       []string          `json:"keys,omitempty"`
	Aliases    []string          `json:"aliases,omitempty"`
}

// Specs lists every command, in menu order.
var Specs = []Spec{
	{
		ID:         "generate",
		Label:      "Generate Getters & Setters",
		Kind:       Accessors,
		Convention: naming.CamelCase,
		Keys:       []string{"Ctrl-Alt-G"},
		Aliases:    []string{"tools.generate-gettersetter"},
	},
	{ID: "generate_camel_case", Label: "Generate Getters & Setters (camelCase)", Kind: Accessors, Convention: naming.CamelCase},
	{ID: "generate_snake_case", Label: "Generate Getters & Setters (snake_case)", Kind: Accessors, Convention: naming.SnakeCaseConvention},
	{ID: "generate_empty_constructor_java", Label: "Generate Empty Constructor (Java)", Kind: Constructor, Language: naming.Java},
	{ID: "generate_full_constructor_java", Label: "Generate Full Constructor (Java)", Kind: Constructor, Language: naming.Java, Full: true},
	{ID: "generate_empty_constructor_js", Label: "Generate Empty Constructor (JavaScript)", Kind: Constructor, Language: naming.JavaScript},
	{ID: "generate_full_constructor_js", Label: "Generate Full Constructor (JavaScript)", Kind: Constructor, Language: naming.JavaScript, Full: true},
}

// SpecFor returns the table row for id or one of its aliases.
func SpecFor(id string) (Spec, bool) {
	for _, s := range Specs {
		if s.ID == id {
			return s, true
		}
		for _, a := range s.Aliases {
			if a == id {
				return s, true
			}
		}
	}
	return Spec{}, false
}
