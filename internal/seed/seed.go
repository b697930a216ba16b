// Package seed provides the demo model used when no model file is configured.
package seed

import (
	_ "embed"

	"github.com/matthewbaird/umlgen/internal/modelfile"
	"github.com/matthewbaird/umlgen/internal/uml"
)

//go:embed sample.cue
var sample []byte

// Source returns the sample model's CUE text.
func Source() []byte {
	return append([]byte(nil), sample...)
}

// Project parses a fresh copy of the sample model.
func Project() (*uml.Project, error) {
	return modelfile.Parse("sample.cue", sample)
}
