// Package autocomplete provides completions for shell input: verbs,
// meta-commands, generator command IDs and model paths.
package autocomplete

import (
	"strings"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/repl/meta"
	"github.com/matthewbaird/umlgen/internal/repl/shell"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// CompletionItem is a single autocomplete suggestion.
type CompletionItem struct {
	Label      string `json:"label"`
	Kind       string `json:"kind"` // "verb", "meta", "command", "path", "language", "topic"
	Detail     string `json:"detail,omitempty"`
	InsertText string `json:"insert_text,omitempty"`
}

// Engine completes from the live model.
type Engine struct {
	repo *repository.Repository
}

// New creates an autocomplete engine over repo.
func New(repo *repository.Repository) *Engine {
	return &Engine{repo: repo}
}

var languages = []string{"java", "js"}

// Complete returns suggestions for text with the cursor at byte offset cursor.
func (e *Engine) Complete(text string, cursor int) []CompletionItem {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	prefix := text[:cursor]

	words := strings.Fields(prefix)
	partial := ""
	// Trailing whitespace means the last word is complete.
	if len(words) > 0 && !strings.HasSuffix(prefix, " ") && !strings.HasSuffix(prefix, "\t") {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}
	partial = strings.TrimLeft(partial, `"'`)

	if len(words) == 0 {
		items := filterItems(shell.Verbs, partial, "verb")
		return append(items, filterItems(meta.Names, partial, "meta")...)
	}

	switch verb := words[0]; verb {
	case "run":
		if len(words) == 1 {
			return e.completeCommands(partial)
		}
		return e.completePaths(partial)
	case "select", "add":
		return e.completePaths(partial)
	case "ls", ":model":
		if len(words) == 1 {
			return e.completePaths(partial)
		}
	case "show":
		if len(words) == 1 {
			return e.completePaths(partial)
		}
		if len(words) == 2 {
			return filterItems(languages, partial, "language")
		}
	case ":help":
		if len(words) == 1 {
			return filterItems(shell.Verbs, partial, "topic")
		}
	}
	return nil
}

func (e *Engine) completeCommands(partial string) []CompletionItem {
	var items []CompletionItem
	for _, s := range command.Specs {
		if strings.HasPrefix(s.ID, partial) {
			items = append(items, CompletionItem{Label: s.ID, Kind: "command", Detail: s.Label})
		}
	}
	return items
}

// completePaths offers classifier names until the partial contains a dot,
// then members of the named classifier.
func (e *Engine) completePaths(partial string) []CompletionItem {
	var items []CompletionItem
	lower := strings.ToLower(partial)
	e.repo.View(func(p *uml.Project) {
		for _, pkg := range p.Packages {
			for _, c := range pkg.Classifiers {
				for _, name := range []string{c.Name, c.QualifiedName()} {
					if strings.HasPrefix(strings.ToLower(name), lower) {
						items = append(items, CompletionItem{Label: name, Kind: "path", Detail: c.Kind.String()})
					}
					if !strings.HasPrefix(lower, strings.ToLower(name)+".") {
						continue
					}
					for _, a := range c.Attributes {
						label := name + "." + a.Name
						if strings.HasPrefix(strings.ToLower(label), lower) {
							items = append(items, CompletionItem{
								Label:      label,
								Kind:       "path",
								Detail:     "attribute " + a.Type.String(),
								InsertText: quoteIfNeeded(label),
							})
						}
					}
				}
			}
		}
	})
	return dedupe(items)
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return `"` + s + `"`
	}
	return ""
}

func dedupe(items []CompletionItem) []CompletionItem {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it.Label] {
			continue
		}
		seen[it.Label] = true
		out = append(out, it)
	}
	return out
}

func filterItems(candidates []string, partial, kind string) []CompletionItem {
	var items []CompletionItem
	for _, c := range candidates {
		if partial == "" || strings.HasPrefix(strings.ToLower(c), strings.ToLower(partial)) {
			items = append(items, CompletionItem{
				Label: c,
				Kind:  kind,
			})
		}
	}
	return items
}
