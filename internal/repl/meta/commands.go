// Package meta handles REPL meta-commands (:help, :clear, :env, :history,
// :commands, :model).
package meta

import (
	"fmt"
	"strings"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// ErrUnknownMeta is returned for an unrecognised :command.
var ErrUnknownMeta = errors.New("unknown meta-command")

// Names lists the meta-commands, for completion.
var Names = []string{":help", ":clear", ":env", ":history", ":commands", ":model"}

// Handler dispatches meta-commands.
type Handler struct {
	repo *repository.Repository
}

// New creates a meta-command handler.
func New(repo *repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// Result is the output of a shell line.
type Result struct {
	Output    string   `json:"output"`
	Clear     bool     `json:"clear,omitempty"` // Signal frontend to clear screen
	Generated []string `json:"generated,omitempty"`
}

// Execute runs a meta-command and returns the result.
func (h *Handler) Execute(sess *session.Session, name string, args []string) (*Result, error) {
	switch name {
	case "help":
		return h.help(args)
	case "clear":
		return &Result{Clear: true}, nil
	case "env":
		return h.env(sess)
	case "history":
		return h.history(sess)
	case "commands":
		return h.commands()
	case "model":
		return h.model(args)
	default:
		return nil, errors.WithHint(errors.Wrapf(ErrUnknownMeta, "':%s'", name), "type :help for available commands")
	}
}

const helpText = `umlgen shell

Selection:
  select <path>...         Replace the selection
  add <path>...            Add to the selection
  deselect                 Empty the selection
  selection                Show the selection

Generation:
  run <command> [path...]  Run a generator on the selection (or on the paths)
  undo                     Revert the last edit
  redo                     Re-apply the last undone edit

Model:
  ls [package|class]       List classifiers or members
  show <class> [java|js]   Preview a class as source

Paths: Person, shop.Person, Person.age, shop.Person.age

Meta-commands:
  :help [topic]    Show help
  :clear           Clear the screen
  :env             Show session info
  :history         Show input history
  :commands        List generator commands
  :model [class]   Show the model tree

Examples:
  select Person
  run generate_camel_case
  run generate_full_constructor_java shop.Order
  show Person java`

func (h *Handler) help(args []string) (*Result, error) {
	if len(args) > 0 {
		return h.helpTopic(args[0])
	}
	return &Result{Output: helpText}, nil
}

func (h *Handler) helpTopic(topic string) (*Result, error) {
	switch topic {
	case "select", "add":
		return &Result{Output: topic + " <path>...\n\nPaths name a package, class or member. Quote paths that contain spaces."}, nil
	case "run":
		var b strings.Builder
		b.WriteString("run <command> [path...]\n\nCommands:\n")
		for _, s := range command.Specs {
			fmt.Fprintf(&b, "  %-34s %s\n", s.ID, s.Label)
		}
		return &Result{Output: b.String()}, nil
	case "show":
		return &Result{Output: "show <class> [java|js]\n\nRenders the class with its fields, constructors and methods. Defaults to java."}, nil
	case "undo", "redo":
		return &Result{Output: topic + "\n\nEach generated getter/setter pair or constructor is one edit."}, nil
	default:
		return &Result{Output: fmt.Sprintf("No help available for '%s'", topic)}, nil
	}
}

func (h *Handler) env(sess *session.Session) (*Result, error) {
	out := fmt.Sprintf("Session: %s\nCreated: %s\nLast active: %s\nHistory entries: %d\nSelected: %d\nUndo depth: %d\nRedo depth: %d",
		sess.ID,
		sess.CreatedAt.Format("2006-01-02 15:04:05"),
		sess.LastActiveAt.Format("2006-01-02 15:04:05"),
		len(sess.History), len(sess.Selection.SelectedModels()),
		h.repo.CanUndo(), h.repo.CanRedo())
	return &Result{Output: out}, nil
}

func (h *Handler) history(sess *session.Session) (*Result, error) {
	if len(sess.History) == 0 {
		return &Result{Output: "(no history)"}, nil
	}

	var b strings.Builder
	for i, entry := range sess.History {
		fmt.Fprintf(&b, "%3d  %s\n", i+1, entry)
	}
	return &Result{Output: b.String()}, nil
}

func (h *Handler) commands() (*Result, error) {
	var b strings.Builder
	for _, s := range command.Specs {
		keys := ""
		if len(s.Keys) > 0 {
			keys = "  [" + strings.Join(s.Keys, ", ") + "]"
		}
		fmt.Fprintf(&b, "%-34s %s%s\n", s.ID, s.Label, keys)
	}
	return &Result{Output: b.String()}, nil
}

func (h *Handler) model(args []string) (*Result, error) {
	var b strings.Builder
	if len(args) > 0 {
		el, err := h.repo.Lookup(args[0])
		if err != nil {
			return nil, err
		}
		c, ok := el.(*uml.Classifier)
		if !ok {
			return nil, errors.Newf("%s is a %s, not a class", args[0], uml.KindOf(el))
		}
		h.repo.View(func(*uml.Project) { writeClassifier(&b, c) })
		return &Result{Output: b.String()}, nil
	}

	h.repo.View(func(p *uml.Project) {
		fmt.Fprintf(&b, "project %s\n", p.Name)
		for _, pkg := range p.Packages {
			fmt.Fprintf(&b, "  package %s\n", pkg.Name)
			for _, c := range pkg.Classifiers {
				fmt.Fprintf(&b, "    %s %s (%d attributes, %d operations)\n",
					c.Kind, c.Name, len(c.Attributes), len(c.Operations))
			}
		}
	})
	return &Result{Output: b.String()}, nil
}

func writeClassifier(b *strings.Builder, c *uml.Classifier) {
	fmt.Fprintf(b, "%s %s\n", c.Kind, c.QualifiedName())
	for _, a := range c.Attributes {
		fmt.Fprintf(b, "  %-9s %s: %s\n", a.Visibility, a.Name, a.Type)
	}
	for _, op := range c.Operations {
		fmt.Fprintf(b, "  %-9s %s\n", op.Visibility, op.Signature())
	}
}
