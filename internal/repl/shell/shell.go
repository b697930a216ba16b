// Package shell interprets REPL input lines against the model repository.
// Lines are split with POSIX shell quoting rules; a leading ':' marks a
// meta-command.
package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/matthewbaird/umlgen/internal/command"
	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/logger"
	"github.com/matthewbaird/umlgen/internal/naming"
	"github.com/matthewbaird/umlgen/internal/render"
	"github.com/matthewbaird/umlgen/internal/repl/meta"
	"github.com/matthewbaird/umlgen/internal/repl/session"
	"github.com/matthewbaird/umlgen/internal/repository"
	"github.com/matthewbaird/umlgen/internal/uml"
)

var (
	ErrEmptyLine   = errors.New("empty input")
	ErrSyntax      = errors.New("syntax error")
	ErrUnknownVerb = errors.New("unknown verb")
	ErrUsage       = errors.New("usage")
)

// Verbs lists the shell verbs, for completion.
var Verbs = []string{"select", "add", "deselect", "selection", "run", "undo", "redo", "ls", "show"}

// Shell executes input lines for sessions.
type Shell struct {
	repo *repository.Repository
	meta *meta.Handler
	log  *zap.SugaredLogger
}

// New creates a shell over repo.
func New(repo *repository.Repository, metaHandler *meta.Handler) *Shell {
	return &Shell{repo: repo, meta: metaHandler, log: logger.Named("shell")}
}

// Attach gives sess its own command registry bound to its selection.
func (s *Shell) Attach(sess *session.Session) error {
	if sess.Commands != nil {
		return nil
	}
	reg, menu := command.NewRegistry(), command.NewMenu()
	if err := command.NewRouter(sess.Selection, s.repo, reg, menu).Install(); err != nil {
		return err
	}
	sess.Commands, sess.Menu = reg, menu
	return nil
}

// Execute runs one input line. A command that partly fails returns both a
// result and an error.
func (s *Shell) Execute(ctx context.Context, sess *session.Session, line string) (*meta.Result, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrEmptyLine
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%v", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyLine
	}
	sess.AddHistory(line)
	if err := s.Attach(sess); err != nil {
		return nil, err
	}

	verb, args := words[0], words[1:]
	if strings.HasPrefix(verb, ":") {
		return s.meta.Execute(sess, strings.TrimPrefix(verb, ":"), args)
	}

	switch verb {
	case "select", "add":
		return s.selectPaths(sess, verb == "add", args)
	case "deselect":
		sess.Selection.Clear()
		return &meta.Result{Output: "selection cleared"}, nil
	case "selection":
		return &meta.Result{Output: describe(sess.Selection.SelectedModels())}, nil
	case "run":
		return s.run(ctx, sess, args)
	case "undo":
		return s.undoRedo(ctx, true)
	case "redo":
		return s.undoRedo(ctx, false)
	case "ls":
		return s.list(args)
	case "show":
		return s.show(args)
	default:
		return nil, errors.WithHint(errors.Wrapf(ErrUnknownVerb, "%q", verb), "type :help for available commands")
	}
}

func (s *Shell) resolve(paths []string) ([]uml.Element, error) {
	els := make([]uml.Element, 0, len(paths))
	for _, p := range paths {
		el, err := s.repo.Lookup(p)
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	return els, nil
}

func (s *Shell) selectPaths(sess *session.Session, add bool, paths []string) (*meta.Result, error) {
	if len(paths) == 0 {
		return nil, errors.Wrap(ErrUsage, "select <path>...")
	}
	els, err := s.resolve(paths)
	if err != nil {
		return nil, err
	}
	if add {
		sess.Selection.Add(els...)
	} else {
		sess.Selection.Select(els...)
	}
	return &meta.Result{Output: describe(sess.Selection.SelectedModels())}, nil
}

func (s *Shell) run(ctx context.Context, sess *session.Session, args []string) (*meta.Result, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(ErrUsage, "run <command> [path...]")
	}
	id := args[0]
	if _, ok := sess.Commands.Get(id); !ok {
		return nil, errors.WithHint(errors.Wrapf(command.ErrUnknownCommand, "%q", id), "type :commands to list them")
	}
	if len(args) > 1 {
		els, err := s.resolve(args[1:])
		if err != nil {
			return nil, err
		}
		sess.Selection.Select(els...)
	}

	var res *command.Result
	err := s.repo.RunExclusive(func() error {
		var err error
		res, err = sess.Commands.Execute(ctx, id)
		return err
	})
	if res == nil {
		return nil, err
	}
	s.log.Infow("command run", "session", sess.ID, "command", res.Command, "generated", len(res.Operations))

	out := &meta.Result{Generated: res.Signatures()}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d operations on %d elements", res.Command, len(res.Operations), res.Elements)
	if res.Skipped > 0 {
		fmt.Fprintf(&b, " (%d skipped)", res.Skipped)
	}
	for _, sig := range out.Generated {
		b.WriteString("\n  + ")
		b.WriteString(sig)
	}
	out.Output = b.String()
	return out, err
}

func (s *Shell) undoRedo(ctx context.Context, undo bool) (*meta.Result, error) {
	verb := "redid"
	if undo {
		verb = "undid"
	}
	var label string
	err := s.repo.RunExclusive(func() error {
		var (
			cs  *edit.ChangeSet
			err error
		)
		if undo {
			cs, err = s.repo.Undo(ctx)
		} else {
			cs, err = s.repo.Redo(ctx)
		}
		if err != nil {
			return err
		}
		label = cs.Label
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &meta.Result{Output: fmt.Sprintf("%s %q", verb, label)}, nil
}

func (s *Shell) list(args []string) (*meta.Result, error) {
	var b strings.Builder
	if len(args) == 0 {
		for _, c := range s.repo.Classifiers() {
			fmt.Fprintf(&b, "%s\n", c.QualifiedName())
		}
		return &meta.Result{Output: strings.TrimSuffix(b.String(), "\n")}, nil
	}

	el, err := s.repo.Lookup(args[0])
	if err != nil {
		return nil, err
	}
	s.repo.View(func(*uml.Project) {
		switch v := el.(type) {
		case *uml.Package:
			for _, c := range v.Classifiers {
				fmt.Fprintf(&b, "%s\n", c.QualifiedName())
			}
		case *uml.Classifier:
			for _, a := range v.Attributes {
				fmt.Fprintf(&b, "%s: %s\n", a.Name, a.Type)
			}
			for _, op := range v.Operations {
				fmt.Fprintf(&b, "%s\n", op.Signature())
			}
		default:
			fmt.Fprintf(&b, "%s %s\n", uml.KindOf(el), repository.PathOf(el))
		}
	})
	return &meta.Result{Output: strings.TrimSuffix(b.String(), "\n")}, nil
}

func (s *Shell) show(args []string) (*meta.Result, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, errors.Wrap(ErrUsage, "show <class> [java|js]")
	}
	lang := naming.Java
	if len(args) == 2 {
		l, ok := naming.ParseLanguage(args[1])
		if !ok {
			return nil, errors.Wrapf(ErrUsage, "unknown language %q", args[1])
		}
		lang = l
	}
	el, err := s.repo.Lookup(args[0])
	if err != nil {
		return nil, err
	}
	c, ok := el.(*uml.Classifier)
	if !ok {
		return nil, errors.Wrapf(ErrUsage, "%s is a %s, not a class", args[0], uml.KindOf(el))
	}
	var src string
	s.repo.View(func(*uml.Project) { src, err = render.Source(c, lang) })
	if err != nil {
		return nil, err
	}
	return &meta.Result{Output: strings.TrimSuffix(src, "\n")}, nil
}

func describe(els []uml.Element) string {
	if len(els) == 0 {
		return "(nothing selected)"
	}
	parts := make([]string, len(els))
	for i, el := range els {
		parts[i] = uml.KindOf(el) + " " + repository.PathOf(el)
	}
	return "selected: " + strings.Join(parts, ", ")
}
