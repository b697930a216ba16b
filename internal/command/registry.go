package command

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matthewbaird/umlgen/internal/errors"
)

var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrDuplicateCommand = errors.New("command already registered")
)

// HandlerFunc runs a command against the ambient selection.
type HandlerFunc func(ctx context.Context) (*Result, error)

// Command is a registered command.
type Command struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	handler HandlerFunc
}

// Registry maps command IDs to handlers.
type Registry struct {
	mu      sync.RWMutex
	cmds    map[string]*Command
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cmds:    make(map[string]*Command),
		aliases: make(map[string]string),
	}
}

// Register adds a command. IDs are unique.
func (r *Registry) Register(label, id string, h HandlerFunc) error {
	if id == "" || h == nil {
		return errors.Newf("register %q: empty id or nil handler", label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cmds[id]; ok {
		return errors.Wrapf(ErrDuplicateCommand, "%q", id)
	}
	r.cmds[id] = &Command{ID: id, Label: label, handler: h}
	return nil
}

// Alias makes alias resolve to the registered command id.
func (r *Registry) Alias(alias, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cmds[id]; !ok {
		return errors.Wrapf(ErrUnknownCommand, "alias %q -> %q", alias, id)
	}
	r.aliases[alias] = id
	return nil
}

// Get resolves id, following aliases.
func (r *Registry) Get(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, ok := r.aliases[id]; ok {
		id = target
	}
	c, ok := r.cmds[id]
	if !ok {
		return Command{}, false
	}
	return *c, true
}

// Execute runs the command registered under id.
func (r *Registry) Execute(ctx context.Context, id string) (*Result, error) {
	c, ok := r.Get(id)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCommand, "%q", id)
	}
	return c.handler(ctx)
}

// Commands returns every registered command sorted by ID.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.cmds))
	for _, c := range r.cmds {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b Command) int { return strings.Compare(a.ID, b.ID) })
	return out
}
