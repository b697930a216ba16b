// Package worker contains event consumers that maintain derived views of
// the model.
package worker

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/logger"
)

// MemberIndex consumes change events from the event bus and tracks which
// generated members are live, per owning classifier. Undone change-sets drop
// out of the index and come back when redone.
type MemberIndex struct {
	mu   sync.RWMutex
	live map[string]event.ChangePayload // by change-set ID
}

// NewMemberIndex creates an empty index.
func NewMemberIndex() *MemberIndex {
	return &MemberIndex{live: make(map[string]event.ChangePayload)}
}

// HandleEvent updates the index from one domain event.
func (w *MemberIndex) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	var p event.ChangePayload
	if err := json.Unmarshal(evt.Payload, &p); err != nil {
		return errors.Wrapf(err, "member index: decoding %s payload", evt.EventType)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	switch evt.EventType {
	case event.ChangeApplied, event.ChangeRedone:
		w.live[p.ChangeSetID] = p
	case event.ChangeUndone:
		delete(w.live, p.ChangeSetID)
	default:
		logger.Logger.Debugw("member index: ignoring event", "event_type", evt.EventType)
	}
	return nil
}

// Snapshot returns the live generated signatures keyed by owner name,
// sorted within each owner.
func (w *MemberIndex) Snapshot() map[string][]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make(map[string][]string)
	for _, cs := range w.live {
		for _, m := range cs.Members {
			if m.Signature == "" {
				continue
			}
			out[m.Owner] = append(out[m.Owner], m.Signature)
		}
	}
	for _, sigs := range out {
		sort.Strings(sigs)
	}
	return out
}

// Len returns the number of live change-sets.
func (w *MemberIndex) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.live)
}
