// Package event turns committed, undone and redone change-sets into domain
// events and journals them in the activity store.
package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/umlgen/internal/edit"
	"github.com/matthewbaird/umlgen/internal/types"
	"github.com/matthewbaird/umlgen/internal/uml"
)

// Event types.
const (
	ChangeApplied = "change_applied"
	ChangeUndone  = "change_undone"
	ChangeRedone  = "change_redone"
)

// DomainEvent carries the canonical shape of every model edit event.
type DomainEvent struct {
	ID               string
	EventType        string
	OccurredAt       time.Time
	AffectedEntities []types.SourceRef
	Summary          string
	Category         string // "accessor", "constructor", "edit"
	Weight           string
	Polarity         string // "positive", "negative"
	Payload          json.RawMessage
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// ChangePayload describes a change-set in event payloads.
type ChangePayload struct {
	ChangeSetID string          `json:"change_set_id"`
	Label       string          `json:"label"`
	Members     []MemberPayload `json:"members"`
}

// MemberPayload describes one appended element.
type MemberPayload struct {
	Owner     string `json:"owner"`
	Field     string `json:"field"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Signature string `json:"signature,omitempty"`
}

// NewChangeApplied describes a committed change-set.
func NewChangeApplied(cs *edit.ChangeSet) DomainEvent {
	return newChangeEvent(ChangeApplied, cs, types.WeightInfo, "positive")
}

// NewChangeUndone describes a reverted change-set.
func NewChangeUndone(cs *edit.ChangeSet) DomainEvent {
	return newChangeEvent(ChangeUndone, cs, types.WeightMinor, "negative")
}

// NewChangeRedone describes a change-set re-applied after undo.
func NewChangeRedone(cs *edit.ChangeSet) DomainEvent {
	return newChangeEvent(ChangeRedone, cs, types.WeightInfo, "positive")
}

func newChangeEvent(eventType string, cs *edit.ChangeSet, weight, polarity string) DomainEvent {
	var (
		refs    []types.SourceRef
		seen    = make(map[uuid.UUID]bool)
		members = make([]MemberPayload, 0, len(cs.Fields))
		names   = make([]string, 0, len(cs.Fields))
	)
	for _, fc := range cs.Fields {
		if pid := fc.Parent.ElementID(); !seen[pid] {
			seen[pid] = true
			refs = append(refs, types.SourceRef{EntityType: uml.KindOf(fc.Parent), EntityID: pid.String(), Role: types.RoleContext})
		}
		refs = append(refs, types.SourceRef{EntityType: uml.KindOf(fc.Element), EntityID: fc.Element.ElementID().String(), Role: types.RoleSubject})

		m := MemberPayload{
			Owner: fc.Parent.ElementName(),
			Field: fc.Field,
			Kind:  uml.KindOf(fc.Element),
			Name:  fc.Element.ElementName(),
		}
		if op, ok := fc.Element.(*uml.Operation); ok {
			m.Signature = op.Signature()
		}
		members = append(members, m)
		if m.Signature != "" {
			names = append(names, m.Owner+"."+m.Signature)
		} else {
			names = append(names, m.Owner+"."+m.Name)
		}
	}

	verb := map[string]string{ChangeApplied: "applied", ChangeUndone: "undid", ChangeRedone: "redid"}[eventType]
	return DomainEvent{
		ID:               newID(),
		EventType:        eventType,
		OccurredAt:       time.Now(),
		AffectedEntities: refs,
		Summary:          fmt.Sprintf("%s %q: %s", verb, cs.Label, strings.Join(names, ", ")),
		Category:         categoryOf(cs.Label),
		Weight:           weight,
		Polarity:         polarity,
		Payload: mustJSON(ChangePayload{
			ChangeSetID: cs.ID.String(),
			Label:       cs.Label,
			Members:     members,
		}),
	}
}

func categoryOf(label string) string {
	switch {
	case strings.Contains(label, "getter"), strings.Contains(label, "setter"):
		return "accessor"
	case strings.Contains(label, "constructor"):
		return "constructor"
	default:
		return "edit"
	}
}
