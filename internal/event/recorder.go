package event

import (
	"context"

	"github.com/matthewbaird/umlgen/internal/activity"
	"github.com/matthewbaird/umlgen/internal/errors"
	"github.com/matthewbaird/umlgen/internal/types"
)

// ErrInvalidEvent is returned for an event without an ID or type.
var ErrInvalidEvent = errors.New("invalid domain event")

// Recorder writes domain events to the activity store.
type Recorder interface {
	Record(ctx context.Context, evt DomainEvent) error
}

// Publisher sends domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt DomainEvent)
}

// ActivityRecorder journals each event as one ActivityEntry per affected
// element, then hands the event to the publisher if one is set. An event
// that touches no element is published without a journal write.
type ActivityRecorder struct {
	store activity.Store
	bus   Publisher
}

// NewActivityRecorder creates a recorder backed by store.
func NewActivityRecorder(store activity.Store) *ActivityRecorder {
	return &ActivityRecorder{store: store}
}

// SetPublisher attaches an event bus.
func (r *ActivityRecorder) SetPublisher(p Publisher) {
	r.bus = p
}

// Record journals and publishes evt. Nothing is published when the store
// write fails.
func (r *ActivityRecorder) Record(ctx context.Context, evt DomainEvent) error {
	if evt.ID == "" || evt.EventType == "" {
		return errors.Wrapf(ErrInvalidEvent, "id %q type %q", evt.ID, evt.EventType)
	}
	if entries := Entries(evt); len(entries) > 0 {
		if err := r.store.WriteEntries(ctx, entries); err != nil {
			return errors.Wrapf(err, "journal %s", evt.EventType)
		}
	}
	if r.bus != nil {
		r.bus.Publish(ctx, evt)
	}
	return nil
}

// Entries indexes evt by each element it references.
func Entries(evt DomainEvent) []types.ActivityEntry {
	entries := make([]types.ActivityEntry, 0, len(evt.AffectedEntities))
	for _, ref := range evt.AffectedEntities {
		entries = append(entries, types.ActivityEntry{
			EventID:           evt.ID,
			EventType:         evt.EventType,
			OccurredAt:        evt.OccurredAt,
			IndexedEntityType: ref.EntityType,
			IndexedEntityID:   ref.EntityID,
			EntityRole:        ref.Role,
			SourceRefs:        evt.AffectedEntities,
			Summary:           evt.Summary,
			Category:          evt.Category,
			Weight:            evt.Weight,
			Polarity:          evt.Polarity,
			Payload:           evt.Payload,
		})
	}
	return entries
}
