package eventbus

import (
	"context"

	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/logger"
)

// LogConsumer logs all domain events for observability.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.DomainEvent) error {
	entities := make([]string, len(evt.AffectedEntities))
	for i, ref := range evt.AffectedEntities {
		id := ref.EntityID
		if len(id) > 8 {
			id = id[:8]
		}
		entities[i] = ref.EntityType + ":" + id
	}
	logger.Logger.Infow(evt.Summary,
		"event_type", evt.EventType,
		"category", evt.Category,
		"weight", evt.Weight,
		"entities", entities)
	return nil
}
