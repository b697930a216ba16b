// Package types holds value types shared by the event, activity and HTTP
// layers.
package types

import (
	"encoding/json"
	"time"
)

// Weights ordered from least to most significant.
const (
	WeightInfo     = "info"
	WeightMinor    = "minor"
	WeightMajor    = "major"
	WeightCritical = "critical"
)

var weightRank = map[string]int{
	WeightInfo:     0,
	WeightMinor:    1,
	WeightMajor:    2,
	WeightCritical: 3,
}

// IsAtLeastWeight reports whether weight ranks at or above min. Unknown
// weights rank as info.
func IsAtLeastWeight(weight, min string) bool {
	return weightRank[weight] >= weightRank[min]
}

// Roles an element plays in a change-set.
const (
	RoleSubject = "subject" // the element the change-set created
	RoleContext = "context" // the classifier that owns it
)

// SourceRef identifies a model element referenced by an event.
type SourceRef struct {
	EntityType string `json:"entity_type"` // "class", "interface", "attribute", "operation", ...
	EntityID   string `json:"entity_id"`
	Role       string `json:"role"` // RoleSubject or RoleContext
}

// ActivityEntry is a secondary index entry over the change log, keyed by a
// referenced element. One event produces one entry per referenced element.
type ActivityEntry struct {
	EventID           string          `json:"event_id"`
	EventType         string          `json:"event_type"`
	OccurredAt        time.Time       `json:"occurred_at"`
	IndexedEntityType string          `json:"indexed_entity_type"`
	IndexedEntityID   string          `json:"indexed_entity_id"`
	EntityRole        string          `json:"entity_role"`
	SourceRefs        []SourceRef     `json:"source_refs"`
	Summary           string          `json:"summary"`
	Category          string          `json:"category"` // "accessor", "constructor", "edit"
	Weight            string          `json:"weight"`
	Polarity          string          `json:"polarity"` // "positive" applied, "negative" undone
	Payload           json.RawMessage `json:"payload"`
}
