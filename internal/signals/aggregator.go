// Package signals summarizes an element's activity journal: how many edits
// per category, which way they went and whether a rule flags the pattern.
package signals

import (
	"sort"
	"time"

	"github.com/matthewbaird/umlgen/internal/types"
)

// CategorySummary counts the entries of one category.
type CategorySummary struct {
	Category         string         `json:"category"`
	Count            int            `json:"count"`
	ByWeight         map[string]int `json:"by_weight"`
	ByPolarity       map[string]int `json:"by_polarity"`
	DominantPolarity string         `json:"dominant_polarity"`
	Trend            string         `json:"trend"` // "rising", "falling", "stable"
}

// Rule flags an element once Count entries matching Category and Polarity
// fall within the last Within.
type Rule struct {
	ID       string        `json:"id"`
	Category string        `json:"category,omitempty"`
	Polarity string        `json:"polarity,omitempty"`
	Count    int           `json:"count"`
	Within   time.Duration `json:"within"`
	Message  string        `json:"message"`
}

// Escalation is a rule that fired.
type Escalation struct {
	Rule             Rule      `json:"rule"`
	TriggeringCount  int       `json:"triggering_count"`
	EarliestOccurred time.Time `json:"earliest_occurred"`
	LatestOccurred   time.Time `json:"latest_occurred"`
}

// Summary is the aggregate view of one element's entries.
type Summary struct {
	EntityType  string                     `json:"entity_type,omitempty"`
	EntityID    string                     `json:"entity_id"`
	Since       time.Time                  `json:"since"`
	Until       time.Time                  `json:"until"`
	Categories  map[string]CategorySummary `json:"categories"`
	Net         int                        `json:"net"` // applied and redone minus undone
	Escalations []Escalation               `json:"escalations"`
}

// Rules are evaluated by Aggregate.
var Rules = []Rule{
	{
		ID:       "undo_churn",
		Polarity: "negative",
		Count:    3,
		Within:   time.Hour,
		Message:  "generated members were undone repeatedly",
	},
	{
		ID:       "accessor_burst",
		Category: "accessor",
		Polarity: "positive",
		Count:    20,
		Within:   10 * time.Minute,
		Message:  "many accessor generations in a short time",
	},
}

// Aggregate summarizes entries over [since, until]. now anchors rule windows.
func Aggregate(entries []types.ActivityEntry, entityType, entityID string, since, until, now time.Time) Summary {
	categories := make(map[string]*CategorySummary)
	net := 0

	for _, e := range entries {
		cs, ok := categories[e.Category]
		if !ok {
			cs = &CategorySummary{
				Category:   e.Category,
				ByWeight:   make(map[string]int),
				ByPolarity: make(map[string]int),
			}
			categories[e.Category] = cs
		}
		cs.Count++
		cs.ByWeight[e.Weight]++
		cs.ByPolarity[e.Polarity]++
		switch e.Polarity {
		case "positive":
			net++
		case "negative":
			net--
		}
	}

	result := make(map[string]CategorySummary, len(categories))
	for cat, cs := range categories {
		cs.DominantPolarity = dominantPolarity(cs.ByPolarity)
		cs.Trend = computeTrend(entries, cat, since, until)
		result[cat] = *cs
	}

	return Summary{
		EntityType:  entityType,
		EntityID:    entityID,
		Since:       since,
		Until:       until,
		Categories:  result,
		Net:         net,
		Escalations: Evaluate(Rules, entries, now),
	}
}

// Evaluate returns the rules that fire on entries.
func Evaluate(rules []Rule, entries []types.ActivityEntry, now time.Time) []Escalation {
	out := []Escalation{}
	for _, r := range rules {
		if es, ok := evaluateRule(r, entries, now); ok {
			out = append(out, es)
		}
	}
	return out
}

func evaluateRule(rule Rule, entries []types.ActivityEntry, now time.Time) (Escalation, bool) {
	windowStart := now.Add(-rule.Within)

	var matching []types.ActivityEntry
	for _, e := range entries {
		if e.OccurredAt.Before(windowStart) {
			continue
		}
		if rule.Category != "" && e.Category != rule.Category {
			continue
		}
		if rule.Polarity != "" && e.Polarity != rule.Polarity {
			continue
		}
		matching = append(matching, e)
	}
	if len(matching) == 0 || len(matching) < rule.Count {
		return Escalation{}, false
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].OccurredAt.Before(matching[j].OccurredAt)
	})
	return Escalation{
		Rule:             rule,
		TriggeringCount:  len(matching),
		EarliestOccurred: matching[0].OccurredAt,
		LatestOccurred:   matching[len(matching)-1].OccurredAt,
	}, true
}

// dominantPolarity returns the polarity with the highest count. Ties go to
// the alphabetically first polarity.
func dominantPolarity(byPolarity map[string]int) string {
	best, bestCount := "", 0
	for p, c := range byPolarity {
		if c > bestCount || (c == bestCount && p < best) {
			best, bestCount = p, c
		}
	}
	return best
}

// computeTrend compares volume in the first and second half of the window.
func computeTrend(entries []types.ActivityEntry, category string, since, until time.Time) string {
	mid := since.Add(until.Sub(since) / 2)
	var first, second int
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if e.OccurredAt.Before(mid) {
			first++
		} else {
			second++
		}
	}
	switch {
	case second > first:
		return "rising"
	case second < first:
		return "falling"
	default:
		return "stable"
	}
}
