// Package partition groups a week of events into per-day buckets for
// independent dispatch.
package partition

import (
	"sort"

	"github.com/merlinhq/merlin/internal/domain/model"
)

// ByDay buckets events by their calendar-date key, preserving input
// order within each bucket. Pure function, no failure modes; degenerate
// keys from short start dates are bucketed as-is.
func ByDay(events []model.Event) map[string][]model.Event {
	buckets := make(map[string][]model.Event, len(events))
	for _, ev := range events {
		day := ev.Day()
		buckets[day] = append(buckets[day], ev)
	}
	return buckets
}

// SortedKeys returns the bucket keys in ascending order, so flattened
// results come out calendar-ordered regardless of dispatch completion
// order.
func SortedKeys(buckets map[string][]model.Event) []string {
	keys := make([]string, 0, len(buckets))
	for day := range buckets {
		keys = append(keys, day)
	}
	sort.Strings(keys)
	return keys
}
