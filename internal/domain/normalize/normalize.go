// Package normalize coerces raw generator output into validated Event
// records.
//
// The backend offers no structured-output guarantee: even with JSON mode
// requested it alternates between a bare array of events, an object
// wrapping the array under "optimizedEvents", and a single bare event
// object. This package owns that unwrap policy so the dispatcher only
// ever sees typed events or a typed failure.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/merlinhq/merlin/internal/domain/model"
)

// wrapperKey is the envelope key some generator responses wrap the event
// array in.
const wrapperKey = "optimizedEvents"

// Events parses raw generator text and returns the validated event batch.
// Validation is all-or-nothing: one bad element fails the whole batch with
// ErrSchemaViolation, since a malformed batch is more likely systemic than
// a single bad record. Element order mirrors the normalized array.
func Events(raw string) ([]model.Event, error) {
	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}

	var elements []any
	switch v := top.(type) {
	case map[string]any:
		if wrapped, ok := v[wrapperKey].([]any); ok {
			elements = wrapped
		} else {
			// A bare object is treated as a single-event batch.
			elements = []any{v}
		}
	case []any:
		elements = v
	default:
		return nil, fmt.Errorf("%w: top-level value is %T, want object or array", ErrSchemaViolation, top)
	}

	// Round-trip through JSON to apply the Event schema strictly enough
	// to reject mistyped fields.
	buf, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	events := make([]model.Event, 0, len(elements))
	if err := json.Unmarshal(buf, &events); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	for i := range events {
		if err := events[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrSchemaViolation, i, err)
		}
	}
	return events, nil
}
