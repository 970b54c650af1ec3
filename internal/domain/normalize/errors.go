package normalize

import "errors"

// Sentinel kinds for normalization failures. Callers distinguish transport
// failure from these programmatically via errors.Is, never by message
// matching.
var (
	// ErrMalformedJSON means the raw text did not parse as JSON at all.
	ErrMalformedJSON = errors.New("generator response is not valid JSON")

	// ErrSchemaViolation means the JSON parsed but did not describe a
	// valid event batch.
	ErrSchemaViolation = errors.New("generator response violates the event schema")
)
