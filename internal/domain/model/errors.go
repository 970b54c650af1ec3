package model

import "errors"

// ErrInvalid is the sentinel kind for inbound schema failures; match with
// errors.Is.
var ErrInvalid = errors.New("invalid request")

// ValidationError reports a missing required field on an inbound record.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
