package ics

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyPayload = errors.New("empty ICS payload")
	ErrMissingUID   = errors.New("VEVENT is missing a UID")
	ErrBadRange     = errors.New("week end precedes week start")
)
