package generator

import (
	"errors"
	"fmt"
)

// ErrTransport is the sentinel kind for backend/network failures; match
// with errors.Is.
var ErrTransport = errors.New("generator transport failure")

// TransportError reports a failed exchange with the generator backend:
// the backend was unreachable, the connection broke, or it answered with
// a non-success status.
type TransportError struct {
	Op     string // "invoke" or "stream"
	Status int    // HTTP status, 0 when the call never completed
	Err    error  // underlying cause, nil for bare status failures
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("generator %s: backend returned status %d", e.Op, e.Status)
}

func (e *TransportError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrTransport
}

// Is lets errors.Is(err, ErrTransport) match regardless of the wrapped
// cause.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
