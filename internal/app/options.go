package app

import (
	"time"

	"github.com/merlinhq/merlin/internal/domain/session"
	"github.com/merlinhq/merlin/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxConcurrentDays caps how many day tasks run at once.
func WithMaxConcurrentDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrentDays = n
		}
	}
}

// WithDayTimeout bounds one day's generator exchange. A day that blows
// the timeout degrades to an empty batch like any other failure.
func WithDayTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dayTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSessionStore replaces the default prompt session store.
func WithSessionStore(st *session.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.sessions = st
		}
	}
}
