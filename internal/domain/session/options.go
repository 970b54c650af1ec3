package session

import "time"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithTTL sets how long an idle session survives before Sweep evicts it.
func WithTTL(ttl time.Duration) Option {
	return func(st *Store) {
		if ttl > 0 {
			st.ttl = ttl
		}
	}
}

// WithMaxTurns caps the number of turns retained per session. Zero or
// negative means unbounded.
func WithMaxTurns(n int) Option {
	return func(st *Store) {
		st.maxTurns = n
	}
}
