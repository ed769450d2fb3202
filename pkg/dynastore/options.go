package dynastore

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithUserLookup sets a custom user retrieval strategy, e.g. one backed by a
// different store. Nil lookups are ignored to keep the default point read.
func WithUserLookup(lookup UserLookup) Option {
	return func(s *Store) {
		if lookup != nil {
			s.users = lookup
		}
	}
}

// WithLogger sets the logger used for batch and sweep diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source used for expiry decisions. Intended for
// tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}
