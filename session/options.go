package session

import (
	"log/slog"
	"time"

	goStats "github.com/MrEthical07/goStats"
)

const (
	defaultPrefix  = "gss"
	defaultLockTTL = 30 * time.Second
)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the Redis key namespace.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLockTTL bounds how long a session lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLogger sets the logger for backend failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithNonSticky makes Load lock the session until it is backed up, deleted or
// released.
func WithNonSticky(enabled bool) Option {
	return func(s *Store) { s.nonSticky = enabled }
}

// WithClock sets the timestamp source for LastAccessedAt. Durations are always
// measured on the Stats clock.
func WithClock(clock goStats.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAsyncBackup writes backups from a background queue. Backup then only
// serializes and enqueues; ProbeBackup still covers the whole write.
func WithAsyncBackup(cfg AsyncConfig) Option {
	return func(s *Store) { s.asyncCfg = cfg }
}
