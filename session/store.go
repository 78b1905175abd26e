package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	goStats "github.com/MrEthical07/goStats"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrSessionNotFound  = errors.New("session not found")
	ErrNilSession       = errors.New("nil session")
	ErrLockNotAcquired  = errors.New("session lock held by another owner")
	ErrLockNotHeld      = errors.New("session lock not held")
	ErrBackupRejected   = errors.New("session backup rejected by async queue")
)

const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var unlockLua = redis.NewScript(unlockScript)

// Unlock releases a lock taken by Store.Lock.
type Unlock func(ctx context.Context) error

// Store backs sessions up to Redis and records every step on a goStats.Stats.
type Store struct {
	redis     redis.UniversalClient
	stats     goStats.Stats
	clock     goStats.Clock
	log       *slog.Logger
	prefix    string
	lockTTL   time.Duration
	nonSticky bool
	asyncCfg  AsyncConfig
	async     *dispatcher

	mu   sync.Mutex
	held map[string]Unlock
}

// NewStore returns a Store over client. A nil stats records nothing. Call
// Close when the store was built WithAsyncBackup.
func NewStore(client redis.UniversalClient, stats goStats.Stats, opts ...Option) *Store {
	if stats == nil {
		stats = goStats.Create(false, goStats.Milliseconds)
	}
	s := &Store{
		redis:   client,
		stats:   stats,
		clock:   goStats.SystemClock{},
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		prefix:  defaultPrefix,
		lockTTL: defaultLockTTL,
		held:    make(map[string]Unlock),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.async = newDispatcher(s.asyncCfg, func(ctx context.Context, job backupJob) {
		_ = s.write(ctx, job)
	})
	return s
}

// Stats returns the Stats the store records into.
func (s *Store) Stats() goStats.Stats { return s.stats }

// NonSticky reports whether Load locks sessions.
func (s *Store) NonSticky() bool { return s.nonSticky }

func (s *Store) key(id string) string {
	return s.prefix + ":s:" + id
}

func (s *Store) lockKey(id string) string {
	return s.prefix + ":l:" + id
}

/*
====================================
BACKUP / LOAD / DELETE
====================================
*/

// Backup writes sess to Redis. A non-positive ttl falls back to
// sess.MaxInactive; zero for both means no expiry. With WithAsyncBackup the
// session is serialized here and written by the background queue.
func (s *Store) Backup(ctx context.Context, sess *Session, ttl time.Duration) error {
	if sess == nil {
		return ErrNilSession
	}

	effective := s.stats.StopWatch(goStats.ProbeEffectiveBackup)
	defer func() { _ = effective.Stop() }()
	backup := s.stats.StopWatch(goStats.ProbeBackup)

	serialization := s.stats.StopWatch(goStats.ProbeAttributesSerialization)
	data, err := Encode(sess)
	_ = serialization.Stop()
	if err != nil {
		s.stats.Inc(goStats.CounterRequestsWithBackupFailure)
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	s.stats.Register(goStats.ProbeCachedDataSize, int64(len(data)))

	if ttl <= 0 {
		ttl = sess.MaxInactive
	}
	job := backupJob{id: sess.ID, data: data, ttl: ttl, backup: backup}

	if s.async != nil {
		if !s.async.enqueue(ctx, job) {
			s.stats.Inc(goStats.CounterRequestsWithBackupFailure)
			return ErrBackupRejected
		}
		return nil
	}
	return s.write(ctx, job)
}

func (s *Store) write(ctx context.Context, job backupJob) error {
	update := s.stats.StopWatch(goStats.ProbeCacheUpdate)
	err := s.redis.Set(ctx, s.key(job.id), job.data, job.ttl).Err()
	_ = update.Stop()
	if err != nil {
		s.stats.Inc(goStats.CounterRequestsWithBackupFailure)
		s.log.Warn("session backup failed", slog.String("session", job.id), slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	_ = job.backup.Stop()

	if s.nonSticky {
		s.releaseHeld(ctx, job.id, goStats.ProbeNonStickyAfterBackup)
	}
	return nil
}

// Close drains pending asynchronous backups. The Redis client stays open.
func (s *Store) Close() {
	if s.async != nil {
		s.async.close()
	}
}

// DroppedBackups returns how many asynchronous backups were rejected.
func (s *Store) DroppedBackups() uint64 {
	if s.async == nil {
		return 0
	}
	return s.async.dropped.Load()
}

// Load reads and decodes the backup of session id. In non-sticky mode the
// session is locked first; a successful Load keeps it locked until the next
// Backup, Delete or Release for id, a failed one releases it.
func (s *Store) Load(ctx context.Context, id string) (sess *Session, err error) {
	if s.nonSticky {
		if err := s.acquireHeld(ctx, id); err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				s.releaseHeld(ctx, id, goStats.ProbeNonStickyOnBackupWithoutLoadedSession)
			}
		}()
	}

	read := s.stats.StopWatch(goStats.ProbeLoadFromCache)
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	_ = read.Stop()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		s.stats.Inc(goStats.CounterRequestsWithCacheFailover)
		s.log.Warn("session load failed", slog.String("session", id), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	deserialization := s.stats.StopWatch(goStats.ProbeSessionDeserialization)
	sess, err = Decode(data)
	_ = deserialization.Stop()
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	sess.LastAccessedAt = s.clock.Now()

	if s.nonSticky {
		housekeeping := s.stats.StopWatch(goStats.ProbeNonStickyAfterLoadFromCache)
		if sess.MaxInactive > 0 {
			if err := s.redis.Expire(ctx, s.key(id), sess.MaxInactive).Err(); err != nil {
				s.log.Warn("session ttl refresh failed", slog.String("session", id), slog.Any("error", err))
			}
		}
		_ = housekeeping.Stop()
	}
	return sess, nil
}

// Delete removes the backup of session id. Deleting a missing session is not
// an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	w := s.stats.StopWatch(goStats.ProbeDeleteFromCache)
	err := s.redis.Del(ctx, s.key(id)).Err()
	_ = w.Stop()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if s.nonSticky {
		s.releaseHeld(ctx, id, goStats.ProbeNonStickyAfterDeleteFromCache)
	}
	return nil
}

// Release ends a non-sticky request that finished without backing the
// session up. It is a no-op in sticky mode.
func (s *Store) Release(ctx context.Context, id string) {
	if !s.nonSticky {
		return
	}
	s.releaseHeld(ctx, id, goStats.ProbeNonStickyOnBackupWithoutLoadedSession)
}

// Ping refreshes the expiry of session id.
func (s *Store) Ping(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := s.redis.Expire(ctx, s.key(id), ttl).Result()
	if err != nil {
		s.stats.Inc(goStats.CounterNonStickySessionsPingFailed)
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		s.stats.Inc(goStats.CounterNonStickySessionsPingFailed)
		return ErrSessionNotFound
	}
	return nil
}

/*
====================================
LOCKING
====================================
*/

// Lock takes the Redis lock for session id. The returned Unlock releases it
// only while this caller still owns it.
func (s *Store) Lock(ctx context.Context, id string) (Unlock, error) {
	acquire := s.stats.StopWatch(goStats.ProbeAcquireLock)
	key := s.lockKey(id)
	token := uuid.NewString()

	ok, err := s.redis.SetNX(ctx, key, token, s.lockTTL).Result()
	if err != nil {
		s.stats.RegisterSince(goStats.ProbeAcquireLockFailure, acquire.Start())
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		s.stats.RegisterSince(goStats.ProbeAcquireLockFailure, acquire.Start())
		return nil, ErrLockNotAcquired
	}
	_ = acquire.Stop()

	return func(ctx context.Context) error {
		w := s.stats.StopWatch(goStats.ProbeReleaseLock)
		defer func() { _ = w.Stop() }()

		n, err := unlockLua.Run(ctx, s.redis, []string{key}, token).Int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if n == 0 {
			return ErrLockNotHeld
		}
		return nil
	}, nil
}

func (s *Store) acquireHeld(ctx context.Context, id string) error {
	unlock, err := s.Lock(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.held[id] = unlock
	s.mu.Unlock()
	return nil
}

func (s *Store) releaseHeld(ctx context.Context, id string, probe goStats.ProbeID) {
	w := s.stats.StopWatch(probe)
	defer func() { _ = w.Stop() }()

	s.mu.Lock()
	unlock, ok := s.held[id]
	delete(s.held, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := unlock(ctx); err != nil {
		s.log.Warn("session unlock failed", slog.String("session", id), slog.Any("error", err))
	}
}

/*
====================================
REQUEST CLASSIFICATION
====================================
*/

// RequestOutcome describes what a finished request did with its session.
type RequestOutcome struct {
	// Session is nil when the request carried none.
	Session            *Session
	SessionAccessed    bool
	AttributesAccessed bool
	Modified           bool
	// NodeFailover marks a request that arrived on a node other than the one
	// that served the session last.
	NodeFailover bool
}

// TrackRequest counts the outcome of a finished request.
func (s *Store) TrackRequest(o RequestOutcome) {
	if o.Session == nil {
		s.stats.Inc(goStats.CounterRequestsWithoutSession)
		return
	}
	s.stats.Inc(goStats.CounterRequestsWithSession)

	if o.NodeFailover {
		s.stats.Inc(goStats.CounterRequestsWithNodeFailover)
	}
	if !o.SessionAccessed {
		s.stats.Inc(goStats.CounterRequestsWithoutSessionAccess)
	}
	if !o.AttributesAccessed {
		s.stats.Inc(goStats.CounterRequestsWithoutAttributesAccess)
	}
	if !o.Modified {
		s.stats.Inc(goStats.CounterRequestsWithoutSessionModification)
		if s.nonSticky {
			s.stats.Inc(goStats.CounterNonStickySessionsReadOnlyRequest)
		}
	}
}
