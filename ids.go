package goStats

import "strconv"

// ProbeID names a measured operation. The set is closed: every Registry owns
// exactly one Probe per ProbeID for its whole lifetime.
type ProbeID uint16

const (
	// ProbeEffectiveBackup is the time a request thread spent on session backup,
	// measured for every request with a session.
	ProbeEffectiveBackup ProbeID = iota
	// ProbeBackup is the time of a completed session backup, excluding skipped
	// backups and relocated sessions.
	ProbeBackup
	// ProbeAttributesSerialization is the time spent serializing session attributes.
	ProbeAttributesSerialization
	// ProbeSessionDeserialization is the time spent decoding a loaded session.
	ProbeSessionDeserialization
	// ProbeCacheUpdate is the time of the write to the session cache.
	ProbeCacheUpdate
	// ProbeLoadFromCache is the time of a session read from the cache.
	ProbeLoadFromCache
	// ProbeDeleteFromCache is the time of a session delete in the cache.
	ProbeDeleteFromCache
	// ProbeCachedDataSize is the size in bytes of the serialized session payload.
	ProbeCachedDataSize
	// ProbeAcquireLock is the time to acquire a session lock in non-sticky mode.
	ProbeAcquireLock
	// ProbeAcquireLockFailure is the time spent on lock attempts that failed.
	ProbeAcquireLockFailure
	// ProbeReleaseLock is the time to release a session lock.
	ProbeReleaseLock
	// ProbeNonStickyOnBackupWithoutLoadedSession is the time spent at the end of
	// requests that did not load the session (validity update, pings).
	ProbeNonStickyOnBackupWithoutLoadedSession
	// ProbeNonStickyAfterBackup is the housekeeping time after a backup
	// (ping, validity info, secondary backup).
	ProbeNonStickyAfterBackup
	// ProbeNonStickyAfterLoadFromCache is the housekeeping time after a load
	// (validity info).
	ProbeNonStickyAfterLoadFromCache
	// ProbeNonStickyAfterDeleteFromCache is the housekeeping time after a delete
	// (validity info and backup data).
	ProbeNonStickyAfterDeleteFromCache
	probeIDCount
)

var probeNames = [probeIDCount]string{
	ProbeEffectiveBackup:                       "effective_backup",
	ProbeBackup:                                "backup",
	ProbeAttributesSerialization:               "attributes_serialization",
	ProbeSessionDeserialization:                "session_deserialization",
	ProbeCacheUpdate:                           "cache_update",
	ProbeLoadFromCache:                         "load_from_cache",
	ProbeDeleteFromCache:                       "delete_from_cache",
	ProbeCachedDataSize:                        "cached_data_size",
	ProbeAcquireLock:                           "acquire_lock",
	ProbeAcquireLockFailure:                    "acquire_lock_failure",
	ProbeReleaseLock:                           "release_lock",
	ProbeNonStickyOnBackupWithoutLoadedSession: "non_sticky_on_backup_without_loaded_session",
	ProbeNonStickyAfterBackup:                  "non_sticky_after_backup",
	ProbeNonStickyAfterLoadFromCache:           "non_sticky_after_load_from_cache",
	ProbeNonStickyAfterDeleteFromCache:         "non_sticky_after_delete_from_cache",
}

// Valid reports whether id is one of the declared probes.
func (id ProbeID) Valid() bool { return id < probeIDCount }

func (id ProbeID) String() string {
	if !id.Valid() {
		return "probe(" + strconv.Itoa(int(id)) + ")"
	}
	return probeNames[id]
}

// ProbeIDs returns every declared probe in declaration order.
func ProbeIDs() []ProbeID {
	out := make([]ProbeID, 0, probeIDCount)
	for id := ProbeID(0); id < probeIDCount; id++ {
		out = append(out, id)
	}
	return out
}

// CounterID names a categorical request outcome tallied by a monotonic counter.
type CounterID uint16

const (
	// CounterRequestsWithoutSession counts requests that carried no session.
	CounterRequestsWithoutSession CounterID = iota
	// CounterRequestsWithSession counts requests that carried a session.
	CounterRequestsWithSession
	// CounterRequestsWithNodeFailover counts requests failed over at the
	// load-balancer tier (session owned by another node).
	CounterRequestsWithNodeFailover
	// CounterRequestsWithCacheFailover counts requests failed over at the cache
	// tier (session cache node unavailable).
	CounterRequestsWithCacheFailover
	// CounterRequestsWithBackupFailure counts requests whose session backup failed.
	CounterRequestsWithBackupFailure
	// CounterRequestsWithoutSessionAccess counts requests that never accessed the session.
	CounterRequestsWithoutSessionAccess
	// CounterRequestsWithoutAttributesAccess counts requests that never touched attributes.
	CounterRequestsWithoutAttributesAccess
	// CounterRequestsWithoutSessionModification counts requests that left the session unchanged.
	CounterRequestsWithoutSessionModification
	// CounterNonStickySessionsPingFailed counts failed session pings in non-sticky mode.
	CounterNonStickySessionsPingFailed
	// CounterNonStickySessionsReadOnlyRequest counts read-only requests in non-sticky mode.
	CounterNonStickySessionsReadOnlyRequest
	counterIDCount
)

var counterNames = [counterIDCount]string{
	CounterRequestsWithoutSession:             "requests_without_session",
	CounterRequestsWithSession:                "requests_with_session",
	CounterRequestsWithNodeFailover:           "requests_with_node_failover",
	CounterRequestsWithCacheFailover:          "requests_with_cache_failover",
	CounterRequestsWithBackupFailure:          "requests_with_backup_failure",
	CounterRequestsWithoutSessionAccess:       "requests_without_session_access",
	CounterRequestsWithoutAttributesAccess:    "requests_without_attributes_access",
	CounterRequestsWithoutSessionModification: "requests_without_session_modification",
	CounterNonStickySessionsPingFailed:        "non_sticky_sessions_ping_failed",
	CounterNonStickySessionsReadOnlyRequest:   "non_sticky_sessions_read_only_request",
}

// Valid reports whether id is one of the declared counters.
func (id CounterID) Valid() bool { return id < counterIDCount }

func (id CounterID) String() string {
	if !id.Valid() {
		return "counter(" + strconv.Itoa(int(id)) + ")"
	}
	return counterNames[id]
}

// CounterIDs returns every declared counter in declaration order.
func CounterIDs() []CounterID {
	out := make([]CounterID, 0, counterIDCount)
	for id := CounterID(0); id < counterIDCount; id++ {
		out = append(out, id)
	}
	return out
}
