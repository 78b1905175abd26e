package internaldefs

import (
	goStats "github.com/MrEthical07/goStats"
)

// Namespace prefixes every exported metric name.
const Namespace = "gostats"

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goStats.CounterID
	Name string
	Help string
}

// ProbeDef names one exported probe. Duration probes carry the registry unit;
// the others (payload sizes) are unitless.
type ProbeDef struct {
	ID         goStats.ProbeID
	Name       string
	Help       string
	IsDuration bool
}

// CounterDefs lists every counter in declaration order.
var CounterDefs = []CounterDef{
	{ID: goStats.CounterRequestsWithoutSession, Help: "Requests that carried no session."},
	{ID: goStats.CounterRequestsWithSession, Help: "Requests that carried a session."},
	{ID: goStats.CounterRequestsWithNodeFailover, Help: "Requests failed over at the load-balancer tier."},
	{ID: goStats.CounterRequestsWithCacheFailover, Help: "Requests failed over at the cache tier."},
	{ID: goStats.CounterRequestsWithBackupFailure, Help: "Requests whose session backup failed."},
	{ID: goStats.CounterRequestsWithoutSessionAccess, Help: "Requests that never accessed the session."},
	{ID: goStats.CounterRequestsWithoutAttributesAccess, Help: "Requests that never accessed session attributes."},
	{ID: goStats.CounterRequestsWithoutSessionModification, Help: "Requests that did not modify the session."},
	{ID: goStats.CounterNonStickySessionsPingFailed, Help: "Failed session pings in non-sticky mode."},
	{ID: goStats.CounterNonStickySessionsReadOnlyRequest, Help: "Read-only requests in non-sticky mode."},
}

// ProbeDefs lists every probe in declaration order.
var ProbeDefs = []ProbeDef{
	{ID: goStats.ProbeEffectiveBackup, Help: "Backup time spent in the request thread.", IsDuration: true},
	{ID: goStats.ProbeBackup, Help: "Completed session backup time.", IsDuration: true},
	{ID: goStats.ProbeAttributesSerialization, Help: "Session attribute serialization time.", IsDuration: true},
	{ID: goStats.ProbeSessionDeserialization, Help: "Session deserialization time.", IsDuration: true},
	{ID: goStats.ProbeCacheUpdate, Help: "Session cache write time.", IsDuration: true},
	{ID: goStats.ProbeLoadFromCache, Help: "Session cache read time.", IsDuration: true},
	{ID: goStats.ProbeDeleteFromCache, Help: "Session cache delete time.", IsDuration: true},
	{ID: goStats.ProbeCachedDataSize, Help: "Serialized session payload size in bytes.", IsDuration: false},
	{ID: goStats.ProbeAcquireLock, Help: "Session lock acquisition time.", IsDuration: true},
	{ID: goStats.ProbeAcquireLockFailure, Help: "Time spent on failed session lock attempts.", IsDuration: true},
	{ID: goStats.ProbeReleaseLock, Help: "Session lock release time.", IsDuration: true},
	{ID: goStats.ProbeNonStickyOnBackupWithoutLoadedSession, Help: "Non-sticky housekeeping for requests without a loaded session.", IsDuration: true},
	{ID: goStats.ProbeNonStickyAfterBackup, Help: "Non-sticky housekeeping after backup.", IsDuration: true},
	{ID: goStats.ProbeNonStickyAfterLoadFromCache, Help: "Non-sticky housekeeping after load.", IsDuration: true},
	{ID: goStats.ProbeNonStickyAfterDeleteFromCache, Help: "Non-sticky housekeeping after delete.", IsDuration: true},
}

func init() {
	for i := range CounterDefs {
		CounterDefs[i].Name = Namespace + "_" + CounterDefs[i].ID.String() + "_total"
	}
	for i := range ProbeDefs {
		ProbeDefs[i].Name = Namespace + "_" + ProbeDefs[i].ID.String()
	}
}
