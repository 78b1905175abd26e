// Package goStats provides goroutine-safe runtime statistics for a session
// persistence layer: monotonic counters for categorical request outcomes and
// count/min/max/avg probes for operation timings and payload sizes.
//
// A [Stats] is built once at startup, with [Create], [NewStats] or [Builder],
// and passed to the code that records into it. The enabled variant
// ([*Registry]) aggregates; the disabled variant accepts every call and
// records nothing, so callers never branch on whether statistics are on.
//
// # Recording
//
//	stats := goStats.Create(true, goStats.Milliseconds)
//
//	stats.Inc(goStats.CounterRequestsWithSession)
//	stats.Register(goStats.ProbeCachedDataSize, int64(len(payload)))
//
//	w := stats.StopWatch(goStats.ProbeBackup)
//	backup()
//	if err := w.Stop(); err != nil {
//	    // the watch was already stopped
//	}
//
// # Concurrency
//
// Counters are cache-line padded and updated with sync/atomic. Each [Probe]
// serializes its four-field update behind its own mutex; registrations on
// different probes never contend. A [Watch] belongs to the goroutine that
// started it.
//
// # Labels
//
// [ProbeID] and [CounterID] are closed enumerations. Passing an undeclared id
// to an enabled Registry panics with an error wrapping [ErrUnknownProbe] or
// [ErrUnknownCounter]; the disabled variant never panics.
//
// # What this package must NOT do
//
//   - Perform I/O. Exposition lives in metrics/export/.
//   - Keep a package-level registry.
//   - Sample, bucket or reset observations.
package goStats
