// Package session provides a Redis-backed backup store for serialized HTTP
// sessions, instrumented with goStats probes and counters.
//
// # Binary encoding
//
// Sessions are stored as a compact binary format (schema versions v1-v2). The
// encoder is append-only: new versions add fields but never reinterpret old
// ones, and [Decode] accepts every version [Encode] has ever written.
//
// # Non-sticky mode
//
// With [WithNonSticky], [Store.Load] takes a per-session Redis lock before
// reading and the store releases it after [Store.Backup], [Store.Delete] or
// [Store.Release]. The housekeeping that follows each of those steps is timed
// on the goStats non-sticky probes.
//
// # What this package must NOT do
//
//   - Interpret attribute values. They are opaque bytes.
//   - Own the Redis client or the Stats it records into.
package session
