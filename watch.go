package goStats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// ElapsedUnset is what Watch.Elapsed reports before Stop has succeeded.
const ElapsedUnset int64 = -1

// Watch times one operation and records it on its probe when stopped.
//
// A Watch is single-use: the first Stop records, every later Stop fails with
// ErrWatchStopped. It is meant to stay on the goroutine that created it;
// concurrent Stop calls are tolerated and exactly one of them records.
type Watch struct {
	stats   Stats
	id      ProbeID
	unit    TimeUnit
	clock   Clock
	start   time.Time
	stopped atomic.Bool
	elapsed atomic.Int64
}

func newWatch(stats Stats, id ProbeID, unit TimeUnit, clock Clock) *Watch {
	w := &Watch{
		stats: stats,
		id:    id,
		unit:  unit,
		clock: clock,
	}
	w.elapsed.Store(ElapsedUnset)
	w.start = clock.Now()
	return w
}

// Stop records the time since the watch was started on its probe.
func (w *Watch) Stop() error {
	if !w.stopped.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrWatchStopped, w.id)
	}
	elapsed := w.unit.Convert(w.clock.Now().Sub(w.start))
	w.elapsed.Store(elapsed)
	w.stats.Register(w.id, elapsed)
	return nil
}

// Elapsed returns the value recorded by Stop, in Unit, or ElapsedUnset if the
// watch is still running.
func (w *Watch) Elapsed() int64 { return w.elapsed.Load() }

// Start returns when the watch was started, read from its Stats' clock. It can
// be handed to RegisterSince on the same Stats to record the same interval on
// another probe.
func (w *Watch) Start() time.Time { return w.start }

// ProbeID returns the probe the watch records on.
func (w *Watch) ProbeID() ProbeID { return w.id }

// Unit returns the unit Elapsed is expressed in.
func (w *Watch) Unit() TimeUnit { return w.unit }
