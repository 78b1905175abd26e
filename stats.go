package goStats

import (
	"fmt"
	"sync/atomic"
	"time"
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Stats is the statistics sink handed to request-processing code.
//
// There are two implementations, chosen once by [Create] or [NewStats]: the
// aggregating [*Registry] and a disabled variant whose mutating methods do
// nothing and whose readers return zero values. Both are safe for concurrent use.
type Stats interface {
	// Enabled reports whether observations are aggregated.
	Enabled() bool
	// Unit is the unit watches and RegisterSince convert durations to.
	Unit() TimeUnit

	// Inc adds one to the counter.
	Inc(id CounterID)
	// Value returns the current counter value.
	Value(id CounterID) uint64

	// Register records value on the probe for id.
	Register(id ProbeID, value int64)
	// RegisterSince records the time elapsed since start, converted to Unit.
	RegisterSince(id ProbeID, start time.Time)
	// Probe returns the probe for id. On a disabled Stats every call returns a
	// fresh empty probe.
	Probe(id ProbeID) *Probe
	// StopWatch starts a Watch bound to id.
	StopWatch(id ProbeID) *Watch

	// Snapshot copies every counter and probe.
	Snapshot() StatsSnapshot
}

// StatsSnapshot is a point-in-time copy of a Stats. Each probe entry is
// internally consistent; entries are not consistent with one another.
type StatsSnapshot struct {
	Unit     TimeUnit
	Counters map[CounterID]uint64
	Probes   map[ProbeID]ProbeSnapshot
}

// Create returns an aggregating Stats when enabled is true and a disabled one
// otherwise. An invalid unit falls back to Milliseconds.
func Create(enabled bool, unit TimeUnit) Stats {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if unit.Valid() {
		cfg.Unit = unit
	}
	return NewStats(cfg)
}

// NewStats builds a Stats from cfg. The config is expected to be validated;
// a nil Clock falls back to SystemClock.
func NewStats(cfg StatsConfig) Stats {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	if !cfg.Enabled {
		return disabledStats{unit: cfg.Unit, clock: clock}
	}
	return newRegistry(cfg.Unit, clock)
}

// Registry is the aggregating Stats. It owns one Probe per ProbeID and one
// counter per CounterID, all allocated up front.
type Registry struct {
	unit     TimeUnit
	clock    Clock
	counters [counterIDCount]paddedCounter
	probes   [probeIDCount]Probe
}

var _ Stats = (*Registry)(nil)

func newRegistry(unit TimeUnit, clock Clock) *Registry {
	return &Registry{unit: unit, clock: clock}
}

func (r *Registry) Enabled() bool { return true }

func (r *Registry) Unit() TimeUnit { return r.unit }

// Inc panics with ErrUnknownCounter for an undeclared id.
func (r *Registry) Inc(id CounterID) {
	atomic.AddUint64(&r.counters[mustCounter(id)].value, 1)
}

// Value panics with ErrUnknownCounter for an undeclared id.
func (r *Registry) Value(id CounterID) uint64 {
	return atomic.LoadUint64(&r.counters[mustCounter(id)].value)
}

// Register panics with ErrUnknownProbe for an undeclared id.
func (r *Registry) Register(id ProbeID, value int64) {
	r.probes[mustProbe(id)].Register(value)
}

func (r *Registry) RegisterSince(id ProbeID, start time.Time) {
	r.Register(id, r.unit.Convert(r.clock.Now().Sub(start)))
}

// Probe returns the owned probe; the pointer is stable for the Registry's life.
func (r *Registry) Probe(id ProbeID) *Probe {
	return &r.probes[mustProbe(id)]
}

func (r *Registry) StopWatch(id ProbeID) *Watch {
	return newWatch(r, mustProbe(id), r.unit, r.clock)
}

func (r *Registry) Snapshot() StatsSnapshot {
	s := StatsSnapshot{
		Unit:     r.unit,
		Counters: make(map[CounterID]uint64, int(counterIDCount)),
		Probes:   make(map[ProbeID]ProbeSnapshot, int(probeIDCount)),
	}
	for id := CounterID(0); id < counterIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&r.counters[id].value)
	}
	for id := ProbeID(0); id < probeIDCount; id++ {
		s.Probes[id] = r.probes[id].Snapshot()
	}
	return s
}

func mustCounter(id CounterID) CounterID {
	if !id.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownCounter, uint16(id)))
	}
	return id
}

func mustProbe(id ProbeID) ProbeID {
	if !id.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownProbe, uint16(id)))
	}
	return id
}

// disabledStats discards everything. It never panics, whatever id it is given.
type disabledStats struct {
	unit  TimeUnit
	clock Clock
}

var _ Stats = disabledStats{}

func (disabledStats) Enabled() bool                    { return false }
func (d disabledStats) Unit() TimeUnit                 { return d.unit }
func (disabledStats) Inc(CounterID)                    {}
func (disabledStats) Value(CounterID) uint64           { return 0 }
func (disabledStats) Register(ProbeID, int64)          {}
func (disabledStats) RegisterSince(ProbeID, time.Time) {}
func (disabledStats) Probe(ProbeID) *Probe             { return &Probe{} }

func (d disabledStats) StopWatch(id ProbeID) *Watch {
	return newWatch(d, id, d.unit, d.clock)
}

func (d disabledStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Unit:     d.unit,
		Counters: map[CounterID]uint64{},
		Probes:   map[ProbeID]ProbeSnapshot{},
	}
}
