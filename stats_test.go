package goStats

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

func TestStatsCountersStartAtZeroAndIncrement(t *testing.T) {
	for _, id := range CounterIDs() {
		t.Run(id.String(), func(t *testing.T) {
			s := Create(true, Milliseconds)
			if got := s.Value(id); got != 0 {
				t.Fatalf("expected 0, got %d", got)
			}
			s.Inc(id)
			if got := s.Value(id); got != 1 {
				t.Fatalf("expected 1, got %d", got)
			}
		})
	}
}

func TestStatsCountersAreIndependent(t *testing.T) {
	s := Create(true, Milliseconds)
	s.Inc(CounterRequestsWithSession)
	s.Inc(CounterRequestsWithSession)
	s.Inc(CounterRequestsWithBackupFailure)

	if got := s.Value(CounterRequestsWithSession); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := s.Value(CounterRequestsWithBackupFailure); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := s.Value(CounterRequestsWithoutSession); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestStatsConcurrentIncrementSafe(t *testing.T) {
	s := Create(true, Milliseconds)

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				s.Inc(CounterNonStickySessionsReadOnlyRequest)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := s.Value(CounterNonStickySessionsReadOnlyRequest); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestStatsConcurrentRegisterSameProbe(t *testing.T) {
	s := Create(true, Milliseconds)

	const goroutines = 24
	const perG = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				s.Register(ProbeCacheUpdate, 5)
			}
		}()
	}
	wg.Wait()

	snap := s.Probe(ProbeCacheUpdate).Snapshot()
	if snap.Count != goroutines*perG {
		t.Fatalf("expected count %d, got %d", goroutines*perG, snap.Count)
	}
	if snap.Min != 5 || snap.Max != 5 || snap.Avg != 5 {
		t.Fatalf("expected min=max=avg=5, got %+v", snap)
	}
}

func TestStatsRegisterForwardsToProbe(t *testing.T) {
	s := Create(true, Milliseconds)
	for _, v := range []int64{1, 1, 4, 0} {
		s.Register(ProbeCachedDataSize, v)
	}

	snap := s.Probe(ProbeCachedDataSize).Snapshot()
	if snap.Count != 4 || snap.Min != 0 || snap.Max != 4 || snap.Avg != 1.5 {
		t.Fatalf("unexpected probe snapshot %+v", snap)
	}
	if other := s.Probe(ProbeBackup).Snapshot(); !other.Empty() {
		t.Fatalf("expected untouched probe to be empty, got %+v", other)
	}
}

func TestStatsProbeIdentityStable(t *testing.T) {
	s := Create(true, Milliseconds)
	if s.Probe(ProbeBackup) != s.Probe(ProbeBackup) {
		t.Fatal("expected the same probe for the same id")
	}
	if s.Probe(ProbeBackup) == s.Probe(ProbeEffectiveBackup) {
		t.Fatal("expected distinct probes for distinct ids")
	}
}

func TestStatsRegisterSinceUsesUnit(t *testing.T) {
	clock := newFakeClock()
	s := NewStats(StatsConfig{Enabled: true, Unit: Microseconds, Clock: clock})

	start := clock.Now()
	clock.Advance(2500 * time.Nanosecond)
	s.RegisterSince(ProbeLoadFromCache, start)

	snap := s.Probe(ProbeLoadFromCache).Snapshot()
	if snap.Count != 1 || snap.Min != 2 || snap.Max != 2 {
		t.Fatalf("expected a single 2us observation, got %+v", snap)
	}
}

func TestStatsDisabledNoIncrement(t *testing.T) {
	s := Create(false, Milliseconds)
	if s.Enabled() {
		t.Fatal("expected disabled stats")
	}
	for _, id := range CounterIDs() {
		s.Inc(id)
		s.Inc(id)
		if got := s.Value(id); got != 0 {
			t.Fatalf("%s: expected 0, got %d", id, got)
		}
	}
}

func TestStatsDisabledIsObservablyInert(t *testing.T) {
	clock := newFakeClock()
	s := NewStats(StatsConfig{Enabled: false, Unit: Milliseconds, Clock: clock})

	for _, id := range ProbeIDs() {
		s.Register(id, 10)
		s.RegisterSince(id, clock.Now().Add(-time.Second))

		w := s.StopWatch(id)
		clock.Advance(3 * time.Millisecond)
		if err := w.Stop(); err != nil {
			t.Fatalf("%s: stop failed: %v", id, err)
		}

		if snap := s.Probe(id).Snapshot(); !snap.Empty() {
			t.Fatalf("%s: expected empty probe, got %+v", id, snap)
		}
	}

	snap := s.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Probes) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestStatsDisabledProbeIsFresh(t *testing.T) {
	s := Create(false, Milliseconds)
	p := s.Probe(ProbeBackup)
	p.Register(3)
	if snap := s.Probe(ProbeBackup).Snapshot(); !snap.Empty() {
		t.Fatalf("expected a fresh probe per call, got %+v", snap)
	}
}

func TestStatsDisabledNeverPanics(t *testing.T) {
	s := Create(false, Milliseconds)
	s.Inc(counterIDCount + 3)
	_ = s.Value(counterIDCount + 3)
	s.Register(probeIDCount+1, 1)
	_ = s.Probe(probeIDCount + 1)
	if err := s.StopWatch(probeIDCount + 1).Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatsUnknownIDsPanic(t *testing.T) {
	s := Create(true, Milliseconds)

	expectPanic(t, ErrUnknownCounter, func() { s.Inc(counterIDCount) })
	expectPanic(t, ErrUnknownCounter, func() { _ = s.Value(counterIDCount + 1) })
	expectPanic(t, ErrUnknownProbe, func() { s.Register(probeIDCount, 1) })
	expectPanic(t, ErrUnknownProbe, func() { _ = s.Probe(probeIDCount) })
	expectPanic(t, ErrUnknownProbe, func() { _ = s.StopWatch(probeIDCount + 7) })
}

func TestStatsSnapshot(t *testing.T) {
	s := Create(true, Microseconds)
	s.Inc(CounterRequestsWithoutSession)
	s.Register(ProbeBackup, 12)

	snap := s.Snapshot()
	if snap.Unit != Microseconds {
		t.Fatalf("expected unit us, got %s", snap.Unit)
	}
	if len(snap.Counters) != int(counterIDCount) {
		t.Fatalf("expected %d counters, got %d", counterIDCount, len(snap.Counters))
	}
	if len(snap.Probes) != int(probeIDCount) {
		t.Fatalf("expected %d probes, got %d", probeIDCount, len(snap.Probes))
	}
	if snap.Counters[CounterRequestsWithoutSession] != 1 {
		t.Fatalf("expected counter 1, got %d", snap.Counters[CounterRequestsWithoutSession])
	}
	if got := snap.Probes[ProbeBackup]; got.Count != 1 || got.Max != 12 {
		t.Fatalf("unexpected probe snapshot %+v", got)
	}
}

func TestCreateFallsBackToMilliseconds(t *testing.T) {
	if got := Create(true, 0).Unit(); got != Milliseconds {
		t.Fatalf("expected ms, got %s", got)
	}
	if got := Create(false, TimeUnit(99)).Unit(); got != Milliseconds {
		t.Fatalf("expected ms, got %s", got)
	}
	if got := Create(true, Nanoseconds).Unit(); got != Nanoseconds {
		t.Fatalf("expected ns, got %s", got)
	}
}

func TestIDNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, id := range ProbeIDs() {
		name := id.String()
		if name == "" || seen[name] {
			t.Fatalf("probe %d has empty or duplicate name %q", id, name)
		}
		seen[name] = true
	}
	for _, id := range CounterIDs() {
		name := id.String()
		if name == "" || seen[name] {
			t.Fatalf("counter %d has empty or duplicate name %q", id, name)
		}
		seen[name] = true
	}
	if got := ProbeID(999).String(); got != "probe(999)" {
		t.Fatalf("unexpected name for unknown probe: %q", got)
	}
	if len(ProbeIDs()) != 15 || len(CounterIDs()) != 10 {
		t.Fatalf("unexpected label set sizes: %d probes, %d counters", len(ProbeIDs()), len(CounterIDs()))
	}
}
