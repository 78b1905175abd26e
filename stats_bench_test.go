package goStats

import "testing"

func BenchmarkStatsInc(b *testing.B) {
	s := Create(true, Milliseconds)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.Inc(CounterRequestsWithSession)
	}
}

func BenchmarkStatsIncDisabled(b *testing.B) {
	s := Create(false, Milliseconds)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s.Inc(CounterRequestsWithSession)
	}
}

func BenchmarkStatsIncParallel(b *testing.B) {
	s := Create(true, Milliseconds)
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.Inc(CounterRequestsWithSession)
		}
	})
}

func BenchmarkStatsRegisterParallel(b *testing.B) {
	s := Create(true, Milliseconds)
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		var v int64
		for pb.Next() {
			v++
			s.Register(ProbeBackup, v&1023)
		}
	})
}

func BenchmarkStatsRegisterDistinctProbesParallel(b *testing.B) {
	s := Create(true, Milliseconds)
	ids := ProbeIDs()
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			s.Register(ids[i%len(ids)], int64(i))
			i++
		}
	})
}

func BenchmarkStopWatch(b *testing.B) {
	s := Create(true, Microseconds)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = s.StopWatch(ProbeCacheUpdate).Stop()
	}
}
