package goStats

import (
	"strconv"
	"sync"
)

// Probe is a running count/min/max/avg aggregate over int64 observations.
//
// All four fields are updated in one critical section, so a Snapshot never
// mixes state from two concurrent Register calls. The zero value is ready to use.
type Probe struct {
	mu    sync.Mutex
	count uint64
	min   int64
	max   int64
	avg   float64
}

// ProbeSnapshot is a consistent copy of a Probe.
//
// Before the first registration every field is zero; Min, Max and Avg carry no
// meaning until Count > 0. Use Empty to tell the two apart.
type ProbeSnapshot struct {
	Count uint64
	Min   int64
	Max   int64
	Avg   float64
}

// Empty reports whether the snapshot was taken before any registration.
func (s ProbeSnapshot) Empty() bool { return s.Count == 0 }

// Register records one observation.
func (p *Probe) Register(value int64) {
	p.mu.Lock()
	if p.count == 0 {
		p.min, p.max = value, value
	} else {
		if value < p.min {
			p.min = value
		}
		if value > p.max {
			p.max = value
		}
	}
	// incremental mean; a running sum would eventually overflow
	p.avg = (p.avg*float64(p.count) + float64(value)) / float64(p.count+1)
	p.count++
	p.mu.Unlock()
}

// Snapshot returns the aggregate as of one point in time.
func (p *Probe) Snapshot() ProbeSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProbeSnapshot{Count: p.count, Min: p.min, Max: p.max, Avg: p.avg}
}

// Info renders the snapshot as four labeled lines: Count, Min, Avg, Max.
func (p *Probe) Info() []string {
	return p.Snapshot().Info()
}

// Info renders the snapshot as four labeled lines: Count, Min, Avg, Max.
func (s ProbeSnapshot) Info() []string {
	return []string{
		"Count = " + strconv.FormatUint(s.Count, 10),
		"Min = " + strconv.FormatInt(s.Min, 10),
		"Avg = " + strconv.FormatFloat(s.Avg, 'f', -1, 64),
		"Max = " + strconv.FormatInt(s.Max, 10),
	}
}
