package prometheus

import (
	"net/http"
	"sync"

	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unitLabel = "unit"

type statsSource interface {
	Snapshot() goStats.StatsSnapshot
}

type counterDesc struct {
	id   goStats.CounterID
	desc *prometheus.Desc
}

type probeDesc struct {
	id         goStats.ProbeID
	isDuration bool
	count      *prometheus.Desc
	min        *prometheus.Desc
	max        *prometheus.Desc
	avg        *prometheus.Desc
}

// Exporter collects goStats counters and probes for Prometheus.
type Exporter struct {
	source   statsSource
	counters []counterDesc
	probes   []probeDesc

	handlerOnce sync.Once
	handler     http.Handler
}

var _ prometheus.Collector = (*Exporter)(nil)

// NewExporter creates an Exporter reading from source. A [goStats.Stats]
// satisfies source directly.
func NewExporter(source statsSource) *Exporter {
	e := &Exporter{
		source:   source,
		counters: make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		probes:   make([]probeDesc, 0, len(internaldefs.ProbeDefs)),
	}

	for _, def := range internaldefs.CounterDefs {
		e.counters = append(e.counters, counterDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}

	for _, def := range internaldefs.ProbeDefs {
		var labels []string
		if def.IsDuration {
			labels = []string{unitLabel}
		}
		e.probes = append(e.probes, probeDesc{
			id:         def.ID,
			isDuration: def.IsDuration,
			count:      prometheus.NewDesc(def.Name+"_count", def.Help+" Number of observations.", labels, nil),
			min:        prometheus.NewDesc(def.Name+"_min", def.Help+" Minimum observed value.", labels, nil),
			max:        prometheus.NewDesc(def.Name+"_max", def.Help+" Maximum observed value.", labels, nil),
			avg:        prometheus.NewDesc(def.Name+"_avg", def.Help+" Mean of observed values.", labels, nil),
		})
	}

	return e
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range e.counters {
		ch <- c.desc
	}
	for _, p := range e.probes {
		ch <- p.count
		ch <- p.min
		ch <- p.max
		ch <- p.avg
	}
}

// Collect implements prometheus.Collector. A disabled Stats yields nothing;
// a probe without observations only reports its zero count.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	if e == nil || e.source == nil {
		return
	}

	snapshot := e.source.Snapshot()

	for _, c := range e.counters {
		v, ok := snapshot.Counters[c.id]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(v))
	}

	unit := snapshot.Unit.String()
	for _, p := range e.probes {
		s, ok := snapshot.Probes[p.id]
		if !ok {
			continue
		}
		var labels []string
		if p.isDuration {
			labels = []string{unit}
		}
		ch <- prometheus.MustNewConstMetric(p.count, prometheus.CounterValue, float64(s.Count), labels...)
		if s.Empty() {
			continue
		}
		ch <- prometheus.MustNewConstMetric(p.min, prometheus.GaugeValue, float64(s.Min), labels...)
		ch <- prometheus.MustNewConstMetric(p.max, prometheus.GaugeValue, float64(s.Max), labels...)
		ch <- prometheus.MustNewConstMetric(p.avg, prometheus.GaugeValue, s.Avg, labels...)
	}
}

// Handler returns an http.Handler serving this exporter from a private registry.
func (e *Exporter) Handler() http.Handler {
	e.handlerOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(e)
		e.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	})
	return e.handler
}
