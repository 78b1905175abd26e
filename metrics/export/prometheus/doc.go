// Package prometheus provides a Prometheus collector for goStats statistics.
//
// [Exporter] implements [prometheus.Collector]. Each collection reads one
// [goStats.StatsSnapshot]: counters become gostats_*_total counters, and each
// probe becomes a gostats_<probe>_count counter plus _min, _max and _avg gauges.
// Duration probes carry a unit label with the registry's unit.
//
// # What this package must NOT do
//
//   - Register into the global Prometheus registry. Callers register the
//     Exporter themselves or mount [Exporter.Handler].
//   - Mutate statistics.
package prometheus
