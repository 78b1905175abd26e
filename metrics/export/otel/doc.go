// Package otel provides OpenTelemetry metric bindings for goStats counters and
// probes.
//
// [NewExporter] registers an Int64ObservableCounter per counter and, per probe,
// an Int64ObservableCounter for the count, Int64ObservableGauges for min and max
// and a Float64ObservableGauge for the mean. A single callback reads
// [goStats.Stats.Snapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate statistics.
package otel
