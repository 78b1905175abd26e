// Package internaldefs exposes stable metric names shared by exporter
// implementations.
//
// Counter and probe definitions live here so that the Prometheus, OTel and text
// exporters agree on naming. Changes to definitions in this package affect all
// exporters simultaneously.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
