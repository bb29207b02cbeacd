// Package otel exports goIdentity counters through OpenTelemetry.
//
// [NewOTelExporter] registers one Int64ObservableCounter per engine counter
// and one Int64ObservableGauge per latency bucket on a caller-supplied
// Meter. A single callback reads MetricsSnapshot on each collection.
package otel
