// Package sink defines the destination for elapsed-time samples taken from
// tracked guard lifetimes, allowing pluggable time-series backends
// (Prometheus, OpenTelemetry, plain buckets) without coupling the core
// packages to any specific implementation.
package sink

// Sink consumes elapsed-time samples, in seconds.
//
// AddSample carries no further contract: implementations are responsible
// for their own failure handling, and callers never retry.
type Sink interface {
	AddSample(seconds float64)
}

// nopSink is a no-op implementation of Sink.
type nopSink struct{}

func (nopSink) AddSample(float64) {}

// Nop returns a Sink that discards all samples.
func Nop() Sink { return nopSink{} }
