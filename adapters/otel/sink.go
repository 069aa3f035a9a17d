// Package otel provides an OpenTelemetry implementation of the
// elapsed-time sink interface.
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"

	"github.com/dallaylaen/guardstat-go/ports/sink"
)

var ErrNilMeter = errors.New("nil meter")

// otelSink implements sink.Sink using an OTel float64 histogram.
type otelSink struct {
	lifetime metric.Float64Histogram
}

// NewSink creates an OpenTelemetry-backed Sink recording guard lifetimes
// on the given meter.
func NewSink(meter metric.Meter) (sink.Sink, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	lifetime, err := meter.Float64Histogram(
		"guardstat.guard.lifetime",
		metric.WithDescription("Lifetime of tracked guards"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &otelSink{lifetime: lifetime}, nil
}

func (s *otelSink) AddSample(seconds float64) {
	s.lifetime.Record(context.Background(), seconds)
}

var _ sink.Sink = (*otelSink)(nil)
