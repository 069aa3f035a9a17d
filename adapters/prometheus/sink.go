// Package prometheus provides a Prometheus implementation of the
// elapsed-time sink interface.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dallaylaen/guardstat-go/ports/sink"
)

// promSink implements sink.Sink using a Prometheus histogram.
type promSink struct {
	lifetime prometheus.Histogram
}

// NewSink creates a Prometheus-backed Sink and registers its histogram
// with reg. Callers own the registry; nothing is registered globally.
func NewSink(reg prometheus.Registerer) sink.Sink {
	s := &promSink{
		lifetime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "guardstat_guard_lifetime_seconds",
			Help: "Lifetime of tracked guards in seconds",
			// guard lifetimes span many decades, same log scale the local
			// bucket log uses
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 10),
		}),
	}

	reg.MustRegister(s.lifetime)

	return s
}

func (s *promSink) AddSample(seconds float64) {
	s.lifetime.Observe(seconds)
}

var _ sink.Sink = (*promSink)(nil)
