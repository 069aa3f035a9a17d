package sink

import "sync"

// MemSink records every sample it receives, in arrival order. It is safe
// for concurrent use and meant for tests and manual inspection.
type MemSink struct {
	mu      sync.Mutex
	samples []float64
}

func NewMemSink() *MemSink {
	return &MemSink{}
}

func (m *MemSink) AddSample(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, seconds)
}

// Samples returns a copy of all recorded samples.
func (m *MemSink) Samples() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.samples))
	copy(out, m.samples)
	return out
}

// Len returns the number of recorded samples.
func (m *MemSink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samples)
}

var _ Sink = (*MemSink)(nil)
