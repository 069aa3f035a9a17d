// Package timestat counts elapsed-time samples in logarithmic buckets:
// one bucket per multiplicative step of Base^(1/Grades), with bucket 0
// collecting zero and sub-floor samples. It backs the tracker's local time
// distribution when no external sink is configured.
package timestat

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dallaylaen/guardstat-go/ports/sink"
)

const (
	DefaultBase    = 10.0
	DefaultGrades  = 10
	DefaultMinTime = 1e-6
)

var (
	ErrBadBase    = errors.New("base must be greater than 1")
	ErrBadGrades  = errors.New("grades must be at least 1")
	ErrBadMinTime = errors.New("min time must be positive")
)

// Opts configures a Log. Zero values fall back to the defaults: base 10,
// 10 grades per decade, 1µs floor.
type Opts struct {
	// Base is the logarithm base of the bucket scale.
	Base float64
	// Grades is the number of buckets per power of Base.
	Grades int
	// MinTime is the smallest resolvable sample, in seconds. Everything
	// below it lands in bucket 0.
	MinTime float64
}

// Log is a histogram over a logarithmic time scale. It is safe for
// concurrent use.
type Log struct {
	base   float64
	grades int
	floor  float64

	mu      sync.Mutex
	buckets []uint64
	count   uint64
}

// New validates opts and creates an empty Log. Invalid parameters are
// programming mistakes and fail fast.
func New(opts Opts) (*Log, error) {
	if opts.Base == 0 {
		opts.Base = DefaultBase
	}
	if opts.Grades == 0 {
		opts.Grades = DefaultGrades
	}
	if opts.MinTime == 0 {
		opts.MinTime = DefaultMinTime
	}

	if opts.Base <= 1 {
		return nil, fmt.Errorf("timestat: %w (got %v)", ErrBadBase, opts.Base)
	}
	if opts.Grades < 1 {
		return nil, fmt.Errorf("timestat: %w (got %d)", ErrBadGrades, opts.Grades)
	}
	if opts.MinTime <= 0 {
		return nil, fmt.Errorf("timestat: %w (got %v)", ErrBadMinTime, opts.MinTime)
	}

	return &Log{base: opts.Base, grades: opts.Grades, floor: opts.MinTime}, nil
}

// maxBucket caps the bucket index so a +Inf sample cannot drive the
// bucket slice allocation unbounded. With default parameters every finite
// float64 lands well below the cap.
const maxBucket = 1024

// Bucket returns the bucket index for a sample. Zero, negative, and NaN
// samples map to bucket 0, as does anything that rounds below the floor;
// +Inf lands in the top bucket. Counting must survive any float value the
// caller computes.
func (l *Log) Bucket(seconds float64) int {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	raw := math.Round(float64(l.grades) * math.Log(seconds/l.floor) / math.Log(l.base))
	if raw < 0 {
		return 0
	}
	if raw >= maxBucket {
		return maxBucket
	}
	return int(raw) + 1
}

// Representative returns the approximate time value bucket i stands for:
// Base^((i-1)/Grades) * MinTime, or 0 for the catch-all bucket.
func (l *Log) Representative(i int) float64 {
	if i <= 0 {
		return 0
	}
	return math.Pow(l.base, float64(i-1)/float64(l.grades)) * l.floor
}

// AddSample counts one sample, in seconds.
func (l *Log) AddSample(seconds float64) {
	i := l.Bucket(seconds)

	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.buckets) <= i {
		l.buckets = append(l.buckets, 0)
	}
	l.buckets[i]++
	l.count++
}

// Count returns the total number of samples recorded.
func (l *Log) Count() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Distribution returns the non-empty buckets keyed by label: "0" for the
// catch-all bucket, otherwise the representative value formatted to 3
// significant figures. The map is a copy.
func (l *Log) Distribution() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]uint64, len(l.buckets))
	for i, n := range l.buckets {
		if n == 0 {
			continue
		}
		out[l.label(i)] = n
	}
	return out
}

func (l *Log) label(i int) string {
	if i == 0 {
		return "0"
	}
	return fmt.Sprintf("%.3g", l.Representative(i))
}

var _ sink.Sink = (*Log)(nil)
