package timestat

import (
	"errors"
	"math"
	"testing"
)

func TestLog_BadConfig(t *testing.T) {
	cases := []struct {
		name string
		opts Opts
		want error
	}{
		{"base below 1", Opts{Base: 0.5}, ErrBadBase},
		{"base exactly 1", Opts{Base: 1}, ErrBadBase},
		{"negative grades", Opts{Grades: -1}, ErrBadGrades},
		{"negative min time", Opts{MinTime: -1e-6}, ErrBadMinTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLog_Defaults(t *testing.T) {
	l, err := New(Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a sample at the floor lands in the first real bucket
	if b := l.Bucket(DefaultMinTime); b != 1 {
		t.Errorf("expected bucket 1 for floor sample, got %d", b)
	}
	if rep := l.Representative(1); rep != DefaultMinTime {
		t.Errorf("expected representative %v, got %v", DefaultMinTime, rep)
	}
}

func TestLog_BucketZeroCollectsSubFloor(t *testing.T) {
	l, err := New(Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, v := range []float64{0, -1, 1e-9, 1e-7} {
		if b := l.Bucket(v); b != 0 {
			t.Errorf("expected bucket 0 for %v, got %d", v, b)
		}
	}

	l.AddSample(0)
	l.AddSample(1e-9)

	dist := l.Distribution()
	if dist["0"] != 2 {
		t.Errorf("expected 2 samples in bucket \"0\", got %v", dist)
	}
}

func TestLog_NonFiniteSamples(t *testing.T) {
	l, err := New(Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// none of these may panic; counting always wins over precision
	l.AddSample(math.NaN())
	l.AddSample(math.Inf(1))
	l.AddSample(math.Inf(-1))

	if got := l.Count(); got != 3 {
		t.Errorf("expected all 3 samples counted, got %d", got)
	}

	if b := l.Bucket(math.NaN()); b != 0 {
		t.Errorf("expected bucket 0 for NaN, got %d", b)
	}
	if b := l.Bucket(math.Inf(-1)); b != 0 {
		t.Errorf("expected bucket 0 for -Inf, got %d", b)
	}
	if b := l.Bucket(math.Inf(1)); b != maxBucket {
		t.Errorf("expected top bucket for +Inf, got %d", b)
	}

	dist := l.Distribution()
	if dist["0"] != 2 {
		t.Errorf("expected NaN and -Inf in bucket \"0\", got %v", dist)
	}
}

func TestLog_RoundTrip(t *testing.T) {
	l, err := New(Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// one multiplicative bucket width
	step := math.Pow(DefaultBase, 1/float64(DefaultGrades))

	for _, v := range []float64{1e-6, 3e-5, 0.001, 0.02, 0.5, 3, 42, 1800} {
		rep := l.Representative(l.Bucket(v))
		if rep < v/step || rep > v*step {
			t.Errorf("representative %v for sample %v outside one bucket width", rep, v)
		}
	}
}

func TestLog_DistributionLabels(t *testing.T) {
	l, err := New(Opts{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l.AddSample(1e-6)
	l.AddSample(0.5)
	l.AddSample(0.5)

	dist := l.Distribution()
	if dist["1e-06"] != 1 {
		t.Errorf("expected 1 sample labeled 1e-06, got %v", dist)
	}
	if dist["0.501"] != 2 {
		t.Errorf("expected 2 samples labeled 0.501, got %v", dist)
	}
	if got := l.Count(); got != 3 {
		t.Errorf("expected count 3, got %d", got)
	}
}

func TestLog_CoarseScale(t *testing.T) {
	// one bucket per power of 2, floor of 1ms
	l, err := New(Opts{Base: 2, Grades: 1, MinTime: 1e-3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if b := l.Bucket(1e-3); b != 1 {
		t.Errorf("expected bucket 1 for floor, got %d", b)
	}
	if b := l.Bucket(4e-3); b != 3 {
		t.Errorf("expected bucket 3 for 4ms, got %d", b)
	}
	if rep := l.Representative(3); rep != 4e-3 {
		t.Errorf("expected representative 4ms, got %v", rep)
	}
}
