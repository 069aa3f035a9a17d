package guard

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/dallaylaen/guardstat-go/core/timestat"
	"github.com/dallaylaen/guardstat-go/ports/sink"
)

// LevelFunc is invoked when the running-guard count crosses a watched
// level. It runs synchronously on the goroutine that triggered the
// crossing, after the tracker has released its internal lock, so it may
// call back into the tracker. A panic inside the callback propagates to
// that caller; the counters are updated before the callback runs and stay
// consistent.
type LevelFunc func(running int, t *Tracker)

// Options configures a Tracker. The zero value is usable: warnings go to
// slog.Default() and elapsed-time samples are bucketed internally with
// default parameters.
type Options struct {
	// Logger receives misuse warnings (repeated Finish calls).
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Sink receives one elapsed-time sample per timed guard. When nil, the
	// tracker buckets samples itself and TimeDistribution reports them.
	// Exactly one of the two destinations is ever active.
	Sink sink.Sink

	// TrackTime stamps every guard at creation so its lifetime is sampled
	// at Finish (or at Close, for guards that never finish). Individual
	// guards can opt in with WithTime regardless of this setting.
	TrackTime bool

	// Bucketing parameters for the internal time log; ignored when Sink is
	// set. Zero values fall back to the timestat defaults (base 10, 10
	// grades per decade, 1µs floor).
	Base    float64
	Grades  int
	MinTime float64
}

// Tracker aggregates lifecycle counts for the guards it created. All
// methods are safe for concurrent use.
type Tracker struct {
	log       *slog.Logger
	sink      sink.Sink     // nil when bucketing locally
	times     *timestat.Log // nil when an external sink is configured
	trackTime bool

	mu       sync.Mutex
	total    uint64
	finished uint64
	complete uint64
	broken   uint64
	results  map[string]uint64
	onUp     map[int]LevelFunc
	onDown   map[int]LevelFunc
}

// NewTracker validates opt and creates a Tracker. The only error source is
// invalid bucketing parameters; a misconfigured tracker is a programming
// mistake and fails fast.
func NewTracker(opt Options) (*Tracker, error) {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}

	t := &Tracker{
		log:       opt.Logger,
		trackTime: opt.TrackTime,
		results:   map[string]uint64{},
		onUp:      map[int]LevelFunc{},
		onDown:    map[int]LevelFunc{},
	}

	if opt.Sink != nil {
		t.sink = opt.Sink
		return t, nil
	}

	times, err := timestat.New(timestat.Opts{
		Base:    opt.Base,
		Grades:  opt.Grades,
		MinTime: opt.MinTime,
	})
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}
	t.times = times

	return t, nil
}

// Guard creates a running guard owned by this tracker. The ascending level
// callback registered at exactly the new running count, if any, fires
// before Guard returns.
func (t *Tracker) Guard(opts ...GuardOption) *Guard {
	var cfg guardConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	g := &Guard{owner: t, tag: cfg.tag}
	if t.trackTime || cfg.timed {
		g.createdAt = time.Now()
	}

	t.mu.Lock()
	t.total++
	running := t.runningLocked()
	fn := t.onUp[running]
	t.mu.Unlock()

	if fn != nil {
		fn(running, t)
	}

	return g
}

// OnLevel registers fn to fire when the running-guard count crosses level,
// replacing any callback previously registered at the same key. A nil fn
// removes the entry. Returns the tracker for chaining.
//
// The sign selects the direction, preserving the original convention: a
// positive level fires when the count increases to exactly that value; a
// zero or negative level fires when the count decreases to exactly the
// negation of that value. OnLevel(0, fn) fires when the last running guard
// finishes; OnLevel(-3, fn) fires when the count drops to 3.
func (t *Tracker) OnLevel(level int, fn LevelFunc) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := t.onUp
	if level <= 0 {
		table = t.onDown
	}
	if fn == nil {
		delete(table, level)
	} else {
		table[level] = fn
	}

	return t
}

// RecordFinish counts one finished guard and tallies its result tag (empty
// string for untagged). The descending level callback watching the new
// running count, if any, fires before RecordFinish returns.
//
// Guards call this through Finish; it is exported for manual bookkeeping
// alongside detached guards.
func (t *Tracker) RecordFinish(result string) {
	t.mu.Lock()
	t.finished++
	t.results[result]++
	running := t.runningLocked()
	fn := t.onDown[-running]
	t.mu.Unlock()

	if fn != nil {
		fn(running, t)
	}
}

// RecordReclaim counts one reclaimed guard: complete when it had finished,
// broken when it had not. Guards call this through Close.
func (t *Tracker) RecordReclaim(wasFinished bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if wasFinished {
		t.complete++
	} else {
		t.broken++
	}
}

// RecordTime routes one elapsed-time sample, in seconds, to the configured
// sink or to the internal bucket log.
func (t *Tracker) RecordTime(seconds float64) {
	if t.sink != nil {
		t.sink.AddSample(seconds)
		return
	}
	t.times.AddSample(seconds)
}

// runningLocked computes the current running count. Signed on purpose:
// misuse of the manual Record* surface can drive it below zero, and that
// must not wrap.
func (t *Tracker) runningLocked() int {
	return int(t.total) - int(t.finished) - int(t.broken)
}

// Stats is a point-in-time snapshot of the tracker's counters. The first
// four fields count lifecycle events; the rest are derived at read time.
type Stats struct {
	Total    uint64 // guards created
	Finished uint64 // Finish calls that counted
	Complete uint64 // reclaimed after finishing
	Broken   uint64 // reclaimed without finishing

	Zombie  uint64 // finished, not yet reclaimed
	Running uint64 // neither finished nor reclaimed
	Alive   uint64 // not yet reclaimed
	Dead    uint64 // reclaimed, either way

	// Results maps result tags to finish counts ("" = untagged). The map
	// is a copy; mutating it does not affect the tracker.
	Results map[string]uint64
}

// Stats returns a snapshot with all derived values computed at read time.
// Misuse of the manual Record* surface can push a derived value below
// zero; snapshots clamp at zero instead of wrapping.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	dead := t.complete + t.broken
	return Stats{
		Total:    t.total,
		Finished: t.finished,
		Complete: t.complete,
		Broken:   t.broken,
		Zombie:   clamped(int(t.finished) - int(t.complete)),
		Running:  clamped(t.runningLocked()),
		Alive:    clamped(int(t.total) - int(dead)),
		Dead:     dead,
		Results:  maps.Clone(t.results),
	}
}

func clamped(v int) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// TimeDistribution returns the local time-bucket counts keyed by bucket
// label: "0" for untimed and sub-floor samples, otherwise the bucket's
// representative value to 3 significant figures. It returns nil when an
// external sink owns the samples.
func (t *Tracker) TimeDistribution() map[string]uint64 {
	if t.times == nil {
		return nil
	}
	return t.times.Distribution()
}
