// Package guard tracks the lifecycle of in-flight asynchronous operations
// through single-use guard tokens, aggregating counts and latency buckets
// for diagnostics.
//
// A [Tracker] hands out guards and owns all the bookkeeping. Each guard
// reports back exactly once when the operation finishes and exactly once
// when the guard is closed, letting the tracker tell apart completed work,
// abandoned work (broken), and work that finished but was never cleaned up
// (zombie).
//
// # Lifecycle
//
// A guard starts Running. [Guard.Finish] moves it to Finished, and
// [Guard.Close] reclaims it: Complete if it had finished, Broken if it had
// not. Close is idempotent and defer-friendly:
//
//	tracker, _ := guard.NewTracker(guard.Options{})
//
//	g := tracker.Guard(guard.WithTag("fetch-user"))
//	defer g.Close()
//
//	// ... do the work ...
//	g.Finish("ok")
//
// A guard that is never finished before Close counts as broken, which
// usually points at a missing Finish call in the host code. Calling Finish
// more than once never fails; it logs a warning and changes nothing.
//
// # Level callbacks
//
// [Tracker.OnLevel] watches the running-guard count. Positive levels fire
// when the count rises to the level, zero and negative levels fire when it
// falls to the negation of the level:
//
//	tracker.
//	    OnLevel(100, func(running int, _ *guard.Tracker) {
//	        slog.Warn("high watermark", slog.Int("running", running))
//	    }).
//	    OnLevel(0, func(int, *guard.Tracker) {
//	        slog.Info("drained")
//	    })
//
// # Timing
//
// With Options.TrackTime (or per-guard [WithTime]) each guard is stamped at
// creation and its lifetime is recorded once, at Finish or — for guards
// that never finish — at Close. Samples go to the configured [sink.Sink],
// or into an internal logarithmic bucket log readable through
// [Tracker.TimeDistribution] when no sink is set.
package guard
