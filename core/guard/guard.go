package guard

import (
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type guardState uint8

const (
	stateRunning guardState = iota
	stateFinished
	stateComplete
	stateBroken
)

type guardConfig struct {
	tag   string
	timed bool
}

// GuardOption adjusts a single guard at creation time.
type GuardOption func(*guardConfig)

// WithTag attaches a diagnostic tag, included in misuse warnings.
func WithTag(tag string) GuardOption {
	return func(c *guardConfig) { c.tag = tag }
}

// WithGeneratedTag attaches a short random tag.
func WithGeneratedTag() GuardOption {
	return func(c *guardConfig) { c.tag = fmt.Sprintf("guard-%s", gonanoid.Must(6)) }
}

// WithTime stamps this guard at creation even when the tracker was not
// built with TrackTime.
func WithTime() GuardOption {
	return func(c *guardConfig) { c.timed = true }
}

// Guard is a single-use token for one in-flight operation. It reports to
// its owning tracker exactly once at Finish and exactly once at Close.
//
// A Guard belongs to the goroutine driving its operation and is not safe
// for concurrent use. The zero value has no owner; all methods on it are
// inert, which makes it a drop-in stand-in for manual testing.
type Guard struct {
	owner     *Tracker
	tag       string
	createdAt time.Time // zero when untimed or already sampled
	state     guardState
	warned    bool // first repeat Finish already reported
}

// Tag returns the diagnostic tag, if any.
func (g *Guard) Tag() string {
	if g == nil {
		return ""
	}
	return g.tag
}

// Done reports whether Finish has been called on this guard.
func (g *Guard) Done() bool {
	return g != nil && (g.state == stateFinished || g.state == stateComplete)
}

// Finish marks the operation complete with the given result tag (empty
// string for untagged) and reports it to the tracker, together with the
// elapsed time when the guard is timed. Only the first call counts: repeat
// calls warn and change nothing, and never fail.
func (g *Guard) Finish(result string) {
	if g == nil || g.owner == nil {
		return
	}

	if g.state != stateRunning {
		g.warnFinish()
		return
	}

	g.state = stateFinished
	g.owner.RecordFinish(result)
	g.sampleTime()
}

// Close reclaims the guard: complete when it was finished, broken when it
// was abandoned. Close is idempotent; only the first call reports. A timed
// guard that never finished records its elapsed time here.
func (g *Guard) Close() {
	if g == nil || g.owner == nil {
		return
	}
	if g.state == stateComplete || g.state == stateBroken {
		return
	}

	g.sampleTime()

	if g.state == stateFinished {
		g.owner.RecordReclaim(true)
		g.state = stateComplete
		return
	}
	g.owner.RecordReclaim(false)
	g.state = stateBroken
}

// warnFinish reports an out-of-order Finish call. A broken guard was never
// finished at all, so it gets its own message; otherwise the second call
// is told apart from later ones.
func (g *Guard) warnFinish() {
	var msg string
	switch {
	case g.state == stateBroken:
		msg = "guard finished after close"
	case g.warned:
		msg = "guard finished more than twice"
	default:
		msg = "guard finished twice"
	}
	g.warned = true

	if g.tag != "" {
		g.owner.log.Warn(msg, slog.String("tag", g.tag))
		return
	}
	g.owner.log.Warn(msg)
}

// sampleTime records elapsed time once and drops the timestamp so the
// other lifecycle event cannot count it again.
func (g *Guard) sampleTime() {
	if g.createdAt.IsZero() {
		return
	}
	g.owner.RecordTime(time.Since(g.createdAt).Seconds())
	g.createdAt = time.Time{}
}
