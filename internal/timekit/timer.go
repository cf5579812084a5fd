package timekit

import "time"

// Mode selects how a Timer behaves once its duration elapses.
type Mode int

const (
	// ModeOnce latches the finished state until Reset is called.
	ModeOnce Mode = iota
	// ModeRepeating re-arms the timer on every completion.
	ModeRepeating
)

// Timer is a countdown clock advanced by explicit deltas from the simulation
// tick. It distinguishes the latched "finished" state from the single update
// that crossed the boundary so callers can run edge-triggered work (tick
// damage, droplet spawns) exactly once per completion.
type Timer struct {
	duration     time.Duration
	elapsed      time.Duration
	mode         Mode
	finished     bool
	justFinished bool
	completions  int
}

// NewOnce returns a one-shot timer. Negative durations clamp to zero, which
// yields a degenerate timer that completes on its first Advance.
func NewOnce(duration time.Duration) *Timer {
	return newTimer(duration, ModeOnce)
}

// NewRepeating returns a timer that re-arms itself each time it completes.
func NewRepeating(duration time.Duration) *Timer {
	return newTimer(duration, ModeRepeating)
}

func newTimer(duration time.Duration, mode Mode) *Timer {
	if duration < 0 {
		duration = 0
	}
	return &Timer{duration: duration, mode: mode}
}

// Advance moves the timer forward by delta. Negative deltas are treated as
// zero. For repeating timers a single large delta may complete the timer more
// than once; Completions reports how many boundaries were crossed.
func (t *Timer) Advance(delta time.Duration) {
	if t == nil {
		return
	}
	if delta < 0 {
		delta = 0
	}
	t.justFinished = false
	t.completions = 0
	if t.mode == ModeOnce && t.finished {
		return
	}

	t.elapsed += delta
	if t.elapsed < t.duration {
		return
	}

	switch t.mode {
	case ModeOnce:
		t.elapsed = t.duration
		t.finished = true
		t.justFinished = true
		t.completions = 1
	case ModeRepeating:
		if t.duration <= 0 {
			t.completions = 1
			t.elapsed = 0
		} else {
			t.completions = int(t.elapsed / t.duration)
			t.elapsed %= t.duration
		}
		t.finished = true
		t.justFinished = true
	}
}

// Finished reports whether the timer has completed at least once. One-shot
// timers latch; repeating timers stay true after their first completion.
func (t *Timer) Finished() bool {
	return t != nil && t.finished
}

// JustFinished reports whether the most recent Advance crossed the boundary.
func (t *Timer) JustFinished() bool {
	return t != nil && t.justFinished
}

// Completions returns how many times the most recent Advance completed the
// timer. Zero unless JustFinished.
func (t *Timer) Completions() int {
	if t == nil {
		return 0
	}
	return t.completions
}

// Fraction returns elapsed progress in [0, 1]. A zero-duration timer reports 1.
func (t *Timer) Fraction() float64 {
	if t == nil {
		return 0
	}
	if t.duration <= 0 {
		return 1
	}
	f := float64(t.elapsed) / float64(t.duration)
	if f > 1 {
		return 1
	}
	return f
}

// Remaining returns the time left until the next completion.
func (t *Timer) Remaining() time.Duration {
	if t == nil {
		return 0
	}
	remaining := t.duration - t.elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Duration returns the configured period.
func (t *Timer) Duration() time.Duration {
	if t == nil {
		return 0
	}
	return t.duration
}

// Reset rewinds the timer to an unfired state, keeping its duration and mode.
func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.elapsed = 0
	t.finished = false
	t.justFinished = false
	t.completions = 0
}

// SetDuration replaces the period and rewinds the timer. Used by refresh
// semantics where re-application restarts the countdown.
func (t *Timer) SetDuration(duration time.Duration) {
	if t == nil {
		return
	}
	if duration < 0 {
		duration = 0
	}
	t.duration = duration
	t.Reset()
}
