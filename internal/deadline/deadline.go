// Package deadline centralizes the wall-clock budget arithmetic threaded
// through the pipeline, replacing ad hoc elapsed-time subtraction at each
// stage.
package deadline

import "time"

// Deadline is an absolute end-time with an injectable clock.
type Deadline struct {
	end time.Time
	now func() time.Time
}

// New creates a deadline expiring budget from now. A nil clock uses time.Now.
func New(budget time.Duration, clock func() time.Time) Deadline {
	if clock == nil {
		clock = time.Now
	}
	return Deadline{end: clock().Add(budget), now: clock}
}

// Remaining returns the time left before the deadline, never negative.
func (d Deadline) Remaining() time.Duration {
	left := d.end.Sub(d.now())
	if left < 0 {
		return 0
	}
	return left
}

// Exceeded reports whether the deadline has passed.
func (d Deadline) Exceeded() bool {
	return !d.now().Before(d.end)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
