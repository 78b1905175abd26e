package goStats

import "time"

// Clock supplies the timestamps a Watch measures against. Implementations must
// return times carrying a monotonic reading (as time.Now does) so that elapsed
// values are immune to wall-clock adjustments.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by time.Now.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
