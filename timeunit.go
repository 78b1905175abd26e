package goStats

import (
	"fmt"
	"strings"
	"time"
)

// TimeUnit is the unit a Registry reports durations in. The zero value is not a
// valid unit; configs default to Milliseconds.
type TimeUnit uint8

const (
	Nanoseconds TimeUnit = iota + 1
	Microseconds
	Milliseconds
	Seconds
)

// Valid reports whether u is one of the declared units.
func (u TimeUnit) Valid() bool { return u >= Nanoseconds && u <= Seconds }

// Convert truncates d to the unit.
//
// Only microseconds and milliseconds are scaled. Every other unit, Seconds
// included, reports raw nanoseconds.
func (u TimeUnit) Convert(d time.Duration) int64 {
	ns := d.Nanoseconds()
	switch u {
	case Microseconds:
		return ns / int64(time.Microsecond)
	case Milliseconds:
		return ns / int64(time.Millisecond)
	default:
		return ns
	}
}

// String returns the short symbol of the unit (ns, us, ms, s).
func (u TimeUnit) String() string {
	switch u {
	case Nanoseconds:
		return "ns"
	case Microseconds:
		return "us"
	case Milliseconds:
		return "ms"
	case Seconds:
		return "s"
	default:
		return fmt.Sprintf("TimeUnit(%d)", uint8(u))
	}
}

// ParseTimeUnit accepts short symbols (ns, us, µs, ms, s) and long names
// (nanoseconds, microseconds, milliseconds, seconds), case-insensitively.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ns", "nanos", "nanosecond", "nanoseconds":
		return Nanoseconds, nil
	case "us", "µs", "micros", "microsecond", "microseconds":
		return Microseconds, nil
	case "ms", "millis", "millisecond", "milliseconds":
		return Milliseconds, nil
	case "s", "sec", "second", "seconds":
		return Seconds, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeUnit, s)
}

// MarshalText implements encoding.TextMarshaler.
func (u TimeUnit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTimeUnit, uint8(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *TimeUnit) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
