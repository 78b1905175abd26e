package goStats

import "errors"

var (
	// ErrWatchStopped is returned when a Watch is stopped more than once.
	ErrWatchStopped = errors.New("watch already stopped")
	// ErrUnknownProbe is the panic value (wrapped) for a ProbeID outside the declared set.
	ErrUnknownProbe = errors.New("unknown probe")
	// ErrUnknownCounter is the panic value (wrapped) for a CounterID outside the declared set.
	ErrUnknownCounter = errors.New("unknown counter")
	// ErrInvalidTimeUnit is returned for a zero, out-of-range or unparseable TimeUnit.
	ErrInvalidTimeUnit = errors.New("invalid time unit")
	// ErrNilClock is returned by Validate when no Clock is configured.
	ErrNilClock = errors.New("nil clock")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
)
