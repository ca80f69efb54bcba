package profiling

import "time"

// TimeTeller can be used to get the current time. The profiler's elapsed
// times are differences of consecutive readings, so the supplied clock
// should be monotonic non-decreasing. This is not enforced; a clock that
// runs backwards is a known hazard and only guarded by span clamping.
type TimeTeller interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// NewWallClock returns the default TimeTeller backed by the system clock.
func NewWallClock() TimeTeller {
	return wallClock{}
}
