package machine

import (
	"time"
)

// Clock is the time source of the pacing loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// pace sleeps out the rest of an iteration that began at start. An
// iteration over its budget proceeds at once; lost time is not made up.
func pace(clock Clock, start time.Time, period time.Duration) (slept time.Duration) {
	elapsed := clock.Now().Sub(start)
	if elapsed >= period {
		return
	}

	slept = period - elapsed
	clock.Sleep(slept)
	return
}
