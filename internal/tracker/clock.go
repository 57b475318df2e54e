package tracker

import "time"

// Clock schedules the wait between two fetches of the same job
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
