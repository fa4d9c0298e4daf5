package installer

import "time"

// Clock stamps when a run starts and how long it took.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// since is the run duration measured on c, never negative.
func since(c Clock, start time.Time) time.Duration {
	if d := c.Now().Sub(start); d > 0 {
		return d
	}
	return 0
}
