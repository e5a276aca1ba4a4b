package clock

import "time"

// Clock abstracts wall time so services can be tested deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// New returns the system clock.
func New() Clock {
	return systemClock{}
}
