package chat

import "time"

// Clock abstracts wall-clock reads so tests can simulate idle periods
// instead of sleeping through them.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }
