package spyglass

import (
	"fmt"
	"time"
)

// Timing is a single finished measurement.
type Timing struct {
	Name     string
	Begin    time.Time
	Duration time.Duration

	// Location is where the timer was started.
	Location Location
}

// End returns Begin + Duration.
func (t Timing) End() time.Time {
	return t.Begin.Add(t.Duration)
}

func (t Timing) String() string {
	return fmt.Sprintf("%s took %s", t.Name, t.Duration)
}

// Sink receives finished timings. Implementations decide whether to queue,
// aggregate, export or drop them; Record must not retain the caller's stack.
type Sink interface {
	Record(Timing)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Timing)

func (f SinkFunc) Record(t Timing) {
	if f != nil {
		f(t)
	}
}
