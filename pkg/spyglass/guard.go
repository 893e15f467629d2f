package spyglass

import (
	"sync"
	"time"
)

// now is replaced in tests.
var now = time.Now

// Guard is a running scope timer. It is created by Start and finished by
// Stop, usually through defer.
type Guard struct {
	name  string
	loc   Location
	begin time.Time
	sink  Sink

	once   sync.Once
	timing Timing
}

// Start begins timing the calling scope. If name is empty the timer is named
// after its call site (see Label). sink may be nil, in which case Stop only
// computes the result.
func Start(sink Sink, name string) *Guard {
	return start(sink, name, caller(1))
}

// Track starts a timer and returns the function that stops it:
//
//	defer spyglass.Track(sink, "load")()
func Track(sink Sink, name string) func() {
	g := start(sink, name, caller(1))
	return func() { g.Stop() }
}

func start(sink Sink, name string, loc Location) *Guard {
	return &Guard{
		name:  loc.Label(name),
		loc:   loc,
		begin: now(),
		sink:  sink,
	}
}

// Name returns the label the timing will be recorded under.
func (g *Guard) Name() string { return g.name }

// Location returns where the guard was started.
func (g *Guard) Location() Location { return g.loc }

// Elapsed returns the time since Start without stopping the guard.
func (g *Guard) Elapsed() time.Duration {
	return now().Sub(g.begin)
}

// Stop finishes the measurement and hands it to the sink. Only the first call
// records; later calls return the same Timing.
func (g *Guard) Stop() Timing {
	g.once.Do(func() {
		g.timing = Timing{
			Name:     g.name,
			Begin:    g.begin,
			Duration: now().Sub(g.begin),
			Location: g.loc,
		}
		if g.sink != nil {
			g.sink.Record(g.timing)
		}
	})
	return g.timing
}
