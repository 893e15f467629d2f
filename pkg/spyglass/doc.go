// Package spyglass captures call-site context for scoped timers.
//
// The package does two things: it resolves where a call happened (file, line
// and enclosing function) and it carries the resulting timing value to a Sink
// owned by the caller. Aggregation, persistence and any global registry are
// left to the caller.
//
// Typical usage:
//
//	func loadConfig() {
//		defer spyglass.Start(sink, "").Stop()
//		// ...
//	}
//
//	func fetch() {
//		defer spyglass.Track(sink, "fetch")()
//		// ...
//	}
//
// Both forms evaluate the timer when the defer statement runs, so the start
// time is taken at the top of the scope. Forgetting the trailing call in
// `defer spyglass.Track(sink, "x")` defers the construction of the timer
// itself and the recorded duration is meaningless. A Guard whose result is
// discarded without a deferred Stop never records anything.
package spyglass
