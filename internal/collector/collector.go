// Package collector is the process-side sink for spyglass timings: a
// mutex-guarded queue fed from short-lived goroutines, optionally mirrored
// into a Prometheus histogram.
package collector

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeongki/spyglass/internal/logging"
	"github.com/yeongki/spyglass/pkg/spyglass"
)

const (
	metricNamespace = "spyglass"
	metricName      = "scope_duration_seconds"
)

// Collector queues timings handed off by spyglass guards.
//
// Record never blocks the stopping scope: each timing is queued from its own
// goroutine. Call Wait before reading the queue if every pending hand-off
// must be visible.
type Collector struct {
	mu     sync.Mutex
	queue  []spyglass.Timing
	closed bool

	// pending counts Record hand-offs not yet queued; idle is signalled on
	// c.mu whenever it drops to zero.
	pending int
	idle    *sync.Cond

	hist *prometheus.HistogramVec
	logf func(string, ...any)
}

type Option func(*Collector)

// WithLogger sets the logger used for dropped timings.
func WithLogger(l logging.Logger) Option {
	return func(c *Collector) {
		c.logf = logging.NewLogf(l)
	}
}

// WithHistogram mirrors every queued timing into h, labelled by function.
// h must have exactly one label.
func WithHistogram(h *prometheus.HistogramVec) Option {
	return func(c *Collector) {
		c.hist = h
	}
}

// New creates an empty collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		logf: func(string, ...any) {},
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// NewHistogram builds the scope duration histogram and registers it on reg.
// A nil reg leaves the histogram unregistered.
func NewHistogram(reg prometheus.Registerer) (*prometheus.HistogramVec, error) {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricNamespace,
		Name:      metricName,
		Help:      "Wall-clock duration of timed scopes.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"function"})
	if reg == nil {
		return h, nil
	}
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return h, nil
}

// SetLogger replaces the logger used for dropped timings.
func (c *Collector) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logf = logging.NewLogf(l)
}

// Record implements spyglass.Sink.
func (c *Collector) Record(t spyglass.Timing) {
	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	go func() {
		defer c.done()
		c.Queue(t)
	}()
}

func (c *Collector) done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
}

// Queue appends t synchronously. It blocks until the queue lock is free.
func (c *Collector) Queue(t spyglass.Timing) {
	c.mu.Lock()
	if c.closed {
		logf := c.logf
		c.mu.Unlock()
		logf("couldn't queue %q: collector closed", t.Name)
		return
	}
	c.queue = append(c.queue, t)
	c.mu.Unlock()

	if c.hist != nil {
		c.hist.WithLabelValues(t.Location.ShortFunction()).Observe(t.Duration.Seconds())
	}
}

// Wait blocks until no Record hand-off is in flight. It is safe to call
// while other goroutines keep recording.
func (c *Collector) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitIdleLocked()
}

func (c *Collector) waitIdleLocked() {
	for c.pending > 0 {
		c.idle.Wait()
	}
}

// Len returns the number of queued timings.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Snapshot returns a copy of the queue in arrival order.
func (c *Collector) Snapshot() []spyglass.Timing {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]spyglass.Timing, len(c.queue))
	copy(out, c.queue)
	return out
}

// Drain returns the queued timings and empties the queue.
func (c *Collector) Drain() []spyglass.Timing {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.queue
	c.queue = nil
	return out
}

// Close waits for pending hand-offs and rejects later ones. Queued timings
// stay readable.
func (c *Collector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitIdleLocked()
	c.closed = true
}

var _ spyglass.Sink = (*Collector)(nil)
