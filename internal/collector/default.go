package collector

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var defaultCollector = sync.OnceValue(func() *Collector {
	h, err := NewHistogram(prometheus.DefaultRegisterer)
	if err != nil {
		return New()
	}
	return New(WithHistogram(h))
})

// Default returns the process-wide collector, created on first use and
// registered on prometheus.DefaultRegisterer.
func Default() *Collector {
	return defaultCollector()
}
