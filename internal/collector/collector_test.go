package collector_test

import (
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yeongki/spyglass/internal/collector"
	"github.com/yeongki/spyglass/pkg/spyglass"
	"github.com/yeongki/spyglass/test/utils"
)

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) Logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func timing(name, fn string, d time.Duration) spyglass.Timing {
	return spyglass.Timing{
		Name:     name,
		Begin:    time.Now(),
		Duration: d,
		Location: spyglass.Location{File: "/x/y.go", Line: 1, Function: fn},
	}
}

func nestedScopes(sink spyglass.Sink) {
	defer spyglass.Start(sink, "maggie").Stop()
	defer spyglass.Start(sink, "milly").Stop()
	defer spyglass.Track(sink, "molly")()
}

var _ = Describe("Collector", func() {
	var c *collector.Collector

	BeforeEach(func() {
		c = collector.New(collector.WithLogger(utils.GinkgoLogger{Prefix: "collector"}))
	})

	It("queues every hand-off once Wait returns", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				spyglass.Start(c, fmt.Sprintf("worker-%d", i)).Stop()
			}(i)
		}
		wg.Wait()
		c.Wait()

		Expect(c.Len()).To(Equal(50))
	})

	It("records every scope ended by defer", func() {
		nestedScopes(c)
		c.Wait()

		got := c.Snapshot()
		Expect(got).To(HaveLen(3))
		names := []string{}
		for _, t := range got {
			Expect(t.Location.Function).To(HaveSuffix("collector_test.nestedScopes"))
			names = append(names, t.Name)
		}
		Expect(names).To(ContainElements(
			ContainSubstring("maggie"),
			ContainSubstring("milly"),
			ContainSubstring("molly"),
		))
	})

	It("ends deferred scopes in reverse order of start", func() {
		var names []string
		nestedScopes(spyglass.SinkFunc(func(t spyglass.Timing) {
			names = append(names, t.Name)
		}))

		Expect(names).To(HaveLen(3))
		Expect(names[0]).To(ContainSubstring("molly"))
		Expect(names[1]).To(ContainSubstring("milly"))
		Expect(names[2]).To(ContainSubstring("maggie"))
	})

	It("allows Wait while other goroutines keep recording", func() {
		stop := make(chan struct{})
		recorded := make(chan int)
		go func() {
			defer GinkgoRecover()
			n := 0
			for {
				select {
				case <-stop:
					recorded <- n
					return
				default:
					c.Record(timing("busy", "pkg.Busy", time.Microsecond))
					n++
					time.Sleep(10 * time.Microsecond)
				}
			}
		}()

		deadline := time.Now().Add(300 * time.Millisecond)
		for time.Now().Before(deadline) {
			c.Wait()
		}
		close(stop)

		var n int
		Eventually(recorded).WithTimeout(5 * time.Second).Should(Receive(&n))
		c.Wait()
		Expect(c.Len()).To(Equal(n))
	})

	It("lets Close wait for hand-offs in flight", func() {
		for i := 0; i < 20; i++ {
			c.Record(timing("pending", "pkg.A", time.Millisecond))
		}
		c.Close()
		Expect(c.Len()).To(Equal(20))
	})

	It("returns copies from Snapshot and empties on Drain", func() {
		c.Queue(timing("a", "pkg.A", time.Millisecond))
		c.Queue(timing("b", "pkg.B", time.Millisecond))

		snap := c.Snapshot()
		snap[0].Name = "mutated"
		Expect(c.Snapshot()[0].Name).To(Equal("a"))

		drained := c.Drain()
		Expect(drained).To(HaveLen(2))
		Expect(c.Len()).To(BeZero())
		Expect(c.Drain()).To(BeEmpty())
	})

	It("drops and logs timings after Close", func() {
		logger := &captureLogger{}
		c = collector.New(collector.WithLogger(logger))
		c.Queue(timing("kept", "pkg.A", time.Millisecond))
		c.Close()

		c.Record(timing("late", "pkg.A", time.Millisecond))
		c.Wait()

		Expect(c.Len()).To(Equal(1))
		Expect(logger.lines).To(ConsistOf(`couldn't queue "late": collector closed`))
	})

	Context("with a histogram", func() {
		var reg *prometheus.Registry

		BeforeEach(func() {
			reg = prometheus.NewRegistry()
			h, err := collector.NewHistogram(reg)
			Expect(err).NotTo(HaveOccurred())
			c = collector.New(collector.WithHistogram(h))
		})

		It("observes durations per function", func() {
			c.Queue(timing("a", "github.com/acme/app.Load", 10*time.Millisecond))
			c.Queue(timing("b", "github.com/acme/app.Load", 20*time.Millisecond))
			c.Queue(timing("c", "github.com/acme/app.Save", 30*time.Millisecond))

			families, err := reg.Gather()
			Expect(err).NotTo(HaveOccurred())
			Expect(families).To(HaveLen(1))
			Expect(families[0].GetName()).To(Equal("spyglass_scope_duration_seconds"))

			counts := map[string]uint64{}
			for _, m := range families[0].GetMetric() {
				counts[m.GetLabel()[0].GetValue()] = m.GetHistogram().GetSampleCount()
			}
			Expect(counts).To(Equal(map[string]uint64{"app.Load": 2, "app.Save": 1}))
		})

		It("reuses an already registered histogram", func() {
			again, err := collector.NewHistogram(reg)
			Expect(err).NotTo(HaveOccurred())

			c.Queue(timing("a", "app.Load", time.Millisecond))
			Expect(testutil.CollectAndCount(again)).To(Equal(1))
		})
	})

	It("returns the same default collector", func() {
		Expect(collector.Default()).To(BeIdenticalTo(collector.Default()))
	})
})

var _ = Describe("Spec timing hooks", Ordered, func() {
	hooked := collector.New()

	utils.AttachScopeTimer(func() spyglass.Sink { return hooked })

	It("times the first spec", func() {
		time.Sleep(time.Millisecond)
	})

	It("times the second spec", func() {
		hooked.Wait()
		got := hooked.Snapshot()
		Expect(got).To(HaveLen(1))
		Expect(got[0].Name).To(ContainSubstring("times the first spec"))
		Expect(got[0].Duration).To(BeNumerically(">=", time.Millisecond))
	})
})
