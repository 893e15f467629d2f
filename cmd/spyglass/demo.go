package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/yeongki/spyglass/internal/artifacts"
	"github.com/yeongki/spyglass/internal/collector"
	"github.com/yeongki/spyglass/internal/env"
	"github.com/yeongki/spyglass/internal/logging"
	"github.com/yeongki/spyglass/pkg/spyglass"
)

type demoConfig struct {
	dots         int
	dotInterval  time.Duration
	printMetrics bool
}

func newDemoCmd(a *app) *cobra.Command {
	cfg := demoConfig{dots: 15, dotInterval: 100 * time.Millisecond}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Time a few nested scopes and print the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l := logging.FromLogr(a.log)
			c := collector.Default()
			c.SetLogger(l)
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg, a.opts, c, prometheus.DefaultGatherer, l)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.dots, "dots", cfg.dots, "iterations of the expensive step")
	f.DurationVar(&cfg.dotInterval, "dot-interval", cfg.dotInterval, "sleep per iteration")
	f.BoolVar(&cfg.printMetrics, "print-metrics", false, "print collected metrics in Prometheus text format")
	return cmd
}

// runDemo runs the workload once, then reports what c collected.
func runDemo(ctx context.Context, out io.Writer, cfg demoConfig, opts env.Options, c *collector.Collector, g prometheus.Gatherer, l logging.Logger) error {
	logf := logging.NewLogf(l)

	workload(c, out, cfg.dots, cfg.dotInterval)

	// wait for all hand-offs to land
	c.Wait()
	timings := c.Drain()

	for _, t := range timings {
		fmt.Fprintf(out, "%s took %ds (%dns)\n", t.Name, int64(t.Duration.Seconds()), t.Duration.Nanoseconds())
	}

	if opts.Enabled {
		opts = opts.Normalize()
		path := opts.ReportPath()
		if err := artifacts.NewWriter(path).WriteReport(ctx, artifacts.NewReport(opts.RunID, timings)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logf("wrote report %s (%d timings)", path, len(timings))
	}

	if cfg.printMetrics && g != nil {
		if err := writeMetricsText(out, g); err != nil {
			return err
		}
	}
	return nil
}

func writeMetricsText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func workload(sink spyglass.Sink, w io.Writer, dots int, interval time.Duration) {
	func() {
		defer spyglass.Start(sink, "maggie").Stop()
		defer spyglass.Start(sink, "milly").Stop()
		somethingExpensive(sink, w, dots, interval)
		defer spyglass.Start(sink, "molly").Stop()
		defer spyglass.Start(sink, "may").Stop()
	}()

	func() {
		defer spyglass.Start(sink, "").Stop()
	}()
}

func somethingExpensive(sink spyglass.Sink, w io.Writer, dots int, interval time.Duration) {
	defer spyglass.Start(sink, spyglass.Func()).Stop()

	for i := 0; i < dots; i++ {
		_, _ = io.WriteString(w, ".")
		time.Sleep(interval)
	}
	_, _ = io.WriteString(w, "\n")
}
