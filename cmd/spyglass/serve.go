package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/yeongki/spyglass/internal/collector"
	"github.com/yeongki/spyglass/internal/logging"
)

type serveConfig struct {
	interval time.Duration
	demo     demoConfig
}

func newServeCmd(a *app) *cobra.Command {
	cfg := serveConfig{
		interval: 10 * time.Second,
		demo:     demoConfig{dots: 5, dotInterval: 20 * time.Millisecond},
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo workload periodically and expose /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := a.opts.Normalize()
			l := logging.FromLogr(a.log)
			c := collector.Default()
			c.SetLogger(l)

			ln, err := net.Listen("tcp", opts.MetricsAddr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", opts.MetricsAddr, err)
			}
			srv := &http.Server{
				Handler:           metricsMux(prometheus.DefaultGatherer),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return serve(cmd.Context(), srv, ln, cfg, c, l)
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.opts.MetricsAddr, "addr", a.opts.MetricsAddr, "listen address for /metrics (env SPYGLASS_METRICS_ADDR)")
	f.DurationVar(&cfg.interval, "interval", cfg.interval, "time between workload runs")
	f.IntVar(&cfg.demo.dots, "dots", cfg.demo.dots, "iterations of the expensive step")
	f.DurationVar(&cfg.demo.dotInterval, "dot-interval", cfg.demo.dotInterval, "sleep per iteration")
	return cmd
}

func metricsMux(g prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	return mux
}

// serve answers HTTP on ln and runs the workload every cfg.interval until
// ctx is done, then shuts the server down.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, cfg serveConfig, c *collector.Collector, l logging.Logger) error {
	logf := logging.NewLogf(l)
	addr := ln.Addr().String()

	errCh := make(chan error, 1)
	go func() {
		logf("serving metrics on %s", addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(cfg.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return shutdown(srv)
		}

		workload(c, io.Discard, cfg.demo.dots, cfg.demo.dotInterval)
		c.Wait()
		logf("workload round done, %d timings", len(c.Drain()))

		select {
		case <-ctx.Done():
			return shutdown(srv)
		case err, ok := <-errCh:
			if ok && err != nil {
				return fmt.Errorf("serve %s: %w", addr, err)
			}
			return nil
		case <-ticker.C:
		}
	}
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
