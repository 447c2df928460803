package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/gradtape/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		suites      []string
		trials      int
		metricsAddr string
		tracing     bool
		linger      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure forward and gradient evaluation time",
		Long: `Measure forward and gradient evaluation time over the coverage suites:
simple, composed, looped-small, looped, fuzzed and building.

--metrics-addr serves Prometheus metrics while the benchmark runs and for
--linger afterwards. --otel prints one trace span per suite to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc := a.cfg.Bench
			oc := a.cfg.Observability
			if cmd.Flags().Changed("suite") {
				bc.Suites = suites
			}
			if cmd.Flags().Changed("trials") {
				bc.Trials = trials
			}
			if cmd.Flags().Changed("metrics-addr") {
				oc.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("otel") {
				oc.Tracing = tracing
			}

			selected, err := bench.Lookup(bc.Suites)
			if err != nil {
				return err
			}

			if oc.Tracing {
				shutdown, err := initTracer(oc.ServiceName)
				if err != nil {
					return fmt.Errorf("init tracer: %w", err)
				}
				defer func() {
					if err := shutdown(context.Background()); err != nil {
						a.logger.Warn().Err(err).Msg("tracer shutdown")
					}
				}()
			}
			if oc.MetricsAddr != "" {
				shutdown, err := serveMetrics(oc.MetricsAddr, a.logger)
				if err != nil {
					return fmt.Errorf("metrics server: %w", err)
				}
				defer func() {
					if linger > 0 {
						a.logger.Info().Dur("linger", linger).Msg("benchmark done, still serving metrics")
						time.Sleep(linger)
					}
					_ = shutdown(context.Background())
				}()
			}

			ctx := cmd.Context()
			if bc.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, bc.Timeout)
				defer cancel()
			}

			runner := bench.NewRunner(bc, a.logger, a.engine().Options()...)
			results, err := runner.RunAll(ctx, selected)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUITE\tCASE\tFORWARD\tGRADIENT\tRATIO\t")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%v ± %v\t%v ± %v\t%.1f\t\n",
					r.Suite, r.Case, r.Forward.Mean, r.Forward.StdDev, r.Gradient.Mean, r.Gradient.StdDev, r.Ratio)
			}
			return tw.Flush()
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&suites, "suite", nil, "suites to run (default: all)")
	fl.IntVar(&trials, "trials", 0, "trials per case (default from config)")
	fl.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.BoolVar(&tracing, "otel", false, "enable OpenTelemetry tracing (stdout)")
	fl.DurationVar(&linger, "linger", 0, "keep serving metrics this long after the run")
	return cmd
}
