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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/benchmark"
)

// benchKeys maps configuration keys to bench flags.
var benchKeys = map[string]string{
	"instances":      "instances",
	"max_tenants":    "max-tenants",
	"max_servers":    "max-servers",
	"max_metrics":    "max-metrics",
	"threshold":      "threshold",
	"parallelism":    "parallelism",
	"seed":           "seed",
	"mappers":        "mappers",
	"cross_validate": "cross-validate",
}

func newBenchCmd(a *app) *cobra.Command {
	def := benchmark.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Sweep generated problems through the mappers",
	}
	f := cmd.PersistentFlags()
	f.Int("instances", def.Instances, "problems per shape")
	f.Int("max-tenants", def.MaxTenants, "largest tenant count")
	f.Int("max-servers", def.MaxServers, "largest server count")
	f.Int("max-metrics", def.MaxMetrics, "largest metric count")
	f.Float64("threshold", def.Threshold, "share of instances that must map")
	f.Int("parallelism", def.Parallelism, "concurrent workers")
	f.Int64("seed", def.Seed, "random seed")
	f.StringSlice("mappers", def.Mappers, "mappers under test")
	f.Bool("cross-validate", def.CrossValidate, "compare direct and embedded solutions")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address while sweeping")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "possible",
			Short: "Print the largest tenant count each mapper embeds, per shape",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, stop, err := a.runner(cmd)
				if err != nil {
					return err
				}
				defer stop()
				rep, err := r.MappingPossible(cmd.Context())
				if err != nil {
					return err
				}
				return writePossible(cmd.OutOrStdout(), rep)
			},
		},
		&cobra.Command{
			Use:   "weights",
			Short: "Print the weight range of every embedded instance",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, stop, err := a.runner(cmd)
				if err != nil {
					return err
				}
				defer stop()
				rep, err := r.MaxWeights(cmd.Context())
				if err != nil {
					return err
				}
				return benchmark.WriteWeights(cmd.OutOrStdout(), rep, r.Config().Mappers)
			},
		},
	)
	return cmd
}

// runner builds the sweep runner of cmd. The returned stop function shuts
// down the metrics endpoint, if any.
func (a *app) runner(cmd *cobra.Command) (*benchmark.Runner, func(), error) {
	if err := a.bind(cmd.Flags(), benchKeys); err != nil {
		return nil, nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	opts := []benchmark.Option{benchmark.WithLogger(a.log)}
	stop := func() {}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		obs, shutdown, err := a.serveMetrics(addr)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, benchmark.WithMetrics(obs))
		stop = shutdown
	}
	r, err := benchmark.NewRunner(cfg, opts...)
	if err != nil {
		stop()
		return nil, nil, err
	}
	return r, stop, nil
}

// serveMetrics exposes a fresh registry on addr until shutdown is called.
func (a *app) serveMetrics(addr string) (*benchmark.PrometheusObserver, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	obs, err := benchmark.NewPrometheusObserver(reg)
	if err != nil {
		return nil, nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server", zap.Error(err))
		}
	}()
	a.log.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return obs, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func writePossible(w io.Writer, rep *benchmark.PossibleReport) error {
	for _, name := range rep.Config.Mappers {
		if _, err := fmt.Fprintf(w, "%% %s\n", name); err != nil {
			return err
		}
		if err := benchmark.WriteTable(w, rep.MaxTenants[name]); err != nil {
			return err
		}
	}
	if rep.Config.CrossValidate {
		_, err := fmt.Fprintf(w, "%% cross validated: %d, skipped: %d\n", rep.Validated, rep.Skipped)
		return err
	}
	return nil
}
