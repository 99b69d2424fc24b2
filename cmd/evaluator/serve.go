package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-evaluator/internal/observability"
	"github.com/jonathan/candidate-evaluator/internal/server"
)

type serveOptions struct {
	port         int
	maxBatchSize int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	defaults := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  `Start an HTTP server exposing POST /evaluate, POST /rank, GET /health and GET /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", defaults.Port, "Port to listen on")
	cmd.Flags().IntVar(&opts.maxBatchSize, "max-batch", defaults.MaxBatchSize, "Maximum number of candidates accepted by /rank")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	if opts.port <= 0 || opts.port > 65535 {
		return fmt.Errorf("invalid port %d", opts.port)
	}

	log, err := root.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	eng, err := root.newEngine(log, metrics)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Port = opts.port
	cfg.MaxBatchSize = opts.maxBatchSize

	srv, err := server.New(cfg, eng, metrics, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}
