package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/pkg/server"
	"github.com/vango-dev/retain/pkg/snapshot"
)

func serveCmd(load loader) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo canvas to browsers",
		Long: `Start an HTTP server that renders the demo canvas and streams every
canvas operation to connected browsers over a WebSocket.

Examples:
  retain serve
  retain serve --port=8080
  retain serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from "+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from "+config.ConfigFileName+")")
	return cmd
}

func runServe(cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	s, err := newSession(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}

	var store snapshot.Store
	if cfg.Snapshot.Dir != "" || cfg.Snapshot.Bucket != "" {
		if store, err = snapshot.FromConfig(cfg.Snapshot); err != nil {
			return err
		}
	}

	srv := server.New(server.Options{
		Config: server.Config{
			Addr:           cfg.Address(),
			Title:          cfg.Name,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MetricsPath:    cfg.Metrics.Path,
		},
		Loop:         s.loop,
		Document:     s.doc,
		Tap:          s.tap,
		Root:         s.doc.Root(),
		Store:        store,
		SnapshotName: cfg.Name,
		Registry:     reg,
		Namespace:    cfg.Metrics.Namespace,
		Logger:       logger,
	})

	go s.loop.Run(ctx)

	success("serving on http://%s", cfg.Address())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
