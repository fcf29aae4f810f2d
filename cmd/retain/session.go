package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/internal/demo"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/host"
	"github.com/vango-dev/retain/pkg/reconcile"
)

// session is one canvas with the demo app mounted on it.
type session struct {
	doc  *canvas.Document
	tap  *canvas.Tap
	rec  *canvas.Recorder
	loop *host.Loop
	rt   *host.Runtime
	app  *demo.App
}

// newSession mounts the demo. With cfg.Hydrate the document is first filled
// by a render whose deferred work never runs, and the app then adopts that
// content instead of creating it.
func newSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*session, error) {
	doc := canvas.NewDocument("body")
	if cfg.Hydrate {
		if err := prerender(ctx, doc); err != nil {
			return nil, err
		}
	}

	rec := canvas.NewRecorder()
	tap := canvas.NewTap(doc, rec)
	loop := host.NewLoop()

	var metrics *reconcile.Metrics
	if reg != nil {
		metrics = reconcile.NewMetrics(
			reconcile.WithNamespace(cfg.Metrics.Namespace),
			reconcile.WithRegistry(reg),
		)
	}

	rt := host.New(tap, loop, host.Options{
		Hydrate: cfg.Hydrate,
		Metrics: metrics,
		Logger:  logger,
	})
	app := demo.New(rt, logger)
	if _, err := app.Mount(ctx, doc.Root()); err != nil {
		return nil, err
	}
	loop.RunPending()

	return &session{doc: doc, tap: tap, rec: rec, loop: loop, rt: rt, app: app}, nil
}

func prerender(ctx context.Context, doc *canvas.Document) error {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := host.New(doc, host.NewLoop(), host.Options{Logger: quiet})
	_, err := demo.New(rt, quiet).Mount(ctx, doc.Root())
	return err
}
