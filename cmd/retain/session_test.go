package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/internal/demo"
	"github.com/vango-dev/retain/pkg/canvas"
)

func TestNewSession(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	fresh, err := newSession(context.Background(), config.New(), quiet, prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if fresh.rec.Count(canvas.OpCreateElement) == 0 {
		t.Error("fresh mount created no elements")
	}

	cfg := config.New()
	cfg.Hydrate = true
	hydrated, err := newSession(context.Background(), cfg, quiet, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := hydrated.rec.Count(canvas.OpCreateElement, canvas.OpCreateText, canvas.OpInsert); n != 0 {
		t.Errorf("hydrating mount created %d handles: %+v", n, hydrated.rec.Ops())
	}
	if hydrated.rec.Count(canvas.OpAddListener) == 0 {
		t.Error("hydrating mount attached no listeners")
	}

	want := fresh.doc.InnerHTML(fresh.doc.Root())
	if got := hydrated.doc.InnerHTML(hydrated.doc.Root()); got != want {
		t.Errorf("hydrated html = %q, want %q", got, want)
	}

	if err := demo.Play(hydrated.doc, demo.Step{Selector: "inc", Event: "click"}); err != nil {
		t.Fatal(err)
	}
	hydrated.loop.RunPending()
	if hydrated.app.Count() != 1 {
		t.Errorf("count after click = %d", hydrated.app.Count())
	}
}
