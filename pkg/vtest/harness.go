package vtest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/host"
	"github.com/vango-dev/retain/pkg/reconcile"
	"github.com/vango-dev/retain/pkg/vdom"
)

// Harness runs components against an in-memory document.
type Harness struct {
	t testing.TB

	Doc      *canvas.Document
	Tap      *canvas.Tap
	Recorder *canvas.Recorder
	Loop     *host.Loop
	Runtime  *host.Runtime

	// Registry holds the engine metrics; it is private to the harness.
	Registry *prometheus.Registry
	Metrics  *reconcile.Metrics
}

// HarnessConfig configures a Harness.
type HarnessConfig struct {
	Hydrate bool
	RootTag string
	Logger  *slog.Logger
	Matcher reconcile.ChildMatcher
}

// HarnessOption configures a Harness.
type HarnessOption func(*HarnessConfig)

// WithHydrate makes Mount adopt content already in the document.
func WithHydrate() HarnessOption {
	return func(c *HarnessConfig) {
		c.Hydrate = true
	}
}

// WithLogger routes runtime logs to l. By default logs are discarded.
func WithLogger(l *slog.Logger) HarnessOption {
	return func(c *HarnessConfig) {
		c.Logger = l
	}
}

// WithMatcher sets the child matcher.
func WithMatcher(m reconcile.ChildMatcher) HarnessOption {
	return func(c *HarnessConfig) {
		c.Matcher = m
	}
}

// NewHarness creates a harness with an empty document.
func NewHarness(t testing.TB, opts ...HarnessOption) *Harness {
	t.Helper()
	cfg := HarnessConfig{
		RootTag: "body",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := canvas.NewDocument(cfg.RootTag)
	rec := canvas.NewRecorder()
	tap := canvas.NewTap(doc, rec)
	loop := host.NewLoop()
	reg := prometheus.NewRegistry()
	metrics := reconcile.NewMetrics(reconcile.WithRegistry(reg))

	return &Harness{
		t:        t,
		Doc:      doc,
		Tap:      tap,
		Recorder: rec,
		Loop:     loop,
		Runtime: host.New(tap, loop, host.Options{
			Hydrate: cfg.Hydrate,
			Matcher: cfg.Matcher,
			Metrics: metrics,
			Logger:  cfg.Logger,
		}),
		Registry: reg,
		Metrics:  metrics,
	}
}

// Root returns the document root handle.
func (h *Harness) Root() canvas.Handle {
	return h.Doc.Root()
}

// Mount mounts comp under the document root and fails the test on error.
// Deferred work is left pending until Flush.
func (h *Harness) Mount(comp vdom.Component, props vdom.Props) *vdom.Node {
	h.t.Helper()
	n, err := h.Runtime.Mount(context.Background(), comp, props, h.Root())
	if err != nil {
		h.t.Fatalf("Mount() error = %v", err)
	}
	return n
}

// Update returns an update closure that fails the test on error.
func (h *Harness) Update(comp vdom.Component, initial *vdom.Node) func(partial vdom.Props, args ...any) *vdom.Node {
	update := h.Runtime.Update(comp, initial)
	return func(partial vdom.Props, args ...any) *vdom.Node {
		h.t.Helper()
		n, err := update(partial, args...)
		if err != nil {
			h.t.Fatalf("update error = %v", err)
		}
		return n
	}
}

// Flush runs all pending deferred work and returns the number of tasks run.
func (h *Harness) Flush() int {
	return h.Loop.RunPending()
}

// Dispatch fires event on the handle of n.
func (h *Harness) Dispatch(n *vdom.Node, event string, data map[string]any) int {
	h.t.Helper()
	if n == nil || n.Handle == nil {
		h.t.Fatalf("Dispatch(%q) on an unmounted node", event)
	}
	count, err := h.Doc.Dispatch(n.Handle, event, data)
	if err != nil {
		h.t.Fatalf("Dispatch(%q) error = %v", event, err)
	}
	return count
}

// Click fires a click event on n.
func (h *Harness) Click(n *vdom.Node) int {
	h.t.Helper()
	return h.Dispatch(n, "click", nil)
}

// HTML returns the serialized content of the document root.
func (h *Harness) HTML() string {
	return h.Doc.InnerHTML(h.Root())
}

// ExpectHTML asserts the serialized content of the document root.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("html = %q, want %q", got, want)
	}
}

// ExpectOps asserts how many adapter calls of the given kinds were made
// since the last Reset, or in total when no kinds are given.
func (h *Harness) ExpectOps(want int, kinds ...canvas.OpKind) {
	h.t.Helper()
	if got := h.Recorder.Count(kinds...); got != want {
		h.t.Errorf("ops %v = %d, want %d: %+v", kinds, got, want, h.Recorder.Ops())
	}
}

// Reset forgets recorded adapter calls.
func (h *Harness) Reset() {
	h.Recorder.Reset()
}
