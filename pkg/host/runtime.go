package host

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/reconcile"
	"github.com/vango-dev/retain/pkg/vdom"
)

// DefaultTracerName is the tracer used when Options.TracerName is empty.
const DefaultTracerName = "github.com/vango-dev/retain"

// Options configures a Runtime.
type Options struct {
	// Hydrate makes Mount adopt content already under the root handle.
	Hydrate bool

	Matcher reconcile.ChildMatcher
	Metrics *reconcile.Metrics
	Logger  *slog.Logger

	// TracerName names the OpenTelemetry tracer taken from the global
	// provider.
	TracerName string
}

// Runtime mounts and updates components on one canvas.
type Runtime struct {
	engine  *reconcile.Engine
	sched   Scheduler
	hydrate bool
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a runtime rendering through adapter and deferring work to
// sched.
func New(adapter canvas.Adapter, sched Scheduler, opts Options) *Runtime {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.TracerName == "" {
		opts.TracerName = DefaultTracerName
	}
	return &Runtime{
		engine: reconcile.New(adapter, reconcile.Options{
			Matcher: opts.Matcher,
			Logger:  opts.Logger,
			Metrics: opts.Metrics,
		}),
		sched:   sched,
		hydrate: opts.Hydrate,
		logger:  opts.Logger.With("component", "host"),
		tracer:  otel.Tracer(opts.TracerName),
	}
}

// Engine returns the engine the runtime renders with.
func (r *Runtime) Engine() *reconcile.Engine {
	return r.engine
}

// Mount renders comp under root and returns the root node. With hydration
// enabled, the first non-blank child of root is patched in place instead of
// a fresh subtree being inserted.
func (r *Runtime) Mount(ctx context.Context, comp vdom.Component, props vdom.Props, root canvas.Handle) (*vdom.Node, error) {
	ctx, span := r.tracer.Start(ctx, "retain.mount",
		trace.WithAttributes(attribute.Bool("retain.hydrate", r.hydrate)),
	)
	defer span.End()

	var existing *vdom.Node
	if r.hydrate {
		var err error
		if existing, err = r.engine.Hydrate(root); err != nil {
			return nil, fail(span, err)
		}
	}

	node := vdom.Resolve(comp, props)
	if node == nil {
		return nil, fail(span, errors.New("E104").WithOp("mount"))
	}
	span.SetAttributes(attribute.String("retain.kind", node.Kind))

	q, err := r.engine.Render(existing, node, root, nil)
	r.schedule(ctx, q)
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("retain.nodes", node.Count()))
	span.SetStatus(codes.Ok, "")
	r.logger.Debug("mounted", "kind", node.Kind, "hydrated", existing != nil, "tasks", q.Len())
	return node, nil
}

// schedule hands the deferred work of one pass to the scheduler.
func (r *Runtime) schedule(ctx context.Context, q *reconcile.Queue) {
	if q.Len() == 0 {
		return
	}
	link := trace.LinkFromContext(ctx)
	r.sched.Defer(func() {
		_, span := r.tracer.Start(context.Background(), "retain.drain", trace.WithLinks(link))
		defer span.End()
		stats := r.engine.Drain(q)
		span.SetAttributes(
			attribute.Int("retain.tasks.ran", stats.Ran),
			attribute.Int("retain.tasks.skipped", stats.Skipped),
			attribute.Int("retain.tasks.failed", stats.Failed),
		)
	})
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
