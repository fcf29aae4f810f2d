package host

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/vdom"
)

// UpdateFunc re-renders a component with partial props merged over the
// props it was last rendered with. Extra args are passed to the component.
type UpdateFunc func(partial vdom.Props, args ...any) (*vdom.Node, error)

// cell holds the node an UpdateFunc re-renders. The pointer never changes:
// each pass merges the settled node into it, so parents holding the pointer
// observe the update.
type cell struct {
	node    *vdom.Node
	version uint64
}

// Update returns a closure re-rendering initial, a node produced by comp and
// already mounted. The returned node is the cell itself: the same pointer on
// every call, holding the newest render.
//
// A failed pass returns the error. Its deferred work is still scheduled and
// the cell takes the settled tree, so a later call patches what the canvas
// actually holds.
func (r *Runtime) Update(comp vdom.Component, initial *vdom.Node) UpdateFunc {
	c := &cell{node: initial}
	return func(partial vdom.Props, args ...any) (*vdom.Node, error) {
		return r.update(c, comp, partial, args)
	}
}

func (r *Runtime) update(c *cell, comp vdom.Component, partial vdom.Props, args []any) (*vdom.Node, error) {
	ctx, span := r.tracer.Start(context.Background(), "retain.update",
		trace.WithAttributes(attribute.Int64("retain.cell.version", int64(c.version))),
	)
	defer span.End()

	cur := c.node
	if !cur.Mounted() {
		return nil, fail(span, errors.New("E103").WithOp("update"))
	}
	parent, err := r.engine.Adapter().Parent(cur.Handle)
	if err != nil {
		return nil, fail(span, errors.New("E121").WithOp("update").Wrap(err))
	}

	props := vdom.WithChildren(cur.Props, cur.Children).Merge(partial)
	next := vdom.Resolve(comp, props, args...)
	if next == nil {
		return nil, fail(span, errors.New("E104").WithOp("update"))
	}
	span.SetAttributes(attribute.String("retain.kind", next.Kind))

	settled, q, err := r.engine.Reconcile(cur, next, parent, nil)
	if settled != nil && settled != cur {
		*cur = *settled
		c.version++
	}
	r.schedule(ctx, q)
	if err != nil {
		r.logger.Debug("update failed", "kind", next.Kind, "error", err)
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int("retain.generation", cur.Generation))
	span.SetStatus(codes.Ok, "")
	return cur, nil
}
