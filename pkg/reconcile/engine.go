package reconcile

import (
	"log/slog"
	"time"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Matcher pairs children. Default: Positional.
	Matcher ChildMatcher

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics
}

// Engine renders node trees onto one canvas. It is not safe for concurrent
// use; run all passes and drains for an engine on one loop.
type Engine struct {
	adapter  canvas.Adapter
	matcher  ChildMatcher
	logger   *slog.Logger
	metrics  *Metrics
	bindings map[canvas.Handle]*binding
}

// New creates an engine writing through adapter.
func New(adapter canvas.Adapter, opts Options) *Engine {
	if opts.Matcher == nil {
		opts.Matcher = Positional
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		adapter:  adapter,
		matcher:  opts.Matcher,
		logger:   opts.Logger.With("component", "reconcile"),
		metrics:  opts.Metrics,
		bindings: make(map[canvas.Handle]*binding),
	}
}

// Adapter returns the canvas adapter the engine writes through.
func (e *Engine) Adapter() canvas.Adapter {
	return e.adapter
}

// Bindings returns the number of handles with live listener bindings.
func (e *Engine) Bindings() int {
	return len(e.bindings)
}

// Render reconciles next against old under parent. Deferred work is appended
// to q, or to a new queue when q is nil, and the queue is returned.
//
// On error the canvas may be partially updated; the returned queue holds the
// work collected before the failure and should still be drained.
func (e *Engine) Render(old, next *vdom.Node, parent canvas.Handle, q *Queue) (*Queue, error) {
	_, q, err := e.Reconcile(old, next, parent, q)
	return q, err
}

// Reconcile is Render that also returns the settled node: the tree that
// matches the canvas once the pass stops. It is next on success. After a
// failure it mixes nodes of next that reached the canvas with the old nodes
// still attached, and it is nil when nothing occupies the position.
func (e *Engine) Reconcile(old, next *vdom.Node, parent canvas.Handle, q *Queue) (*vdom.Node, *Queue, error) {
	if q == nil {
		q = NewQueue()
	}
	start := time.Now()
	settled, err := e.render(old, next, parent, q)
	e.metrics.observeRender(time.Since(start), err)
	if err != nil {
		e.logger.Debug("render failed", "error", err)
	}
	return settled, q, err
}

// Drain runs the deferred work in q and logs failed tasks.
func (e *Engine) Drain(q *Queue) DrainStats {
	stats := q.Drain()
	e.metrics.observeDrain(stats)
	for _, err := range stats.Errors {
		e.logger.Error("deferred task failed", "error", err)
	}
	if stats.Skipped > 0 {
		e.logger.Debug("skipped stale tasks", "count", stats.Skipped)
	}
	return stats
}

func (e *Engine) render(old, next *vdom.Node, parent canvas.Handle, q *Queue) (*vdom.Node, error) {
	res, err := Diff(e.adapter, old, next, parent)
	if err != nil {
		return old, err
	}
	e.metrics.observeOp(res.Op)

	if res.Discarded != nil {
		e.discard(res.Discarded, q)
	}
	if res.Op == OpRemove {
		return nil, nil
	}

	n := res.Node
	base := old
	if res.Op != OpPatch {
		// Freshly created handles carry nothing yet.
		base = &vdom.Node{Kind: n.Kind, Children: []*vdom.Node{}}
	}

	if n.Generation > 1 && n.OnUpdate != nil {
		n.OnUpdate()
	}
	if n.Generation == 1 && n.OnMount != nil && !n.IsText() {
		q.Push(hookTask(TaskMount, n.OnMount))
	}

	if n.IsText() {
		if res.Op == OpPatch {
			prev, cur := vdom.TextString(base.Value()), vdom.TextString(n.Value())
			if prev != cur {
				if err := e.adapter.SetText(n.Handle, cur); err != nil {
					n.Props = base.Props
					return n, canvasErr("setText", err)
				}
			}
		}
		return n, nil
	}

	if !vdom.AttrsEqual(base.Props, n.Props) {
		if err := e.applyAttributes(n.Handle, base.Props, n.Props); err != nil {
			// The canvas holds a mix of both prop sets; settling on the old
			// one makes the next pass rewrite whatever differs.
			n.Props = base.Props
			n.Children = base.Children
			return n, err
		}
	}
	if len(base.Props) > 0 || len(n.Props) > 0 {
		e.scheduleListeners(base, n, q)
	}

	pairs := e.matcher.Match(base.Children, n.Children)
	children := make([]*vdom.Node, 0, len(pairs))
	for i, p := range pairs {
		c, err := e.render(p.Old, p.Next, n.Handle, q)
		if c != nil {
			children = append(children, c)
		}
		if err != nil {
			for _, rest := range pairs[i+1:] {
				if rest.Old != nil {
					children = append(children, rest.Old)
				}
			}
			n.Children = children
			return n, err
		}
	}
	return n, nil
}

// discard tears down a subtree that left the tree: handles are released and
// every OnUnmount hook is queued, parents first.
func (e *Engine) discard(n *vdom.Node, q *Queue) {
	count := 0
	n.Walk(func(d *vdom.Node) bool {
		count++
		if d.Handle != nil {
			e.release(d.Handle)
		}
		if d.OnUnmount != nil {
			q.Push(hookTask(TaskUnmount, d.OnUnmount))
		}
		return true
	})
	e.metrics.observeDiscard(count)
}
