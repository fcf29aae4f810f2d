package reconcile

import (
	"strings"

	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

// hydratable is implemented by adapters that wrap a Hydrator and can tell
// whether the wrapped canvas actually supports it.
type hydratable interface {
	CanHydrate() bool
}

// Hydrate builds a shadow tree for the content already under root, so that
// the first Render patches it in place instead of recreating it.
//
// Shadow nodes have Generation 0: the first patch brings them to 1, which
// queues their OnMount hooks and attaches their listeners. Whitespace-only
// text is skipped. Only the first remaining child of root is hydrated; nil
// is returned when root has none.
func (e *Engine) Hydrate(root canvas.Handle) (*vdom.Node, error) {
	hy, ok := e.adapter.(canvas.Hydrator)
	if !ok {
		return nil, errors.New("E140")
	}
	if c, ok := e.adapter.(hydratable); ok && !c.CanHydrate() {
		return nil, errors.New("E140")
	}

	for _, h := range hy.Children(root) {
		d := hy.Describe(h)
		if blank(d) {
			continue
		}
		n := shadow(hy, h, d)
		e.logger.Debug("hydrated", "kind", n.Kind, "nodes", n.Count())
		return n, nil
	}
	return nil, nil
}

func shadow(hy canvas.Hydrator, h canvas.Handle, d canvas.Description) *vdom.Node {
	if d.Kind == canvas.TextKind {
		return &vdom.Node{
			Kind:     vdom.TextKind,
			Props:    vdom.Props{vdom.ValueKey: d.Text},
			Children: []*vdom.Node{},
			Handle:   h,
		}
	}

	props := make(vdom.Props, len(d.Attributes))
	for k, v := range d.Attributes {
		props[k] = v
	}
	n := &vdom.Node{
		Kind:     d.Kind,
		Props:    props,
		Children: []*vdom.Node{},
		Handle:   h,
	}
	for _, ch := range hy.Children(h) {
		cd := hy.Describe(ch)
		if blank(cd) {
			continue
		}
		n.Children = append(n.Children, shadow(hy, ch, cd))
	}
	return n
}

func blank(d canvas.Description) bool {
	return d.Kind == canvas.TextKind && strings.TrimSpace(d.Text) == ""
}
