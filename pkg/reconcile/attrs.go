package reconcile

import (
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

// applyAttributes writes the attribute changes between prev and next. Keys
// are visited in sorted order. Values are compared in their canvas string
// form, so 1 and "1" are the same attribute value.
func (e *Engine) applyAttributes(h canvas.Handle, prev, next vdom.Props) error {
	keys := make(map[string]struct{}, len(prev)+len(next))
	for k := range prev {
		keys[k] = struct{}{}
	}
	for k := range next {
		keys[k] = struct{}{}
	}

	for _, key := range sortedKeys(keys) {
		pv, had := attrValue(prev, key)
		nv, has := attrValue(next, key)
		switch {
		case has && (!had || pv != nv):
			if err := e.adapter.SetAttribute(h, key, nv); err != nil {
				return canvasErr("setAttribute", err)
			}
		case !has && had:
			if err := e.adapter.RemoveAttribute(h, key); err != nil {
				return canvasErr("removeAttribute", err)
			}
		}
	}
	return nil
}

// attrValue returns the canvas form of props[key] and whether the attribute
// is present on the canvas.
func attrValue(props vdom.Props, key string) (string, bool) {
	v, ok := props[key]
	if !ok || !vdom.IsAttributeKey(key, v) {
		return "", false
	}
	return vdom.AttrString(key, v)
}
