package reconcile

import (
	"reflect"
	"sort"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

// binding is the engine's record of the listeners attached to one handle.
type binding struct {
	handle   canvas.Handle
	version  uint64
	released bool

	// proxies are attached to the canvas, one per event name. Each proxy
	// looks up handlers[event] when fired.
	proxies  map[string]*canvas.Listener
	handlers map[string]any
}

func (b *binding) dispatch(event string, e canvas.Event) {
	if b.released {
		return
	}
	invoke(b.handlers[event], e)
}

// invoke calls a handler with the shapes handlers are written in.
func invoke(handler any, e canvas.Event) {
	switch fn := handler.(type) {
	case nil:
	case func():
		fn()
	case func(canvas.Event):
		fn(e)
	case func(any):
		fn(e)
	case func(string):
		if v, ok := e.Data["value"].(string); ok {
			fn(v)
			return
		}
		fn("")
	default:
		v := reflect.ValueOf(handler)
		if v.Kind() == reflect.Func && v.Type().NumIn() == 0 {
			v.Call(nil)
		}
	}
}

// listenersOf returns the event bindings in props keyed by event name.
// When several keys name the same event the last in key order wins.
func listenersOf(props vdom.Props) map[string]any {
	var out map[string]any
	for _, key := range sortedKeys(props) {
		v := props[key]
		if !vdom.IsEventKey(key, v) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[vdom.EventName(key)] = v
	}
	return out
}

// scheduleListeners queues a versioned listener application for next. Any
// application queued earlier for the same handle becomes stale.
func (e *Engine) scheduleListeners(prev, next *vdom.Node, q *Queue) {
	desired := listenersOf(next.Props)
	if len(desired) == 0 && (prev == nil || len(listenersOf(prev.Props)) == 0) {
		if _, ok := e.bindings[next.Handle]; !ok {
			return
		}
	}

	b := e.bindings[next.Handle]
	if b == nil {
		b = &binding{
			handle:   next.Handle,
			proxies:  make(map[string]*canvas.Listener),
			handlers: make(map[string]any),
		}
		e.bindings[next.Handle] = b
		e.metrics.bindingsInc()
	}
	b.version++
	stamp := b.version

	q.Push(Task{
		Kind: TaskListeners,
		Run: func() error {
			return e.applyListeners(b, desired)
		},
		Stale: func() bool {
			return b.released || b.version != stamp
		},
	})
}

// applyListeners brings the canvas listeners of b in line with desired.
// Only changes to the set of event names reach the adapter.
func (e *Engine) applyListeners(b *binding, desired map[string]any) error {
	for _, event := range sortedKeys(b.proxies) {
		if _, ok := desired[event]; ok {
			continue
		}
		if err := e.adapter.RemoveListener(b.handle, event, b.proxies[event]); err != nil {
			return canvasErr("removeListener", err)
		}
		delete(b.proxies, event)
		delete(b.handlers, event)
	}

	for _, event := range sortedKeys(desired) {
		b.handlers[event] = desired[event]
		if _, ok := b.proxies[event]; ok {
			continue
		}
		event := event
		proxy := canvas.NewListener(func(ev canvas.Event) {
			b.dispatch(event, ev)
		})
		if err := e.adapter.AddListener(b.handle, event, proxy); err != nil {
			return canvasErr("addListener", err)
		}
		b.proxies[event] = proxy
	}
	return nil
}

// release forgets the binding of a discarded handle. Pending applications
// for it are skipped at drain time.
func (e *Engine) release(h canvas.Handle) {
	b, ok := e.bindings[h]
	if !ok {
		return
	}
	b.released = true
	delete(e.bindings, h)
	e.metrics.bindingsDec()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
