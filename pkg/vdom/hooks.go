package vdom

// HookFunc is a lifecycle callback. It receives the node the hook was
// stamped on and the extra args the component was invoked with.
type HookFunc func(n *Node, args ...any)

// Decorator wraps a Component.
type Decorator func(Component) Component

// OnMount returns a decorator stamping fn as the OnMount hook of every node
// the component produces. The engine runs it once, after the render pass
// that first attached the node.
func OnMount(fn HookFunc) Decorator {
	return stamp(fn, func(n *Node, thunk func()) { n.OnMount = thunk })
}

// OnUnmount returns a decorator stamping fn as the OnUnmount hook. The engine
// runs it once, after the pass that discarded the node.
func OnUnmount(fn HookFunc) Decorator {
	return stamp(fn, func(n *Node, thunk func()) { n.OnUnmount = thunk })
}

// OnUpdate returns a decorator stamping fn as the OnUpdate hook. The engine
// runs it synchronously on every patch after the first one.
func OnUpdate(fn HookFunc) Decorator {
	return stamp(fn, func(n *Node, thunk func()) { n.OnUpdate = thunk })
}

func stamp(fn HookFunc, set func(*Node, func())) Decorator {
	return func(comp Component) Component {
		return func(props Props, args ...any) Result {
			n := Resolve(comp, props, args...)
			if n == nil || fn == nil {
				return Emit(n)
			}
			set(n, func() { fn(n, args...) })
			return Emit(n)
		}
	}
}

// Compose applies decorators right to left, so Compose(a, b)(c) == a(b(c)).
func Compose(decorators ...Decorator) Decorator {
	return func(comp Component) Component {
		for i := len(decorators) - 1; i >= 0; i-- {
			comp = decorators[i](comp)
		}
		return comp
	}
}
