package vdom

import (
	"fmt"

	"github.com/vango-dev/retain/internal/errors"
)

// MaxChainDepth bounds how many times a component may hand over to another
// component before Build gives up.
const MaxChainDepth = 64

// Component renders props into a Result. Extra args are forwarded by update
// functions and lifecycle decorators.
type Component func(props Props, args ...any) Result

// Result is what a Component returns: either a Node, or the next Component
// to invoke with the same props.
type Result struct {
	node *Node
	next Component
}

// Emit returns a Result holding n. A nil n renders nothing.
func Emit(n *Node) Result {
	return Result{node: n}
}

// Chain returns a Result that continues with c.
func Chain(c Component) Result {
	return Result{next: c}
}

// Node returns the emitted node, if any.
func (r Result) Node() *Node { return r.node }

// Next returns the chained component, if any.
func (r Result) Next() Component { return r.next }

// IsChain reports whether the result hands over to another component.
func (r Result) IsChain() bool { return r.next != nil }

// Func creates a component from a plain render function.
func Func(render func(Props) *Node) Component {
	return func(props Props, _ ...any) Result {
		return Emit(render(props))
	}
}

// Build creates a Node. kind is a tag name or a Component; anything else
// panics with E101.
//
// For tags, the node gets a copy of props and the flattened children. For
// components, the component is invoked with props plus the flattened
// children under the "children" key, and chained components are followed
// until one emits a node.
func Build(kind any, props Props, children ...any) *Node {
	flat := Flatten(children)

	switch k := kind.(type) {
	case string:
		return &Node{
			Kind:     k,
			Props:    props.Clone(),
			Children: flat,
		}
	case Component:
		return Resolve(k, WithChildren(props, flat))
	case func(Props, ...any) Result:
		return Resolve(Component(k), WithChildren(props, flat))
	default:
		panic(errors.New("E101").WithDetail(fmt.Sprintf("Build got kind of type %T.", kind)))
	}
}

// Resolve invokes c with props and args and follows chained components.
func Resolve(c Component, props Props, args ...any) *Node {
	for depth := 0; ; depth++ {
		if depth >= MaxChainDepth {
			panic(errors.New("E102"))
		}
		r := c(props.Clone(), args...)
		if !r.IsChain() {
			return r.node
		}
		c = r.next
	}
}

// WithChildren returns a copy of props with children stored under the
// reserved "children" key.
func WithChildren(props Props, children []*Node) Props {
	out := props.Clone()
	if children == nil {
		children = []*Node{}
	}
	out[ChildrenKey] = children
	return out
}

// Text creates a text node holding a primitive value.
func Text(value any) *Node {
	return &Node{
		Kind:     TextKind,
		Props:    Props{ValueKey: value},
		Children: []*Node{},
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Flatten normalizes a child list: slices are spread, nil entries dropped,
// components built with no props, and primitives wrapped as text nodes.
func Flatten(children []any) []*Node {
	out := make([]*Node, 0, len(children))
	for _, child := range children {
		out = appendChild(out, child)
	}
	return out
}

func appendChild(out []*Node, child any) []*Node {
	switch v := child.(type) {
	case nil:
		return out
	case *Node:
		if v != nil {
			out = append(out, v)
		}
	case []*Node:
		for _, c := range v {
			if c != nil {
				out = append(out, c)
			}
		}
	case []any:
		for _, c := range v {
			out = appendChild(out, c)
		}
	case Component:
		if n := Build(v, nil); n != nil {
			out = append(out, n)
		}
	case func(Props, ...any) Result:
		if n := Build(Component(v), nil); n != nil {
			out = append(out, n)
		}
	default:
		out = append(out, Text(v))
	}
	return out
}
