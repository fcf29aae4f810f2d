package vdom

import (
	"github.com/vango-dev/retain/pkg/canvas"
)

// TextKind is the Kind of text nodes. Their value lives under Props["value"].
const TextKind = "Text"

// Reserved prop keys.
const (
	ChildrenKey = "children" // flattened children passed to components
	ValueKey    = "value"    // primitive value of a text node
	KeyKey      = "key"      // never written to the canvas
)

// Props holds attributes and event handlers. Callable values under keys
// starting with "on" are event bindings; everything else is an attribute.
type Props map[string]any

// Hooks are optional lifecycle callbacks stamped onto a Node by decorators.
// A nil field means the node has no such hook.
type Hooks struct {
	OnMount   func()
	OnUnmount func()
	OnUpdate  func()
}

// Node is one position of the view tree.
type Node struct {
	Kind     string  // tag name or TextKind
	Props    Props   // attributes and event bindings
	Children []*Node // never nil for built nodes

	// Generation is 0 before the node is first diffed against a canvas, 1
	// right after mount or replace, and incremented by every in-place patch.
	Generation int

	// Handle is the live canvas element. Set iff Generation >= 1.
	Handle canvas.Handle

	Hooks
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == TextKind
}

// Value returns the primitive value of a text node.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	return n.Props[ValueKey]
}

// Mounted reports whether the node owns a canvas handle.
func (n *Node) Mounted() bool {
	return n != nil && n.Generation >= 1 && n.Handle != nil
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Clone returns a structurally identical, detached copy of the subtree: same
// kinds, props and hooks, Generation 0 and no handles.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:     n.Kind,
		Props:    n.Props.Clone(),
		Children: make([]*Node, len(n.Children)),
		Hooks:    n.Hooks,
	}
	for i, c := range n.Children {
		out.Children[i] = c.Clone()
	}
	return out
}
