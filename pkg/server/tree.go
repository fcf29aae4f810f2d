package server

import (
	"github.com/vango-dev/retain/pkg/canvas"
)

// TreeNode is the wire form of a canvas subtree. IDs are the Tap's handle
// ids, the same ones ops refer to.
type TreeNode struct {
	ID       uint64            `json:"id"`
	Kind     string            `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Events   []string          `json:"events,omitempty"`
	Children []TreeNode        `json:"children,omitempty"`
}

// eventLister is implemented by hosts that can report attached listeners.
type eventLister interface {
	Events(h canvas.Handle) []string
}

// BuildTree describes h and its descendants. It must run on the loop.
func BuildTree(tap *canvas.Tap, h canvas.Handle) TreeNode {
	events, _ := tap.Inner().(eventLister)
	return buildTree(tap, events, h)
}

func buildTree(tap *canvas.Tap, events eventLister, h canvas.Handle) TreeNode {
	d := tap.Describe(h)
	n := TreeNode{
		ID:    tap.ID(h),
		Kind:  d.Kind,
		Text:  d.Text,
		Attrs: d.Attributes,
	}
	if len(n.Attrs) == 0 {
		n.Attrs = nil
	}
	if events != nil && d.Kind != canvas.TextKind {
		n.Events = events.Events(h)
	}
	for _, c := range tap.Children(h) {
		n.Children = append(n.Children, buildTree(tap, events, c))
	}
	return n
}
