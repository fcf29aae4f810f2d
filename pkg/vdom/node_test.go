package vdom

import "testing"

func TestNodeWalkAndCount(t *testing.T) {
	tree := Div(nil,
		Span(nil, "a"),
		Ul(nil, Li(nil, "1"), Li(nil, "2")),
	)

	var kinds []string
	tree.Walk(func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != "ul"
	})
	want := []string{"div", "span", TextKind, "ul"}
	if len(kinds) != len(want) {
		t.Fatalf("Walk visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, kinds[i], want[i])
		}
	}

	if got := tree.Count(); got != 8 {
		t.Errorf("Count() = %d, want 8", got)
	}
	var nilNode *Node
	if nilNode.Count() != 0 {
		t.Error("nil Count should be 0")
	}
}

func TestNodeClone(t *testing.T) {
	orig := Div(Props{"id": "x"}, "text")
	orig.Generation = 3
	orig.Handle = "h"
	orig.OnMount = func() {}

	c := orig.Clone()
	if c == orig || c.Children[0] == orig.Children[0] {
		t.Error("Clone must copy nodes")
	}
	if c.Generation != 0 || c.Handle != nil {
		t.Error("Clone must be detached")
	}
	if c.OnMount == nil {
		t.Error("Clone keeps hooks")
	}
	c.Props["id"] = "y"
	if orig.Props["id"] != "x" {
		t.Error("Clone must copy props")
	}
}

func TestNodeMounted(t *testing.T) {
	n := Div(nil)
	if n.Mounted() {
		t.Error("fresh node is not mounted")
	}
	n.Generation, n.Handle = 1, "h"
	if !n.Mounted() {
		t.Error("node with handle and generation 1 is mounted")
	}
}
