// Package vtest provides testing helpers for retain components.
//
// A Harness wires an in-memory canvas.Document, a canvas.Tap recording every
// adapter call, a manually driven host.Loop and a host.Runtime:
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.NewHarness(t)
//	    root := h.Mount(Counter, vdom.Props{"count": 1})
//	    h.Flush()
//	    h.ExpectHTML(`<button>1</button>`)
//
//	    h.Click(root)
//	    h.Flush()
//	    h.ExpectHTML(`<button>2</button>`)
//	}
//
// Deferred work only runs when Flush is called, so tests can observe the
// canvas between a render pass and its drain.
//
// # Render Assertions
//
// The string helpers render a node without a canvas:
//
//	vtest.ExpectContains(t, node, "Welcome")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
package vtest
