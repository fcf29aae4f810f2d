package vtest_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
	"github.com/vango-dev/retain/pkg/vtest"
)

func card() *vdom.Node {
	return vdom.Build("div", vdom.Props{"class": "card"},
		vdom.Build("h2", nil, "Welcome"),
		vdom.Build("button", vdom.Props{"disabled": true}, "Go"),
	)
}

func TestRenderAssertions(t *testing.T) {
	n := card()
	vtest.ExpectContains(t, n, "Welcome")
	vtest.ExpectNotContains(t, n, "Login")
	vtest.ExpectElement(t, n, "button")
	vtest.ExpectAttribute(t, n, "class", "card")

	if got := vtest.RenderToString(nil); got != "" {
		t.Errorf("RenderToString(nil) = %q", got)
	}
}

func TestHarnessMountAndFlush(t *testing.T) {
	h := vtest.NewHarness(t)
	mounts := 0
	comp := vdom.OnMount(func(*vdom.Node, ...any) { mounts++ })(vdom.Func(func(vdom.Props) *vdom.Node {
		return card()
	}))

	root := h.Mount(comp, nil)
	h.ExpectHTML(`<div class="card"><h2>Welcome</h2><button disabled>Go</button></div>`)
	h.ExpectOps(5, canvas.OpCreateElement, canvas.OpCreateText)

	if ran := h.Flush(); ran != 1 {
		t.Errorf("Flush() = %d, want 1", ran)
	}
	if mounts != 1 || !root.Mounted() {
		t.Errorf("mounts = %d, mounted = %v", mounts, root.Mounted())
	}
	if n, err := testutil.GatherAndCount(h.Registry, "retain_reconcile_ops_total"); err != nil || n != 1 {
		t.Errorf("ops series = %d, %v; want 1", n, err)
	}
}
