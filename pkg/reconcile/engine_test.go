package reconcile

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

type fixture struct {
	doc    *canvas.Document
	tap    *canvas.Tap
	rec    *canvas.Recorder
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := canvas.NewDocument("body")
	rec := canvas.NewRecorder()
	tap := canvas.NewTap(doc, rec)
	return &fixture{doc: doc, tap: tap, rec: rec, engine: New(tap, Options{})}
}

// render runs one pass over the document root and drains its queue.
func (f *fixture) render(t *testing.T, old, next *vdom.Node) DrainStats {
	t.Helper()
	q, err := f.engine.Render(old, next, f.doc.Root(), nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return f.engine.Drain(q)
}

func (f *fixture) html() string {
	return f.doc.InnerHTML(f.doc.Root())
}

func TestRenderMountsTree(t *testing.T) {
	f := newFixture(t)
	tree := vdom.Build("div", vdom.Props{"id": "a"}, "hello")

	f.render(t, nil, tree)

	if got, want := f.html(), `<div id="a">hello</div>`; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
	if tree.Generation != 1 || tree.Handle == nil {
		t.Errorf("root generation = %d, handle = %v", tree.Generation, tree.Handle)
	}
	if c := tree.Children[0]; c.Generation != 1 || c.Handle == nil {
		t.Errorf("text generation = %d, handle = %v", c.Generation, c.Handle)
	}
	// Text is created holding its value; no setText is needed.
	if got := f.rec.Count(canvas.OpSetText); got != 0 {
		t.Errorf("setText ops = %d, want 0", got)
	}
}

func TestRenderIdenticalTreeIsNoOp(t *testing.T) {
	f := newFixture(t)
	build := func() *vdom.Node {
		return vdom.Build("div", vdom.Props{"id": "a", "class": "x", "onClick": func() {}},
			vdom.Build("span", nil, 1),
			vdom.Build("input", vdom.Props{"disabled": true}),
		)
	}
	first := build()
	f.render(t, nil, first)
	f.rec.Reset()

	second := build()
	stats := f.render(t, first, second)

	if got := f.rec.Count(); got != 0 {
		t.Errorf("adapter calls on identical render = %d, want 0: %+v", got, f.rec.Ops())
	}
	if stats.Failed != 0 {
		t.Errorf("failed tasks = %d", stats.Failed)
	}
	if second.Handle != first.Handle {
		t.Error("patch should reuse the handle")
	}
}

func TestRenderPatchesText(t *testing.T) {
	f := newFixture(t)
	old := vdom.Build("span", nil, 1)
	f.render(t, nil, old)
	f.rec.Reset()

	next := vdom.Build("span", nil, 2)
	f.render(t, old, next)

	ops := f.rec.Ops()
	if len(ops) != 1 || ops[0].Kind != canvas.OpSetText || ops[0].Value != "2" {
		t.Fatalf("ops = %+v, want a single setText 2", ops)
	}
	if got := f.html(); got != "<span>2</span>" {
		t.Errorf("html = %q", got)
	}
	if next.Generation != 2 || next.Children[0].Generation != 2 {
		t.Errorf("generations = %d/%d, want 2/2", next.Generation, next.Children[0].Generation)
	}
}

func TestRenderReplacesOnKindChange(t *testing.T) {
	f := newFixture(t)
	var unmounted, mounted int

	old := vdom.Build("a", nil, "x")
	old.OnUnmount = func() { unmounted++ }
	f.render(t, nil, old)
	f.rec.Reset()

	next := vdom.Build("b", nil, "x")
	next.OnMount = func() { mounted++ }
	f.render(t, old, next)

	if got := f.html(); got != "<b>x</b>" {
		t.Errorf("html = %q", got)
	}
	if f.rec.Count(canvas.OpReplace) != 1 {
		t.Errorf("ops = %+v, want one replace", f.rec.Ops())
	}
	if next.Generation != 1 || next.Handle == old.Handle {
		t.Errorf("replaced node generation = %d, shares handle = %v", next.Generation, next.Handle == old.Handle)
	}
	if unmounted != 1 || mounted != 1 {
		t.Errorf("unmounted = %d, mounted = %d, want 1/1", unmounted, mounted)
	}
}

func TestGenerationIncreasesOnEveryPatch(t *testing.T) {
	f := newFixture(t)
	prev := vdom.Build("div", nil, "v0")
	f.render(t, nil, prev)

	for i := 1; i <= 4; i++ {
		next := vdom.Build("div", nil, vdom.Textf("v%d", i))
		f.render(t, prev, next)
		if next.Generation != prev.Generation+1 {
			t.Fatalf("pass %d: generation = %d, want %d", i, next.Generation, prev.Generation+1)
		}
		prev = next
	}
	if prev.Generation != 5 {
		t.Errorf("final generation = %d, want 5", prev.Generation)
	}
}

func TestHooksRunExactlyOnce(t *testing.T) {
	f := newFixture(t)
	var mounts, updates, unmounts int
	build := func(v int) *vdom.Node {
		n := vdom.Build("div", nil, v)
		n.OnMount = func() { mounts++ }
		n.OnUpdate = func() { updates++ }
		n.OnUnmount = func() { unmounts++ }
		return vdom.Build("section", nil, n)
	}

	prev := build(0)
	f.render(t, nil, prev)
	for i := 1; i <= 3; i++ {
		next := build(i)
		f.render(t, prev, next)
		prev = next
	}
	f.render(t, prev, vdom.Build("section", nil))

	if mounts != 1 || updates != 3 || unmounts != 1 {
		t.Errorf("mounts/updates/unmounts = %d/%d/%d, want 1/3/1", mounts, updates, unmounts)
	}
}

func TestOnUpdateRunsBeforeAttributes(t *testing.T) {
	f := newFixture(t)
	old := vdom.Build("div", vdom.Props{"id": "a"})
	f.render(t, nil, old)

	var seen string
	next := vdom.Build("div", vdom.Props{"id": "b"})
	next.OnUpdate = func() {
		seen, _ = next.Handle.(*canvas.Element).Attr("id")
	}
	q, err := f.engine.Render(old, next, f.doc.Root(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if seen != "a" {
		t.Errorf("OnUpdate saw id = %q, want the previous value", seen)
	}
	if q.Len() != 0 {
		t.Errorf("queue kinds = %v, want none", q.Kinds())
	}
}

func TestDiscardQueuesEveryUnmount(t *testing.T) {
	f := newFixture(t)
	var order []string
	hook := func(name string, n *vdom.Node) *vdom.Node {
		n.OnUnmount = func() { order = append(order, name) }
		return n
	}

	old := vdom.Build("div", nil,
		hook("list", vdom.Build("ul", vdom.Props{"onClick": func() {}},
			hook("first", vdom.Build("li", nil, "a")),
			hook("second", vdom.Build("li", vdom.Props{"onClick": func() {}}, "b")),
		)),
	)
	f.render(t, nil, old)
	if got := f.engine.Bindings(); got != 2 {
		t.Fatalf("bindings = %d, want 2", got)
	}

	f.render(t, old, vdom.Build("div", nil))

	want := []string{"list", "first", "second"}
	if len(order) != len(want) {
		t.Fatalf("unmount order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("unmount order = %v, want %v", order, want)
			break
		}
	}
	if got := f.engine.Bindings(); got != 0 {
		t.Errorf("bindings after discard = %d, want 0", got)
	}
	if got := f.html(); got != "<div></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestRenderAttributes(t *testing.T) {
	f := newFixture(t)
	old := vdom.Build("input", vdom.Props{
		"id":       "a",
		"class":    "x",
		"disabled": true,
		"title":    "t",
	})
	f.render(t, nil, old)
	f.rec.Reset()

	next := vdom.Build("input", vdom.Props{
		"id":       "a",
		"class":    "y",
		"disabled": false,
		"value":    1,
		"onInput":  func(string) {},
	})
	f.render(t, old, next)

	el := next.Handle.(*canvas.Element)
	if v, _ := el.Attr("class"); v != "y" {
		t.Errorf("class = %q", v)
	}
	if v, _ := el.Attr("value"); v != "1" {
		t.Errorf("value = %q", v)
	}
	for _, name := range []string{"disabled", "title", "onInput", "oninput"} {
		if _, ok := el.Attr(name); ok {
			t.Errorf("attribute %q should be absent", name)
		}
	}
	if got := f.rec.Count(canvas.OpSetAttribute); got != 2 {
		t.Errorf("setAttribute ops = %d, want 2", got)
	}
	if got := f.rec.Count(canvas.OpRemoveAttribute); got != 2 {
		t.Errorf("removeAttribute ops = %d, want 2", got)
	}

	// Attribute writes happen in key order.
	var names []string
	for _, op := range f.rec.Ops() {
		if op.Kind == canvas.OpSetAttribute || op.Kind == canvas.OpRemoveAttribute {
			names = append(names, op.Name)
		}
	}
	want := []string{"class", "disabled", "title", "value"}
	for i := range want {
		if i >= len(names) || names[i] != want[i] {
			t.Fatalf("attribute order = %v, want %v", names, want)
		}
	}
}

func TestRenderAbortsOnCanvasError(t *testing.T) {
	doc := canvas.NewDocument("body")
	boom := stderrors.New("boom")
	e := New(failingAdapter{Adapter: doc, err: boom}, Options{})

	_, err := e.Render(nil, vdom.Build("div", vdom.Props{"id": "a"}), doc.Root(), nil)
	if !errors.HasCode(err, "E120") {
		t.Fatalf("err = %v, want E120", err)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("err should wrap the adapter error: %v", err)
	}
	var re *errors.RetainError
	if stderrors.As(err, &re) && re.Op != "setAttribute" {
		t.Errorf("op = %q, want setAttribute", re.Op)
	}
}

func TestReconcileSettlesOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		old   func() *vdom.Node
		next  func() *vdom.Node
		check func(t *testing.T, old, settled *vdom.Node)
	}{
		{
			name: "mount keeps the bare handle",
			next: func() *vdom.Node {
				return vdom.Build("div", vdom.Props{"id": "a"}, vdom.Build("span", nil))
			},
			check: func(t *testing.T, _, settled *vdom.Node) {
				if settled == nil || settled.Handle == nil {
					t.Fatalf("settled = %v, want the inserted div", settled)
				}
				if len(settled.Props) != 0 || len(settled.Children) != 0 {
					t.Errorf("settled = props %v, %d children; want neither", settled.Props, len(settled.Children))
				}
			},
		},
		{
			name: "patch keeps unvisited old children",
			old: func() *vdom.Node {
				return vdom.Build("section", nil, vdom.Build("p", nil), vdom.Build("em", nil))
			},
			next: func() *vdom.Node {
				return vdom.Build("section", nil, vdom.Build("p", vdom.Props{"id": "x"}), vdom.Build("b", nil))
			},
			check: func(t *testing.T, old, settled *vdom.Node) {
				if settled == nil || len(settled.Children) != 2 {
					t.Fatalf("settled = %v, want two children", settled)
				}
				p := settled.Children[0]
				if p.Handle != old.Children[0].Handle || p.Props["id"] != nil {
					t.Errorf("p = %v, want the old handle without the failed id", p.Props)
				}
				if settled.Children[1] != old.Children[1] {
					t.Error("second child should be the old em still on the canvas")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := canvas.NewDocument("body")
			var old *vdom.Node
			if tt.old != nil {
				old = tt.old()
				if _, err := New(doc, Options{}).Render(nil, old, doc.Root(), nil); err != nil {
					t.Fatal(err)
				}
			}

			e := New(failingAdapter{Adapter: doc, err: stderrors.New("boom")}, Options{})
			settled, q, err := e.Reconcile(old, tt.next(), doc.Root(), nil)
			if !errors.HasCode(err, "E120") || q == nil {
				t.Fatalf("Reconcile() = %v, %v; want a queue and E120", q, err)
			}
			tt.check(t, old, settled)
		})
	}
}

type failingAdapter struct {
	canvas.Adapter
	err error
}

func (a failingAdapter) SetAttribute(canvas.Handle, string, string) error {
	return a.err
}
