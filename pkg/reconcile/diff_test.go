package reconcile

import (
	"testing"

	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

func TestDiff(t *testing.T) {
	doc := canvas.NewDocument("body")
	root := doc.Root()

	mounted := func(kind string) *vdom.Node {
		n := vdom.Build(kind, nil)
		if _, err := Diff(doc, nil, n, root); err != nil {
			t.Fatal(err)
		}
		return n
	}

	t.Run("mount", func(t *testing.T) {
		n := vdom.Build("div", nil)
		res, err := Diff(doc, nil, n, root)
		if err != nil {
			t.Fatal(err)
		}
		if res.Op != OpMount || res.Node != n || res.Discarded != nil {
			t.Errorf("result = %+v", res)
		}
		if n.Generation != 1 || n.Handle == nil {
			t.Errorf("generation = %d, handle = %v", n.Generation, n.Handle)
		}
	})

	t.Run("remove", func(t *testing.T) {
		old := mounted("p")
		res, err := Diff(doc, old, nil, root)
		if err != nil {
			t.Fatal(err)
		}
		if res.Op != OpRemove || res.Node != nil || res.Discarded != old {
			t.Errorf("result = %+v", res)
		}
		if _, err := doc.Parent(old.Handle); err == nil {
			t.Error("removed handle should be detached")
		}
	})

	t.Run("replace", func(t *testing.T) {
		old := mounted("a")
		old.Generation = 7
		next := vdom.Build("b", nil)
		res, err := Diff(doc, old, next, root)
		if err != nil {
			t.Fatal(err)
		}
		if res.Op != OpReplace || res.Discarded != old {
			t.Errorf("result = %+v", res)
		}
		if next.Generation != 1 || next.Handle == old.Handle {
			t.Errorf("generation = %d", next.Generation)
		}
	})

	t.Run("patch", func(t *testing.T) {
		old := mounted("span")
		next := vdom.Build("span", nil)
		res, err := Diff(doc, old, next, root)
		if err != nil {
			t.Fatal(err)
		}
		if res.Op != OpPatch || res.Discarded != nil {
			t.Errorf("result = %+v", res)
		}
		if next.Handle != old.Handle || next.Generation != 2 {
			t.Errorf("handle shared = %v, generation = %d", next.Handle == old.Handle, next.Generation)
		}
	})

	t.Run("text mounts with value", func(t *testing.T) {
		n := vdom.Text(42)
		if _, err := Diff(doc, nil, n, root); err != nil {
			t.Fatal(err)
		}
		if el := n.Handle.(*canvas.Element); el.Text() != "42" {
			t.Errorf("text = %q", el.Text())
		}
	})

	t.Run("both absent", func(t *testing.T) {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.HasCode(err, "E100") {
				t.Errorf("recover() = %v, want E100", r)
			}
		}()
		Diff(doc, nil, nil, root)
	})
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpMount, "mount"},
		{OpRemove, "remove"},
		{OpReplace, "replace"},
		{OpPatch, "patch"},
		{Op(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestPositional(t *testing.T) {
	a, b, c := vdom.Text("a"), vdom.Text("b"), vdom.Text("c")

	tests := []struct {
		name      string
		old, next []*vdom.Node
		want      []Pair
	}{
		{"equal", []*vdom.Node{a, b}, []*vdom.Node{b, a}, []Pair{{a, b}, {b, a}}},
		{"grow", []*vdom.Node{a}, []*vdom.Node{b, c}, []Pair{{a, b}, {nil, c}}},
		{"shrink", []*vdom.Node{a, b, c}, []*vdom.Node{c}, []Pair{{a, c}, {b, nil}, {c, nil}}},
		{"empty", nil, nil, []Pair{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Positional.Match(tt.old, tt.next)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCustomMatcher(t *testing.T) {
	doc := canvas.NewDocument("body")
	calls := 0
	e := New(doc, Options{Matcher: ChildMatcherFunc(func(old, next []*vdom.Node) []Pair {
		calls++
		return matchPositional(old, next)
	})})

	if _, err := e.Render(nil, vdom.Build("div", nil, "x"), doc.Root(), nil); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("matcher calls = %d, want 1", calls)
	}
}
