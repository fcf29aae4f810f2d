// Package demo is a small interactive application used by the CLI: a
// counter and a todo list whose handlers re-render through an update
// closure.
package demo

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/host"
	"github.com/vango-dev/retain/pkg/vdom"
)

// App holds the demo state. All methods run on the runtime's loop.
type App struct {
	rt     *host.Runtime
	logger *slog.Logger
	update host.UpdateFunc

	count int
	draft string
	items []string
}

// New creates the demo app.
func New(rt *host.Runtime, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{rt: rt, logger: logger.With("component", "demo")}
}

// Mount renders the app under root.
func (a *App) Mount(ctx context.Context, root canvas.Handle) (*vdom.Node, error) {
	comp := vdom.Compose(
		vdom.OnMount(func(n *vdom.Node, _ ...any) {
			a.logger.Debug("app mounted", "nodes", n.Count())
		}),
	)(vdom.Func(a.render))

	n, err := a.rt.Mount(ctx, comp, nil, root)
	if err != nil {
		return nil, err
	}
	a.update = a.rt.Update(comp, n)
	return n, nil
}

// Count returns the counter value.
func (a *App) Count() int { return a.count }

// Items returns the todo items.
func (a *App) Items() []string { return append([]string(nil), a.items...) }

func (a *App) refresh() {
	if a.update == nil {
		return
	}
	if _, err := a.update(nil); err != nil {
		a.logger.Error("re-render failed", "error", err)
	}
}

func (a *App) increment(delta int) func() {
	return func() {
		a.count += delta
		a.refresh()
	}
}

func (a *App) setDraft(value string) {
	a.draft = value
	a.refresh()
}

func (a *App) add() {
	item := strings.TrimSpace(a.draft)
	if item == "" {
		return
	}
	a.items = append(a.items, item)
	a.draft = ""
	a.refresh()
}

func (a *App) remove(i int) func() {
	return func() {
		if i < 0 || i >= len(a.items) {
			return
		}
		a.items = append(a.items[:i], a.items[i+1:]...)
		a.refresh()
	}
}

func (a *App) render(vdom.Props) *vdom.Node {
	return vdom.Div(vdom.Props{"class": "app"},
		vdom.H1(nil, "retain demo"),
		vdom.Section(vdom.Props{"class": "counter"},
			vdom.Button(vdom.Props{"id": "dec"}.Merge(vdom.On("click", a.increment(-1))), "-"),
			vdom.Span(vdom.Props{"class": "count"}, a.count),
			vdom.Button(vdom.Props{"id": "inc"}.Merge(vdom.On("click", a.increment(1))), "+"),
		),
		vdom.Section(vdom.Props{"class": "todos"},
			vdom.Input(vdom.Props{"id": "draft", "value": a.draft}.Merge(vdom.On("input", a.setDraft))),
			vdom.Button(vdom.Props{"id": "add", "disabled": a.draft == ""}.Merge(vdom.On("click", a.add)), "Add"),
			vdom.Ul(nil, vdom.Range(a.items, func(item string, i int) *vdom.Node {
				return vdom.Li(nil,
					item,
					vdom.Button(vdom.Props{"class": "remove"}.Merge(vdom.On("click", a.remove(i))), "x"),
				)
			})),
		),
		vdom.If(len(a.items) == 0, vdom.P(vdom.Props{"class": "empty"}, "Nothing to do")),
	)
}
