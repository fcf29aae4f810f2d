// Package vdom provides the view tree consumed by the reconciliation engine.
//
// A Node describes one element or text position. Application code builds
// Nodes with Build (or the element factories) and never touches the canvas;
// the engine in package reconcile attaches Nodes to the canvas, patches them
// in place and tears them down.
//
// # Building
//
//	Build("div", Props{"id": "a"}, "hello")
//	Div(Props{"class": "card"}, H1(nil, "Title"), P(nil, "Content"))
//
// Primitive children are wrapped as Text nodes. Slices of children are
// spread one level.
//
// # Components
//
// A Component receives its props (with the flattened children under the
// reserved "children" key) and returns a Result: either a Node (Emit) or
// another Component to continue with (Chain). Build follows chains until a
// Node is produced.
//
// # Lifecycle hooks
//
// OnMount, OnUnmount and OnUpdate decorate a Component so that every Node it
// produces carries the corresponding callback. The engine runs OnUpdate
// synchronously during a patch and defers OnMount and OnUnmount until the
// render pass has finished.
package vdom
