// Package render serializes vdom.Node trees to HTML.
//
// The output uses the same conventions as canvas.Document: attributes in
// sorted order, empty values written as bare names, event bindings and
// reserved keys omitted. A page rendered here can therefore be hydrated by
// a runtime mounting over a Document built from it.
//
//	r := render.NewRenderer(render.RendererConfig{})
//	html, err := r.RenderToString(node)
//
// RenderPage wraps a body in a complete document, and StreamingRenderer
// flushes the head before the body when writing to an http.ResponseWriter.
package render
