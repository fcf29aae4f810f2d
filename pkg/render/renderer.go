package render

import (
	"bytes"
	"io"
	"sort"

	"github.com/vango-dev/retain/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Pretty output is not hydratable
	// whitespace-for-whitespace, but hydration skips blank text anyway.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer renders node trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node tree to w. A nil node writes nothing.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.Node) error {
	ew := &errWriter{w: w}
	r.renderNode(ew, node, 0)
	return ew.err
}

func (r *Renderer) renderNode(w *errWriter, node *vdom.Node, depth int) {
	if node == nil {
		return
	}
	if node.IsText() {
		w.writeString(escapeHTML(vdom.TextString(node.Value())))
		return
	}
	r.renderElement(w, node, depth)
}

func (r *Renderer) renderElement(w *errWriter, node *vdom.Node, depth int) {
	tag := node.Kind
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.writeString("<" + tag)
	renderAttributes(w, node.Props)
	w.writeString(">")

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.writeString("\n")
		}
		return
	}

	block := r.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
	if block {
		w.writeString("\n")
	}
	for _, child := range node.Children {
		r.renderNode(w, child, depth+1)
	}
	if block {
		r.writeIndent(w, depth)
	}

	w.writeString("</" + tag + ">")
	if r.config.Pretty {
		w.writeString("\n")
	}
}

// renderAttributes writes the attributes of props in sorted order.
func renderAttributes(w *errWriter, props vdom.Props) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]
		if !vdom.IsAttributeKey(key, value) {
			continue
		}
		s, ok := vdom.AttrString(key, value)
		if !ok {
			continue
		}
		w.writeString(" " + key)
		if s != "" {
			w.writeString(`="` + escapeAttr(s) + `"`)
		}
	}
}

func (r *Renderer) writeIndent(w *errWriter, depth int) {
	for i := 0; i < depth; i++ {
		w.writeString(r.config.Indent)
	}
}

// errWriter remembers the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
