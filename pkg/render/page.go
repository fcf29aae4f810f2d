package render

import (
	"io"

	"github.com/vango-dev/retain/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root node of the page content.
	Body *vdom.Node

	// BodyHTML is written verbatim after Body. It carries content that is
	// already serialized, such as a canvas snapshot, and must be trusted.
	BodyHTML string

	// RootID is the id of the element wrapping the content.
	// Defaults to "root" if not specified.
	RootID string

	Title string

	// StyleSheets contains paths to external stylesheets.
	StyleSheets []string

	Scripts []ScriptTag

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Module bool   // type="module"
	Defer  bool   // rendered in head when set
	Inline string // inline script content, trusted
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	ew := &errWriter{w: w}
	r.renderPrologue(ew, page)
	r.renderBody(ew, page)
	return ew.err
}

func (r *Renderer) renderPrologue(w *errWriter, page PageData) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	w.writeString("<!DOCTYPE html>\n")
	w.writeString(`<html lang="` + escapeAttr(lang) + `">` + "\n")

	w.writeString("<head>\n")
	w.writeString(`  <meta charset="utf-8">` + "\n")
	w.writeString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		w.writeString("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	for _, href := range page.StyleSheets {
		w.writeString(`  <link rel="stylesheet" href="` + escapeAttr(href) + `">` + "\n")
	}
	for _, s := range page.Scripts {
		if s.Defer {
			renderScriptTag(w, s)
		}
	}
	w.writeString("</head>\n")
}

func (r *Renderer) renderBody(w *errWriter, page PageData) {
	rootID := page.RootID
	if rootID == "" {
		rootID = "root"
	}
	w.writeString("<body>\n")
	w.writeString(`<div id="` + escapeAttr(rootID) + `">`)
	r.renderNode(w, page.Body, 0)
	w.writeString(page.BodyHTML)
	w.writeString("</div>\n")
	for _, s := range page.Scripts {
		if !s.Defer {
			renderScriptTag(w, s)
		}
	}
	w.writeString("</body>\n</html>\n")
}

func renderScriptTag(w *errWriter, s ScriptTag) {
	w.writeString("  <script")
	if s.Src != "" {
		w.writeString(` src="` + escapeAttr(s.Src) + `"`)
	}
	if s.Module {
		w.writeString(` type="module"`)
	}
	if s.Defer {
		w.writeString(" defer")
	}
	w.writeString(">" + s.Inline + "</script>\n")
}
