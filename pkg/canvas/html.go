package canvas

import (
	"strings"
)

// voidElements are elements serialized without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "source": true, "track": true,
	"wbr": true,
}

// HTML serializes the subtree rooted at h. Attributes are written in sorted
// order; empty attribute values are written as bare names.
func (d *Document) HTML(h Handle) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return ""
	}
	var b strings.Builder
	writeHTML(&b, e)
	return b.String()
}

// InnerHTML serializes the children of h.
func (d *Document) InnerHTML(h Handle) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, c := range e.children {
		writeHTML(&b, c)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, e *Element) {
	if e.isText {
		b.WriteString(escapeHTML(e.text))
		return
	}

	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, name := range sortedAttrNames(e.attrs) {
		b.WriteByte(' ')
		b.WriteString(name)
		if v := e.attrs[name]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')

	if voidElements[e.tag] {
		return
	}
	for _, c := range e.children {
		writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	if !strings.ContainsAny(s, "&<>\"'") {
		return s
	}
	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes attribute values. Whitespace control characters are
// escaped too so they survive attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}
	return buf.String()
}
