package demo

import (
	"fmt"

	"github.com/vango-dev/retain/pkg/canvas"
)

// Step is one scripted interaction.
type Step struct {
	Selector string // element id, or "." followed by a class
	Event    string
	Data     map[string]any
}

// Script drives the demo through a short session.
var Script = []Step{
	{Selector: "inc", Event: "click"},
	{Selector: "inc", Event: "click"},
	{Selector: "dec", Event: "click"},
	{Selector: "draft", Event: "input", Data: map[string]any{"value": "write docs"}},
	{Selector: "add", Event: "click"},
	{Selector: "draft", Event: "input", Data: map[string]any{"value": "ship it"}},
	{Selector: "add", Event: "click"},
	{Selector: ".remove", Event: "click"},
}

// Find returns the first element matching selector.
func Find(doc *canvas.Document, selector string) *canvas.Element {
	if len(selector) > 1 && selector[0] == '.' {
		class := selector[1:]
		return doc.Find(func(e *canvas.Element) bool {
			v, _ := e.Attr("class")
			return v == class
		})
	}
	return doc.Find(func(e *canvas.Element) bool {
		v, _ := e.Attr("id")
		return v == selector
	})
}

// Play dispatches step on doc. The caller drains deferred work afterwards.
func Play(doc *canvas.Document, step Step) error {
	el := Find(doc, step.Selector)
	if el == nil {
		return fmt.Errorf("demo: no element matches %q", step.Selector)
	}
	n, err := doc.Dispatch(el, step.Event, step.Data)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("demo: %q has no %s listener", step.Selector, step.Event)
	}
	return nil
}
