package canvas

import (
	"sort"
	"sync"
)

// Element is a node of an in-memory Document.
type Element struct {
	doc       *Document
	tag       string
	text      string
	isText    bool
	attrs     map[string]string
	children  []*Element
	parent    *Element
	listeners map[string][]*Listener
}

// Tag returns the element tag, or TextKind for text handles.
func (e *Element) Tag() string {
	if e.isText {
		return TextKind
	}
	return e.tag
}

// Text returns the content of a text handle.
func (e *Element) Text() string { return e.text }

// IsText reports whether e is a text handle.
func (e *Element) IsText() bool { return e.isText }

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// ChildElements returns a copy of the element's children.
func (e *Element) ChildElements() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ListenerCount returns the number of listeners attached for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

func (e *Element) indexOf(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	if i := p.indexOf(e); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	e.parent = nil
}

// Document is an in-memory canvas host. It implements Adapter and Hydrator.
//
// Document is safe for concurrent use; the engine itself only ever calls it
// from a single goroutine, but the dev server reads snapshots concurrently.
type Document struct {
	mu   sync.RWMutex
	root *Element
}

// NewDocument creates a document with an empty root element of the given tag.
func NewDocument(rootTag string) *Document {
	d := &Document{}
	d.root = d.newElement(rootTag)
	return d
}

// Root returns the document root handle.
func (d *Document) Root() *Element {
	return d.root
}

func (d *Document) newElement(tag string) *Element {
	return &Element{
		doc:   d,
		tag:   tag,
		attrs: make(map[string]string),
	}
}

func (d *Document) element(h Handle) (*Element, error) {
	e, ok := h.(*Element)
	if !ok || e == nil || e.doc != d {
		return nil, ErrForeignHandle
	}
	return e, nil
}

// CreateElement implements Adapter.
func (d *Document) CreateElement(kind string) (Handle, error) {
	return d.newElement(kind), nil
}

// CreateText implements Adapter.
func (d *Document) CreateText(value string) (Handle, error) {
	e := d.newElement("")
	e.isText = true
	e.text = value
	return e, nil
}

// Insert implements Adapter. A child that is attached elsewhere is moved.
func (d *Document) Insert(parent, child Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.element(parent)
	if err != nil {
		return err
	}
	c, err := d.element(child)
	if err != nil {
		return err
	}
	if p.isText {
		return ErrTextParent
	}
	c.detach()
	p.children = append(p.children, c)
	c.parent = p
	return nil
}

// Remove implements Adapter.
func (d *Document) Remove(parent, child Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.element(parent)
	if err != nil {
		return err
	}
	c, err := d.element(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return ErrNotChild
	}
	c.detach()
	return nil
}

// Replace implements Adapter.
func (d *Document) Replace(parent, next, prev Handle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.element(parent)
	if err != nil {
		return err
	}
	n, err := d.element(next)
	if err != nil {
		return err
	}
	o, err := d.element(prev)
	if err != nil {
		return err
	}
	i := p.indexOf(o)
	if i < 0 {
		return ErrNotChild
	}
	n.detach()
	// n may have been a sibling before o; look the slot up again.
	i = p.indexOf(o)
	p.children[i] = n
	n.parent = p
	o.parent = nil
	return nil
}

// SetAttribute implements Adapter.
func (d *Document) SetAttribute(h Handle, name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := d.element(h)
	if err != nil {
		return err
	}
	e.attrs[name] = value
	return nil
}

// RemoveAttribute implements Adapter.
func (d *Document) RemoveAttribute(h Handle, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := d.element(h)
	if err != nil {
		return err
	}
	delete(e.attrs, name)
	return nil
}

// SetText implements Adapter.
func (d *Document) SetText(h Handle, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := d.element(h)
	if err != nil {
		return err
	}
	if !e.isText {
		return ErrNotText
	}
	e.text = value
	return nil
}

// AddListener implements Adapter.
func (d *Document) AddListener(h Handle, event string, l *Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := d.element(h)
	if err != nil {
		return err
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
	return nil
}

// RemoveListener implements Adapter. Removing an unknown listener is a no-op.
func (d *Document) RemoveListener(h Handle, event string, l *Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, err := d.element(h)
	if err != nil {
		return err
	}
	list := e.listeners[event]
	for i, x := range list {
		if x == l {
			e.listeners[event] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
	return nil
}

// Parent implements Adapter.
func (d *Document) Parent(h Handle) (Handle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return nil, err
	}
	if e.parent == nil {
		return nil, ErrDetached
	}
	return e.parent, nil
}

// Children implements Hydrator.
func (d *Document) Children(h Handle) []Handle {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return nil
	}
	out := make([]Handle, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Describe implements Hydrator.
func (d *Document) Describe(h Handle) Description {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return Description{}
	}
	if e.isText {
		return Description{Kind: TextKind, Text: e.text}
	}
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	return Description{Kind: e.tag, Attributes: attrs}
}

// Events returns the event names h has listeners for, sorted.
func (d *Document) Events(h Handle) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, err := d.element(h)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(e.listeners))
	for name, list := range e.listeners {
		if len(list) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Dispatch delivers an event to the listeners attached to h, in attach order.
// It returns the number of listeners invoked.
func (d *Document) Dispatch(h Handle, event string, data map[string]any) (int, error) {
	d.mu.RLock()
	e, err := d.element(h)
	if err != nil {
		d.mu.RUnlock()
		return 0, err
	}
	list := make([]*Listener, len(e.listeners[event]))
	copy(list, e.listeners[event])
	d.mu.RUnlock()

	// Listeners run unlocked; they typically trigger a re-render.
	for _, l := range list {
		l.Handle(Event{Type: event, Target: h, Data: data})
	}
	return len(list), nil
}

// Find returns the first element in document order, starting at root, for
// which match returns true.
func (d *Document) Find(match func(*Element) bool) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return find(d.root, match)
}

func find(e *Element, match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// sortedAttrNames returns attribute names in deterministic order.
func sortedAttrNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
