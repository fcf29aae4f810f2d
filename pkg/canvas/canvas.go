package canvas

import "errors"

// Handle is an opaque reference to a live canvas element or text handle.
// Handles must be comparable; the engine keys per-handle state by them.
type Handle any

// Event is delivered to listeners.
type Event struct {
	Type   string         // "click", "input", ...
	Target Handle         // handle the event was dispatched on
	Data   map[string]any // host specific payload
}

// Listener wraps an event callback. Listeners are identified by pointer, so
// the same *Listener must be passed to RemoveListener that was passed to
// AddListener.
type Listener struct {
	fn func(Event)
}

// NewListener creates a listener calling fn.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the listener. A nil listener is a no-op.
func (l *Listener) Handle(e Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(e)
}

// Adapter is the set of primitives the engine needs from the output medium.
type Adapter interface {
	CreateElement(kind string) (Handle, error)
	CreateText(value string) (Handle, error)

	// Insert appends child to parent.
	Insert(parent, child Handle) error
	Remove(parent, child Handle) error
	// Replace swaps prev for next in place inside parent.
	Replace(parent, next, prev Handle) error

	SetAttribute(h Handle, name, value string) error
	RemoveAttribute(h Handle, name string) error
	SetText(h Handle, value string) error

	AddListener(h Handle, event string, l *Listener) error
	RemoveListener(h Handle, event string, l *Listener) error

	// Parent returns the handle h is attached to.
	Parent(h Handle) (Handle, error)
}

// Description is what a Hydrator reports about an existing handle.
type Description struct {
	Kind       string // tag name, or TextKind for text handles
	Text       string // text content, for text handles
	Attributes map[string]string
}

// TextKind is the Description.Kind reported for text handles.
const TextKind = "Text"

// Hydrator enumerates content that already exists on the canvas. Adapters
// implement it to support mounting over server-rendered output.
type Hydrator interface {
	Children(h Handle) []Handle
	Describe(h Handle) Description
}

var (
	// ErrForeignHandle is returned when a handle was not created by the adapter.
	ErrForeignHandle = errors.New("canvas: handle does not belong to this canvas")

	// ErrNotChild is returned when removing or replacing a handle that is not
	// a child of the given parent.
	ErrNotChild = errors.New("canvas: handle is not a child of parent")

	// ErrTextParent is returned when inserting into a text handle.
	ErrTextParent = errors.New("canvas: text handles cannot have children")

	// ErrDetached is returned by Parent for handles that are not attached.
	ErrDetached = errors.New("canvas: handle is detached")

	// ErrNotText is returned by SetText on element handles.
	ErrNotText = errors.New("canvas: handle is not a text handle")
)
