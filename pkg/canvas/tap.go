package canvas

import (
	"sync"
)

// OpKind identifies an adapter primitive.
type OpKind string

const (
	OpCreateElement   OpKind = "createElement"
	OpCreateText      OpKind = "createText"
	OpInsert          OpKind = "insert"
	OpRemove          OpKind = "remove"
	OpReplace         OpKind = "replace"
	OpSetAttribute    OpKind = "setAttribute"
	OpRemoveAttribute OpKind = "removeAttribute"
	OpSetText         OpKind = "setText"
	OpAddListener     OpKind = "addListener"
	OpRemoveListener  OpKind = "removeListener"
)

// Op is one successful adapter call. Handles are replaced by ids that are
// stable for the lifetime of the Tap.
type Op struct {
	Seq    uint64 `json:"seq"`
	Kind   OpKind `json:"op"`
	ID     uint64 `json:"id,omitempty"`     // target handle
	Parent uint64 `json:"parent,omitempty"` // parent handle for insert/remove/replace
	Ref    uint64 `json:"ref,omitempty"`    // replaced handle
	Name   string `json:"name,omitempty"`   // tag, attribute or event name
	Value  string `json:"value,omitempty"`  // attribute value or text
}

// Sink receives ops from a Tap.
type Sink interface {
	Record(op Op)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Op)

// Record implements Sink.
func (f SinkFunc) Record(op Op) { f(op) }

// Tap is an Adapter decorator that reports every successful call to its
// sinks. Failed calls are not reported.
type Tap struct {
	inner Adapter

	mu      sync.Mutex
	seq     uint64
	nextID  uint64
	ids     map[Handle]uint64
	handles map[uint64]Handle
	sinks   []*subscription
}

type subscription struct {
	sink Sink
}

// NewTap wraps inner.
func NewTap(inner Adapter, sinks ...Sink) *Tap {
	t := &Tap{
		inner:   inner,
		ids:     make(map[Handle]uint64),
		handles: make(map[uint64]Handle),
	}
	for _, s := range sinks {
		t.sinks = append(t.sinks, &subscription{sink: s})
	}
	return t
}

// Subscribe adds a sink and returns a function removing it.
func (t *Tap) Subscribe(s Sink) func() {
	sub := &subscription{sink: s}
	t.mu.Lock()
	t.sinks = append(t.sinks, sub)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, x := range t.sinks {
			if x == sub {
				t.sinks = append(t.sinks[:i], t.sinks[i+1:]...)
				return
			}
		}
	}
}

// Inner returns the wrapped adapter.
func (t *Tap) Inner() Adapter { return t.inner }

// ID returns the id assigned to h, assigning one if needed.
func (t *Tap) ID(h Handle) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.idLocked(h)
}

func (t *Tap) idLocked(h Handle) uint64 {
	if h == nil {
		return 0
	}
	if id, ok := t.ids[h]; ok {
		return id
	}
	t.nextID++
	t.ids[h] = t.nextID
	t.handles[t.nextID] = h
	return t.nextID
}

// Lookup returns the handle with the given id.
func (t *Tap) Lookup(id uint64) (Handle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.handles[id]
	return h, ok
}

// Seq returns the sequence number of the last reported op.
func (t *Tap) Seq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

func (t *Tap) emit(op Op, handles ...Handle) {
	t.mu.Lock()
	t.seq++
	op.Seq = t.seq
	if len(handles) > 0 {
		op.ID = t.idLocked(handles[0])
	}
	if len(handles) > 1 {
		op.Parent = t.idLocked(handles[1])
	}
	if len(handles) > 2 {
		op.Ref = t.idLocked(handles[2])
	}
	subs := make([]*subscription, len(t.sinks))
	copy(subs, t.sinks)
	t.mu.Unlock()

	for _, sub := range subs {
		sub.sink.Record(op)
	}
}

// forget drops the id of a handle that left the canvas for good.
func (t *Tap) forget(h Handle) {
	t.mu.Lock()
	if id, ok := t.ids[h]; ok {
		delete(t.handles, id)
		delete(t.ids, h)
	}
	t.mu.Unlock()
}

// CreateElement implements Adapter.
func (t *Tap) CreateElement(kind string) (Handle, error) {
	h, err := t.inner.CreateElement(kind)
	if err != nil {
		return nil, err
	}
	t.emit(Op{Kind: OpCreateElement, Name: kind}, h)
	return h, nil
}

// CreateText implements Adapter.
func (t *Tap) CreateText(value string) (Handle, error) {
	h, err := t.inner.CreateText(value)
	if err != nil {
		return nil, err
	}
	t.emit(Op{Kind: OpCreateText, Value: value}, h)
	return h, nil
}

// Insert implements Adapter.
func (t *Tap) Insert(parent, child Handle) error {
	if err := t.inner.Insert(parent, child); err != nil {
		return err
	}
	t.emit(Op{Kind: OpInsert}, child, parent)
	return nil
}

// Remove implements Adapter.
func (t *Tap) Remove(parent, child Handle) error {
	if err := t.inner.Remove(parent, child); err != nil {
		return err
	}
	t.emit(Op{Kind: OpRemove}, child, parent)
	t.forget(child)
	return nil
}

// Replace implements Adapter.
func (t *Tap) Replace(parent, next, prev Handle) error {
	if err := t.inner.Replace(parent, next, prev); err != nil {
		return err
	}
	t.emit(Op{Kind: OpReplace}, next, parent, prev)
	t.forget(prev)
	return nil
}

// SetAttribute implements Adapter.
func (t *Tap) SetAttribute(h Handle, name, value string) error {
	if err := t.inner.SetAttribute(h, name, value); err != nil {
		return err
	}
	t.emit(Op{Kind: OpSetAttribute, Name: name, Value: value}, h)
	return nil
}

// RemoveAttribute implements Adapter.
func (t *Tap) RemoveAttribute(h Handle, name string) error {
	if err := t.inner.RemoveAttribute(h, name); err != nil {
		return err
	}
	t.emit(Op{Kind: OpRemoveAttribute, Name: name}, h)
	return nil
}

// SetText implements Adapter.
func (t *Tap) SetText(h Handle, value string) error {
	if err := t.inner.SetText(h, value); err != nil {
		return err
	}
	t.emit(Op{Kind: OpSetText, Value: value}, h)
	return nil
}

// AddListener implements Adapter.
func (t *Tap) AddListener(h Handle, event string, l *Listener) error {
	if err := t.inner.AddListener(h, event, l); err != nil {
		return err
	}
	t.emit(Op{Kind: OpAddListener, Name: event}, h)
	return nil
}

// RemoveListener implements Adapter.
func (t *Tap) RemoveListener(h Handle, event string, l *Listener) error {
	if err := t.inner.RemoveListener(h, event, l); err != nil {
		return err
	}
	t.emit(Op{Kind: OpRemoveListener, Name: event}, h)
	return nil
}

// Parent implements Adapter. Lookups are not reported.
func (t *Tap) Parent(h Handle) (Handle, error) {
	return t.inner.Parent(h)
}

// Children implements Hydrator when the wrapped adapter does.
func (t *Tap) Children(h Handle) []Handle {
	if hy, ok := t.inner.(Hydrator); ok {
		return hy.Children(h)
	}
	return nil
}

// Describe implements Hydrator when the wrapped adapter does.
func (t *Tap) Describe(h Handle) Description {
	if hy, ok := t.inner.(Hydrator); ok {
		return hy.Describe(h)
	}
	return Description{}
}

// CanHydrate reports whether the wrapped adapter implements Hydrator.
func (t *Tap) CanHydrate() bool {
	_, ok := t.inner.(Hydrator)
	return ok
}

// Recorder is a Sink that keeps every op in memory.
type Recorder struct {
	mu  sync.Mutex
	ops []Op
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record implements Sink.
func (r *Recorder) Record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Ops returns a copy of the recorded ops.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns the number of recorded ops of the given kinds, or of all
// kinds when none are given.
func (r *Recorder) Count(kinds ...OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(kinds) == 0 {
		return len(r.ops)
	}
	n := 0
	for _, op := range r.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

// Reset drops all recorded ops.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}
