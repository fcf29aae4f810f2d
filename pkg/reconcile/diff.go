package reconcile

import (
	"github.com/vango-dev/retain/internal/errors"
	"github.com/vango-dev/retain/pkg/canvas"
	"github.com/vango-dev/retain/pkg/vdom"
)

// Op is the decision Diff took for a tree position.
type Op uint8

const (
	OpMount   Op = iota + 1 // no old node: create and insert
	OpRemove                // no new node: detach
	OpReplace               // kinds differ: create and swap in
	OpPatch                 // kinds equal: reuse the handle
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpMount:
		return "mount"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpPatch:
		return "patch"
	default:
		return "unknown"
	}
}

// Result is the outcome of Diff.
type Result struct {
	Op Op

	// Node is now authoritative for the position; nil after a removal.
	Node *vdom.Node

	// Discarded is the subtree that must be torn down, if any.
	Discarded *vdom.Node
}

// Diff reconciles one tree position. Passing two nil nodes is a caller bug
// and panics with E100. Adapter failures are returned as E120.
func Diff(a canvas.Adapter, old, next *vdom.Node, parent canvas.Handle) (Result, error) {
	switch {
	case old == nil && next == nil:
		panic(errors.New("E100"))

	case old == nil:
		h, err := create(a, next)
		if err != nil {
			return Result{}, err
		}
		if err := a.Insert(parent, h); err != nil {
			return Result{}, canvasErr("insert", err)
		}
		next.Handle = h
		next.Generation = 1
		return Result{Op: OpMount, Node: next}, nil

	case next == nil:
		if err := a.Remove(parent, old.Handle); err != nil {
			return Result{}, canvasErr("remove", err)
		}
		return Result{Op: OpRemove, Discarded: old}, nil

	case old.Kind != next.Kind:
		h, err := create(a, next)
		if err != nil {
			return Result{}, err
		}
		if err := a.Replace(parent, h, old.Handle); err != nil {
			return Result{}, canvasErr("replace", err)
		}
		next.Handle = h
		next.Generation = 1
		return Result{Op: OpReplace, Node: next, Discarded: old}, nil

	default:
		next.Handle = old.Handle
		next.Generation = old.Generation + 1
		return Result{Op: OpPatch, Node: next}, nil
	}
}

// create allocates the canvas handle for n.
func create(a canvas.Adapter, n *vdom.Node) (canvas.Handle, error) {
	if n.IsText() {
		h, err := a.CreateText(vdom.TextString(n.Value()))
		if err != nil {
			return nil, canvasErr("createText", err)
		}
		return h, nil
	}
	h, err := a.CreateElement(n.Kind)
	if err != nil {
		return nil, canvasErr("createElement", err)
	}
	return h, nil
}

func canvasErr(op string, err error) error {
	return errors.New("E120").WithOp(op).Wrap(err)
}
