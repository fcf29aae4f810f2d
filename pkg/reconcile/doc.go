// Package reconcile implements the diff/patch engine.
//
// Diff decides, for one tree position, whether the new node is mounted,
// replaces the old one, removes it, or patches it in place. Engine.Render
// drives Diff over a whole tree: it writes attributes and text through the
// canvas.Adapter, runs OnUpdate hooks synchronously, and collects deferred
// work (OnMount, OnUnmount, listener application) into a Queue that the
// caller drains once the pass has returned.
//
// # Identity
//
// Children are paired by a ChildMatcher. The default, Positional, pairs
// children by index: reordering same-kind children is observed as
// independent patches, never as moves.
//
// # Listeners
//
// Event bindings (callable props under "on*" keys) are not written as
// attributes. The engine keeps one binding per live handle with a proxy
// listener per event name, so swapping a handler between renders costs no
// adapter call. Listener application is deferred and versioned per handle:
// a queued application that was superseded by a newer pass, or whose handle
// was discarded, is skipped when the queue drains.
package reconcile
