// Package canvas defines the boundary between the reconciliation engine and
// the live output medium.
//
// The engine never touches the output directly. It calls the primitives of
// an Adapter: create, insert, remove and replace handles, write attributes
// and text, and attach or detach event listeners. A Handle is an opaque,
// comparable reference to one position in the output.
//
// # Hosts
//
// Document is an in-memory host that behaves like a small DOM. It is used
// by tests, by the CLI demo and by the dev server, and it can serialize any
// subtree to HTML.
//
// # Observing mutations
//
// Tap wraps another Adapter and emits an Op for every successful call to a
// set of Sinks. Recorder is a Sink that keeps the ops in memory; the dev
// server ships the same ops to browsers over a WebSocket.
package canvas
