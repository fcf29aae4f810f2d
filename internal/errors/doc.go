// Package errors provides structured, coded errors for the retain engine.
//
// Every error raised by the engine carries a code (e.g., "E100") that maps
// to a short message, a longer explanation and a documentation link.
//
// # Error Categories
//
//   - invariant: caller bugs detected by the engine (diffing two absent
//     nodes, building an unknown component kind). These are raised with
//     panic and are never recovered by the engine.
//   - canvas: a Canvas Adapter primitive failed. The render pass is aborted
//     and the error is returned to the caller of Mount or Update.
//   - hydration: existing canvas content could not be described.
//   - runtime: deferred work failed while the queue was drained.
//   - config: invalid retain.json.
//   - cli: command line errors.
//
// # Usage
//
//	err := errors.New("E120").WithOp("insert").Wrap(cause)
//	fmt.Println(err.Format())
//	// ERROR E120: Canvas operation failed
//	//
//	//   op: insert
//	//
//	//   The Canvas Adapter returned an error. The render pass was aborted...
package errors
