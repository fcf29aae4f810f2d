// Package server exposes a live canvas over HTTP.
//
// The page handler serves the canvas content rendered as HTML together with
// a small script. The script opens a WebSocket, receives the current tree
// with its handle ids, and then applies every adapter op the canvas
// performs. DOM events on the page are sent back and dispatched on the
// canvas, so handlers run on the server and their re-renders stream out as
// ops.
//
// All canvas access happens on the host loop. HTTP and WebSocket goroutines
// go through Loop.Do.
package server
