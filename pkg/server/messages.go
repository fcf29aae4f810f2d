package server

import "github.com/vango-dev/retain/pkg/canvas"

// Message types.
const (
	TypeInit  = "init"
	TypeOp    = "op"
	TypeEvent = "event"
)

// Message is a JSON frame on the op stream.
//
// The server sends one init message with the tree followed by op messages.
// Clients send event messages naming a handle id.
type Message struct {
	Type string `json:"type"`

	// init
	Seq  uint64    `json:"seq,omitempty"`
	Tree *TreeNode `json:"tree,omitempty"`

	// op
	Op *canvas.Op `json:"op,omitempty"`

	// event
	ID    uint64         `json:"id,omitempty"`
	Event string         `json:"event,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}
