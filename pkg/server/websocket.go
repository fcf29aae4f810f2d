package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	c := newClient(chimw.GetReqID(r.Context()), conn, s.config.SendBuffer)
	go c.writeLoop(s.config.WriteTimeout, s.config.PingInterval)

	// The init message and registration happen in one loop task, so the
	// client sees every op after the tree it was sent.
	ctx := r.Context()
	err = s.loop.Do(ctx, func() {
		tree := BuildTree(s.tap, s.root)
		b, err := json.Marshal(Message{Type: TypeInit, Seq: s.tap.Seq(), Tree: &tree})
		if err != nil {
			s.logger.Error("encode tree", "error", err)
			c.close()
			return
		}
		c.send <- b
		s.hub.add(c)
	})
	defer s.loop.Defer(func() { s.hub.remove(c) })
	if err != nil {
		c.close()
		return
	}
	s.logger.Info("client connected", "client", c.id)

	s.readLoop(ctx, c)
	c.close()
	s.logger.Info("client disconnected", "client", c.id)
}

// readLoop decodes client messages until the connection fails.
func (s *Server) readLoop(ctx context.Context, c *client) {
	c.conn.SetReadLimit(s.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "client", c.id, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		switch msg.Type {
		case TypeEvent:
			if err := s.dispatch(ctx, msg); err != nil {
				return
			}
		default:
			s.logger.Warn("unknown message type", "client", c.id, "type", msg.Type)
		}
	}
}

// dispatch delivers a client event to the canvas on the loop.
func (s *Server) dispatch(ctx context.Context, msg Message) error {
	return s.loop.Do(ctx, func() {
		h, ok := s.tap.Lookup(msg.ID)
		if !ok {
			s.metrics.event("unknown")
			s.logger.Debug("event for unknown handle", "id", msg.ID, "event", msg.Event)
			return
		}
		n, err := s.doc.Dispatch(h, msg.Event, msg.Data)
		switch {
		case err != nil:
			s.metrics.event("failed")
			s.logger.Warn("dispatch failed", "id", msg.ID, "event", msg.Event, "error", err)
		case n == 0:
			s.metrics.event("unhandled")
		default:
			s.metrics.event("dispatched")
		}
	})
}
