package server

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client is one websocket connection. It remembers which seat it holds so
// inbound frames carry no credentials.
type client struct {
	conn *websocket.Conn
	send chan []byte
	log  *zap.Logger

	playerID string
	roomCode string
}

func newClient(conn *websocket.Conn, log *zap.Logger) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, 256),
		log:  log,
	}
}

// Send queues a frame for the write pump, dropping it when the client is
// too far behind to matter.
func (c *client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

// sendJSON marshals and queues a frame.
func (c *client) sendJSON(v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		c.log.Error("outbound marshal failed", zap.Error(err))
		return
	}
	c.Send(buf)
}

func (c *client) sendError(message string) {
	c.sendJSON(errorMessage{Type: "error", Message: message})
}

func (c *client) readPump(s *Server) {
	defer func() {
		s.handleDisconnect(c)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Debug("bad frame", zap.Error(err))
			continue
		}
		s.handleMessage(c, &msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
