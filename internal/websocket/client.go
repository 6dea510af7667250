package websocket

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait   = 10 * time.Second
	idleTimeout = 60 * time.Second
	pingEvery   = (idleTimeout * 9) / 10

	// Dashboards only send heartbeats.
	maxInboundBytes = 512
)

// Client is one dashboard connection of an athlete.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID uuid.UUID

	// Send is written by the hub and drained by writePump. The hub closes it.
	Send chan []byte
}

// reply answers an inbound frame. Browsers cannot send protocol pings, so
// the dashboard sends {"type":"ping"} and expects {"type":"pong"}. Anything
// else is ignored.
func reply(frame []byte) []byte {
	var in envelope
	if err := json.Unmarshal(frame, &in); err != nil || in.Type != "ping" {
		return nil
	}
	out, _ := json.Marshal(envelope{Type: "pong"})
	return out
}

func (c *Client) extendDeadline() {
	_ = c.Conn.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundBytes)
	c.extendDeadline()
	c.Conn.SetPongHandler(func(string) error {
		c.extendDeadline()
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected websocket close", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
			}
			return
		}
		c.extendDeadline()
		if out := reply(frame); out != nil {
			c.Hub.deliverTo(c, out)
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, payload)
}

// writePump owns all writes to the connection. Each hub message is one frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				_ = c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				c.Hub.logger.Debug("Hub", "Websocket write failed", map[string]interface{}{
					"user_id": c.UserID,
					"error":   err.Error(),
				})
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
