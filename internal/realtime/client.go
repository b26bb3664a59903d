package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// incomingMsg represents a command from the client.
type incomingMsg struct {
	Action    string `json:"action"` // "subscribe" or "unsubscribe"
	ProjectID uint   `json:"projectId"`
}

// outgoingMsg is the envelope sent to the client.
type outgoingMsg struct {
	Type      string          `json:"type"`
	ProjectID uint            `json:"projectId"`
	Payload   json.RawMessage `json:"payload"`
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		deliver(c.hub, c.hub.unregister, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			break
		}

		var msg incomingMsg
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Debug().Err(err).Msg("Ignoring malformed client message")
			continue
		}

		if msg.ProjectID == 0 {
			continue
		}
		var sub subscribeMsg
		switch msg.Action {
		case "subscribe":
			sub = subscribeMsg{client: c, projectID: msg.ProjectID}
		case "unsubscribe":
			sub = subscribeMsg{client: c, projectID: msg.ProjectID, leave: true}
		default:
			c.hub.logger.Debug().Str("action", msg.Action).Msg("Unknown client action")
			continue
		}
		if !deliver(c.hub, c.hub.subscribe, sub) {
			return
		}
	}
}

// WritePump writes messages to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
