package main

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	sendBufferSize = 64
)

// Client is one websocket connection. A client is queued, seated at a table,
// or idle.
type Client struct {
	name   string
	conn   *websocket.Conn
	send   chan ServerEvent
	done   chan struct{}
	mgr    *TableManager
	closed atomic.Bool
}

func NewClient(name string, conn *websocket.Conn, mgr *TableManager) *Client {
	return &Client{
		name: name,
		conn: conn,
		mgr:  mgr,
		send: make(chan ServerEvent, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *Client) readLoop() {
	defer c.close()
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("user", c.name).Msg("read message")
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.pushSystem("잘못된 메시지 형식입니다.")
			continue
		}
		c.mgr.RouteMessage(c, msg)
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := writeJSON(c.conn, ev); err != nil {
				log.Debug().Err(err).Str("user", c.name).Msg("write json")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeJSON keeps <, > and & readable in chat lines.
func writeJSON(conn *websocket.Conn, v any) error {
	w, err := conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return w.Close()
}

func (c *Client) push(ev ServerEvent) {
	if c.closed.Load() {
		return
	}
	select {
	case c.send <- ev:
	default:
		// drop oldest to avoid blocking the table loop
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- ev:
		default:
		}
	}
}

func (c *Client) pushSystem(body string) {
	c.push(ServerEvent{Type: EventTypeLog, Body: body})
}

func (c *Client) close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.done)
	c.mgr.Detach(c)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
