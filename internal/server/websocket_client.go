package server

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketClient speaks the line protocol over a WebSocket. Each text
// message is one or more lines; each written line is one message.
type WebSocketClient struct {
	conn *websocket.Conn

	readMu  sync.Mutex
	pending []string // lines left over from a multi-line message

	writeMu sync.Mutex // gorilla allows one concurrent writer
}

// NewWebSocketClient wraps conn. A positive maxMessageSize limits inbound
// messages; larger ones close the connection.
func NewWebSocketClient(conn *websocket.Conn, maxMessageSize int64) *WebSocketClient {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}
	return &WebSocketClient{conn: conn}
}

// ReadLine returns the next non-blank line. Blank messages are skipped.
func (c *WebSocketClient) ReadLine() (string, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	for len(c.pending) == 0 {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		for _, line := range strings.Split(string(message), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				c.pending = append(c.pending, line)
			}
		}
	}

	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

func (c *WebSocketClient) WriteLine(message string) error {
	return c.Write([]byte(message))
}

func (c *WebSocketClient) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WebSocketClient) Close() error {
	return c.conn.Close()
}

func (c *WebSocketClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
