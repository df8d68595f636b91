package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialPeer starts a WebSocket server running peer on its side of the
// connection and returns the dialled client end.
func dialPeer(t *testing.T, peer func(conn *websocket.Conn)) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		peer(conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// TestWebSocketClient_ReadLine_EmptyMessages checks blank messages are skipped.
func TestWebSocketClient_ReadLine_EmptyMessages(t *testing.T) {
	conn := dialPeer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(""))
		conn.WriteMessage(websocket.TextMessage, []byte("   "))
		conn.WriteMessage(websocket.TextMessage, []byte("\n\n\n"))
		conn.WriteMessage(websocket.TextMessage, []byte("level 42"))
		time.Sleep(100 * time.Millisecond)
	})

	client := NewWebSocketClient(conn, 0)
	line, err := client.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if line != "level 42" {
		t.Errorf("ReadLine = %q, want %q", line, "level 42")
	}
}

// TestWebSocketClient_ReadLine_MultiLineMessage checks a message holding
// several lines is returned one line per call.
func TestWebSocketClient_ReadLine_MultiLineMessage(t *testing.T) {
	conn := dialPeer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte("g\r\nrunner\n\ntop 5"))
		time.Sleep(100 * time.Millisecond)
	})

	client := NewWebSocketClient(conn, 0)
	for _, want := range []string{"g", "runner", "top 5"} {
		got, err := client.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
}

func TestWebSocketClient_ReadLimit(t *testing.T) {
	conn := dialPeer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(strings.Repeat("x", 200)))
		time.Sleep(100 * time.Millisecond)
	})

	client := NewWebSocketClient(conn, 64)
	if _, err := client.ReadLine(); err == nil {
		t.Error("ReadLine should fail on a message over the limit")
	}
}

func TestWebSocketClient_WriteLine(t *testing.T) {
	received := make(chan string, 1)
	conn := dialPeer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(msg)
	})

	client := NewWebSocketClient(conn, 0)
	if err := client.WriteLine("Score recorded: 4200 (won)."); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}

	select {
	case msg := <-received:
		if msg != "Score recorded: 4200 (won)." {
			t.Errorf("received %q", msg)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestWebSocketClient_RemoteAddr(t *testing.T) {
	done := make(chan struct{})
	conn := dialPeer(t, func(conn *websocket.Conn) { <-done })
	defer close(done)

	if addr := NewWebSocketClient(conn, 0).RemoteAddr(); addr == "" {
		t.Error("RemoteAddr should not be empty")
	}
}

// ============================================================================
// Telnet
// ============================================================================

func TestTelnetClient_ReadLineTrimsCR(t *testing.T) {
	server, peer := net.Pipe()
	defer server.Close()
	defer peer.Close()

	go peer.Write([]byte("best\r\nquit\n"))

	client := NewTelnetClient(server)
	for _, want := range []string{"best", "quit"} {
		got, err := client.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}
}

func TestTelnetClient_ReadLineEOF(t *testing.T) {
	server, peer := net.Pipe()
	defer server.Close()
	peer.Close()

	if _, err := NewTelnetClient(server).ReadLine(); err == nil {
		t.Error("ReadLine should fail once the peer hangs up")
	}
}

func TestTelnetClient_WriteLineAddsCRLF(t *testing.T) {
	server, peer := net.Pipe()
	defer server.Close()
	defer peer.Close()

	client := NewTelnetClient(server)
	go client.WriteLine("Goodbye!")

	buf := make([]byte, 16)
	n, err := peer.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := string(buf[:n]); got != "Goodbye!\r\n" {
		t.Errorf("wrote %q, want %q", got, "Goodbye!\r\n")
	}
}
