// Package testclient drives the level server's line protocol for the
// integration scenarios.
package testclient

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Prompts the server writes without a line terminator.
var prompts = []string{"Enter choice: ", "Username: ", "Password: ", "Confirm password: ", "Pick a name: ", "Choose a username: ", "> "}

var levelIDPattern = regexp.MustCompile(`Level ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`)

// stepDelay paces the scripted auth flows.
const stepDelay = 100 * time.Millisecond

// TestClient is one scripted connection.
type TestClient struct {
	Name string

	send  func(line string) error
	close func() error

	mu       sync.Mutex
	messages []string
	once     sync.Once
}

func newClient() *TestClient {
	return &TestClient{}
}

// dialTelnet connects over TCP and starts collecting lines.
func dialTelnet(address string) (*TestClient, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := newClient()
	writer := bufio.NewWriter(conn)
	var writeMu sync.Mutex
	c.send = func(line string) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		if _, err := writer.WriteString(line + "\r\n"); err != nil {
			return err
		}
		return writer.Flush()
	}
	c.close = conn.Close

	go c.readTelnet(conn)
	return c, nil
}

// readTelnet splits the stream into lines. A trailing fragment that ends in
// a known prompt is recorded as its own message.
func (c *TestClient) readTelnet(conn net.Conn) {
	buf := make([]byte, 4096)
	var pending string
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			pending += string(buf[:n])
			for {
				idx := strings.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				c.record(strings.TrimRight(pending[:idx], "\r"))
				pending = pending[idx+1:]
			}
			if isPrompt(pending) {
				c.record(pending)
				pending = ""
			}
		}
		if err != nil {
			if pending != "" {
				c.record(pending)
			}
			return
		}
	}
}

func isPrompt(s string) bool {
	for _, p := range prompts {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return strings.HasSuffix(s, "): ")
}

// DialWebSocket connects to a /ws endpoint such as ws://localhost:4443/ws.
func DialWebSocket(url string) (*TestClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := newClient()
	var writeMu sync.Mutex
	c.send = func(line string) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteMessage(websocket.TextMessage, []byte(line))
	}
	c.close = conn.Close

	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			for _, line := range strings.Split(string(msg), "\n") {
				c.record(strings.TrimRight(line, "\r"))
			}
		}
	}()
	return c, nil
}

func (c *TestClient) record(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.mu.Lock()
	c.messages = append(c.messages, line)
	c.mu.Unlock()
}

// Raw connects without answering the welcome screen.
func Raw(address string) (*TestClient, error) {
	c, err := dialTelnet(address)
	if err != nil {
		return nil, err
	}
	c.Name = "RawClient"
	if !c.WaitForMessage("Enter choice: ", 2*time.Second) {
		c.Close()
		return nil, errors.New("no welcome screen")
	}
	return c, nil
}

// Register creates an account and returns the logged-in client.
func Register(name, password, address string) (*TestClient, error) {
	c, err := Raw(address)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := c.script("r", name, password, password); err != nil {
		c.Close()
		return nil, err
	}
	if !c.WaitForMessage("Account created!", 2*time.Second) {
		msgs := c.GetMessages()
		c.Close()
		return nil, fmt.Errorf("registration failed, messages: %v", msgs)
	}
	return c, c.waitReady()
}

// Login signs in to an existing account.
func Login(name, password, address string) (*TestClient, error) {
	c, err := Raw(address)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := c.script("l", name, password); err != nil {
		c.Close()
		return nil, err
	}
	if !c.WaitForMessage("Welcome back, "+name, 2*time.Second) {
		msgs := c.GetMessages()
		c.Close()
		return nil, fmt.Errorf("login failed, messages: %v", msgs)
	}
	return c, c.waitReady()
}

// Guest joins under name without an account.
func Guest(name, address string) (*TestClient, error) {
	c, err := Raw(address)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := c.script("g", name); err != nil {
		c.Close()
		return nil, err
	}
	if !c.WaitForMessage("Playing as a guest", 2*time.Second) {
		msgs := c.GetMessages()
		c.Close()
		return nil, fmt.Errorf("guest join failed, messages: %v", msgs)
	}
	return c, c.waitReady()
}

func (c *TestClient) script(lines ...string) error {
	for _, line := range lines {
		if err := c.SendCommand(line); err != nil {
			return fmt.Errorf("failed to send %q: %w", line, err)
		}
		time.Sleep(stepDelay)
	}
	return nil
}

func (c *TestClient) waitReady() error {
	if !c.WaitForMessage("> ", 2*time.Second) {
		c.Close()
		return errors.New("no command prompt")
	}
	c.ClearMessages()
	return nil
}

// SendCommand sends one line.
func (c *TestClient) SendCommand(cmd string) error {
	return c.send(cmd)
}

// Do clears the buffer, sends cmd and waits for want.
func (c *TestClient) Do(cmd, want string, timeout time.Duration) bool {
	c.ClearMessages()
	if err := c.SendCommand(cmd); err != nil {
		return false
	}
	return c.WaitForMessage(want, timeout)
}

// GetMessages returns a copy of everything received since the last clear.
func (c *TestClient) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

// WaitForMessage polls until a message contains text or the timeout passes.
func (c *TestClient) WaitForMessage(text string, timeout time.Duration) bool {
	_, ok := c.WaitForAnyMessage([]string{text}, timeout)
	return ok
}

// WaitForAnyMessage returns the first of texts to show up.
func (c *TestClient) WaitForAnyMessage(texts []string, timeout time.Duration) (string, bool) {
	deadline := time.Now().Add(timeout)
	for {
		for _, msg := range c.GetMessages() {
			for _, text := range texts {
				if strings.Contains(msg, text) {
					return text, true
				}
			}
		}
		if time.Now().After(deadline) {
			return "", false
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (c *TestClient) HasMessage(text string) bool {
	for _, msg := range c.GetMessages() {
		if strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// LastLevelID returns the id from the most recent level summary received.
func (c *TestClient) LastLevelID() string {
	msgs := c.GetMessages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if m := levelIDPattern.FindStringSubmatch(msgs[i]); m != nil {
			return m[1]
		}
	}
	return ""
}

// PrintMessages dumps the buffer, for debugging.
func (c *TestClient) PrintMessages() {
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range c.GetMessages() {
		fmt.Printf("[%d] %s\n", i, msg)
	}
	fmt.Println("======================")
}

// Close hangs up. It is safe to call more than once.
func (c *TestClient) Close() error {
	var err error
	c.once.Do(func() {
		err = c.close()
	})
	return err
}

// Closed reports whether the server hung up within timeout.
func (c *TestClient) Closed(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if c.SendCommand("") != nil {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}
