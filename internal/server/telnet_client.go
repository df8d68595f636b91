package server

import (
	"bufio"
	"net"
	"strings"
	"sync"
)

// maxTelnetLine caps a single telnet line.
const maxTelnetLine = 4096

// TelnetClient speaks the line protocol over a raw TCP connection.
type TelnetClient struct {
	conn    net.Conn
	scanner *bufio.Scanner

	mu     sync.Mutex // serialises writes
	writer *bufio.Writer
}

// NewTelnetClient wraps conn.
func NewTelnetClient(conn net.Conn) *TelnetClient {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxTelnetLine)
	return &TelnetClient{
		conn:    conn,
		scanner: scanner,
		writer:  bufio.NewWriter(conn),
	}
}

// ReadLine returns the next line with any trailing carriage return removed.
// A clean EOF is reported as net.ErrClosed.
func (c *TelnetClient) ReadLine() (string, error) {
	if c.scanner.Scan() {
		return strings.TrimRight(c.scanner.Text(), "\r"), nil
	}
	if err := c.scanner.Err(); err != nil {
		return "", err
	}
	return "", net.ErrClosed
}

// WriteLine sends message terminated by CRLF.
func (c *TelnetClient) WriteLine(message string) error {
	return c.write(message + "\r\n")
}

func (c *TelnetClient) Write(data []byte) error {
	return c.write(string(data))
}

func (c *TelnetClient) write(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.writer.WriteString(s); err != nil {
		return err
	}
	return c.writer.Flush()
}

func (c *TelnetClient) Close() error {
	return c.conn.Close()
}

func (c *TelnetClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
