package server

import "fmt"

// Client is one connected line-protocol peer. Telnet and WebSocket
// connections both implement it so sessions never see the transport.
type Client interface {
	// ReadLine blocks until a complete line arrives. The line is returned
	// without its terminator.
	ReadLine() (string, error)

	// WriteLine sends one line. The transport adds its own terminator.
	WriteLine(message string) error

	// Write sends text as is, without a terminator. Prompts use it.
	Write(data []byte) error

	Close() error

	// RemoteAddr is the peer address in host:port form.
	RemoteAddr() string
}

func writef(c Client, format string, args ...any) error {
	return c.WriteLine(fmt.Sprintf(format, args...))
}

func prompt(c Client, text string) (string, error) {
	if err := c.Write([]byte(text)); err != nil {
		return "", err
	}
	return c.ReadLine()
}
