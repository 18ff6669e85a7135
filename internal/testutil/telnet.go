package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// DefaultWait bounds every TelnetClient read that does not pass a timeout.
const DefaultWait = 5 * time.Second

// TelnetClient drives a telnet session from a test. It works over a dialed
// TCP connection or one end of net.Pipe.
type TelnetClient struct {
	conn net.Conn
	t    *testing.T
	// seen holds output read past the last match.
	seen strings.Builder
}

// DialTelnet connects to addr and returns a client closed at test cleanup.
//
// Precondition: addr must have a listening server.
func DialTelnet(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, DefaultWait)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}
	return NewTelnetClient(t, conn)
}

// NewTelnetClient wraps an existing connection, closing it at test cleanup.
func NewTelnetClient(t *testing.T, conn net.Conn) *TelnetClient {
	t.Helper()
	t.Cleanup(func() { _ = conn.Close() })
	return &TelnetClient{conn: conn, t: t}
}

// Expect reads until substr appears, ignoring ANSI escapes, and returns the
// output up to and including the match. Output after the match is kept for the
// next call.
func (c *TelnetClient) Expect(substr string) string {
	c.t.Helper()
	return c.ExpectWithin(substr, DefaultWait)
}

// ExpectWithin is Expect with an explicit timeout.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the matched output or fails the test on timeout.
func (c *TelnetClient) ExpectWithin(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	tmp := make([]byte, 1024)
	for {
		buf := stripEscapes(c.seen.String())
		if i := strings.Index(buf, substr); i >= 0 {
			end := i + len(substr)
			c.seen.Reset()
			c.seen.WriteString(buf[end:])
			return buf[:end]
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			c.seen.Write(tmp[:n])
		}
		if err != nil {
			c.t.Fatalf("waiting for %q: got %q, error: %v", substr, buf, err)
		}
	}
}

// Send writes text followed by CRLF.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(DefaultWait))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the connection.
func (c *TelnetClient) Close() {
	_ = c.conn.Close()
}

// stripEscapes removes CSI escape sequences so tests match visible text.
func stripEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
