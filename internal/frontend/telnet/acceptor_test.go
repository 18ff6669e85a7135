package telnet

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/rpsdungeon/internal/config"
)

// echoHandler echoes lines until "quit" or cancellation.
type echoHandler struct {
	sessions  atomic.Int32
	cancelled atomic.Int32
}

func (h *echoHandler) HandleSession(ctx context.Context, conn *Conn) error {
	h.sessions.Add(1)
	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				h.cancelled.Add(1)
			}
			return err
		}
		if line == "quit" {
			return conn.WriteLine("bye")
		}
		_ = conn.WriteLine("echo: " + line)
	}
}

func startAcceptor(t *testing.T, h SessionHandler) (*Acceptor, chan error) {
	t.Helper()
	cfg := config.TelnetConfig{Host: "127.0.0.1", ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	acc := NewAcceptor(cfg, h, zaptest.NewLogger(t))
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- acc.Serve(l) }()
	select {
	case <-acc.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor did not start in time")
	}
	return acc, done
}

// dial connects and returns a reader positioned after the negotiation bytes.
func dial(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	c, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	_ = c.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(c)
	neg := make([]byte, 3)
	_, err = r.Read(neg)
	require.NoError(t, err)
	assert.Equal(t, []byte{IAC, WILL, OptSuppressGoAhead}, neg)
	return c, r
}

func TestAcceptor_EchoAndQuit(t *testing.T) {
	h := &echoHandler{}
	acc, done := startAcceptor(t, h)
	require.NotEmpty(t, acc.Addr())

	c, r := dial(t, acc.Addr())
	_, err := c.Write([]byte("hello\r\n"))
	require.NoError(t, err)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", strings.TrimSpace(line))

	_, _ = c.Write([]byte("quit\r\n"))
	line, _ = r.ReadString('\n')
	assert.Equal(t, "bye", strings.TrimSpace(line))

	acc.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor did not stop in time")
	}
	assert.Equal(t, int32(1), h.sessions.Load())
}

func TestAcceptor_StopCancelsIdleSessions(t *testing.T) {
	h := &echoHandler{}
	acc, done := startAcceptor(t, h)

	const clients = 3
	for i := 0; i < clients; i++ {
		dial(t, acc.Addr())
	}
	require.Eventually(t, func() bool { return h.sessions.Load() == clients }, 2*time.Second, 10*time.Millisecond)

	acc.Stop()
	require.NoError(t, <-done)
	assert.Equal(t, int32(clients), h.cancelled.Load())
}

func TestAcceptor_StopBeforeServe(t *testing.T) {
	acc := NewAcceptor(config.TelnetConfig{}, &echoHandler{}, zaptest.NewLogger(t))
	acc.Stop()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	assert.NoError(t, acc.Serve(l))
}
