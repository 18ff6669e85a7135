package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rpsdungeon/internal/config"
)

// SessionHandler runs the command loop for one connected client. It should
// return when ctx is cancelled or the client disconnects.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for telnet connections and runs a SessionHandler for each
// on its own goroutine. It satisfies server.Service.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
}

// NewAcceptor creates an Acceptor.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		ready:   make(chan struct{}),
	}
}

// Start listens on the configured address and serves until Stop.
func (a *Acceptor) Start() error {
	l, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(l)
}

// Serve accepts connections on l until Stop is called.
//
// Postcondition: l is closed when Serve returns. A Stop-initiated return is nil.
func (a *Acceptor) Serve(l net.Listener) error {
	a.mu.Lock()
	if a.listener != nil {
		a.mu.Unlock()
		_ = l.Close()
		return errors.New("telnet: acceptor already serving")
	}
	a.listener = l
	a.mu.Unlock()
	close(a.ready)

	if a.ctx.Err() != nil {
		_ = l.Close()
		return nil
	}
	a.logger.Info("telnet acceptor listening", zap.String("addr", l.Addr().String()))

	for {
		raw, err := l.Accept()
		if err != nil {
			if a.ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.wg.Add(1)
		go a.handleConn(raw)
	}
}

func (a *Acceptor) handleConn(raw net.Conn) {
	defer a.wg.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	log := a.logger.With(zap.String("remote_addr", addr))
	log.Info("client connected")

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	if err := conn.Negotiate(); err != nil {
		log.Warn("telnet negotiation failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	// A blocked ReadLine only returns once the socket closes.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		log.Debug("session ended", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Info("session ended cleanly", zap.Duration("duration", time.Since(start)))
}

// Stop closes the listener, cancels every session and waits for them.
//
// Postcondition: All connections are closed and goroutines have exited.
func (a *Acceptor) Stop() {
	a.cancel()
	a.mu.Lock()
	l := a.listener
	a.mu.Unlock()
	if l != nil {
		_ = l.Close()
	}
	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
}

// Ready is closed once the acceptor has a listener.
func (a *Acceptor) Ready() <-chan struct{} { return a.ready }

// Addr returns the listening address, or "" before Serve.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}
