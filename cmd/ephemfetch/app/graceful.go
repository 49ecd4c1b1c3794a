package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/monshunter/ephemfetch/pkg/interfaces"
	"github.com/monshunter/ephemfetch/pkg/log"
)

// exitInterrupted is the conventional status after SIGINT
const exitInterrupted = 130

// GracefulShutdownHandler cancels the run and aborts the archive session on
// SIGINT or SIGTERM
type GracefulShutdownHandler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	exitFunc func(int) // Allow injection of exit function for testing

	mu      sync.Mutex
	session interfaces.SessionAborter
}

// NewGracefulShutdownHandler creates a new graceful shutdown handler
func NewGracefulShutdownHandler() *GracefulShutdownHandler {
	ctx, cancel := context.WithCancel(context.Background())

	handler := &GracefulShutdownHandler{
		ctx:      ctx,
		cancel:   cancel,
		sigChan:  make(chan os.Signal, 1),
		exitFunc: os.Exit,
	}

	signal.Notify(handler.sigChan, os.Interrupt, syscall.SIGTERM)
	go handler.handleSignals()

	return handler
}

// SetSession sets the session aborted on shutdown. The run may be inside a
// remote command at that moment, so the session is dropped rather than
// closed.
func (h *GracefulShutdownHandler) SetSession(session interfaces.SessionAborter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = session
}

// Context returns the context that will be cancelled on shutdown
func (h *GracefulShutdownHandler) Context() context.Context {
	return h.ctx
}

// Close stops listening for signals and cancels the context
func (h *GracefulShutdownHandler) Close() {
	signal.Stop(h.sigChan)
	h.cancel()
}

// SetExitFunc sets a custom exit function (useful for testing)
func (h *GracefulShutdownHandler) SetExitFunc(exitFunc func(int)) {
	h.exitFunc = exitFunc
}

func (h *GracefulShutdownHandler) handleSignals() {
	select {
	case sig := <-h.sigChan:
		h.shutdown(sig)
	case <-h.ctx.Done():
	}
}

func (h *GracefulShutdownHandler) shutdown(sig os.Signal) {
	log.Infof("Received signal %v, disconnecting...", sig)
	h.cancel()

	h.mu.Lock()
	session := h.session
	h.mu.Unlock()
	if session != nil {
		if err := session.Abort(); err != nil {
			log.Errorf("Error while disconnecting: %v", err)
		}
	}

	h.exitFunc(exitInterrupted)
}
