package infra

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketHandler defines stream-specific logic for the BaseWSWorker.
type WebSocketHandler interface {
	GetURL() string
	OnConnect(ctx context.Context, conn *websocket.Conn) error
	OnMessage(ctx context.Context, msg []byte)
	OnPing(ctx context.Context, conn *websocket.Conn) error
	ID() string
}

// DefaultRetryTime is the fixed wait between reconnect attempts.
// Reconnection is unbounded and runs at constant cadence; only context
// cancellation stops the loop.
const DefaultRetryTime = 10 * time.Second

// BaseWSWorker manages the lifecycle of a WebSocket connection.
// It handles reconnection with a fixed retry delay, read timeouts,
// and thread-safe writes. Messages are delivered to the handler
// synchronously: a slow OnMessage blocks further reads, which is the
// intended backpressure model.
type BaseWSWorker struct {
	handler WebSocketHandler
	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	RetryTime    time.Duration
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

// NewBaseWSWorker creates a new generic WebSocket worker.
func NewBaseWSWorker(handler WebSocketHandler) *BaseWSWorker {
	return &BaseWSWorker{
		handler:      handler,
		RetryTime:    DefaultRetryTime,
		ReadTimeout:  60 * time.Second,
		PingInterval: 0,
	}
}

// Start initiates the connection loop.
func (w *BaseWSWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.runLoop(ctx)
}

// Stop terminates the worker.
func (w *BaseWSWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.close()
	w.wg.Wait()
}

func (w *BaseWSWorker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("WS connection failed", "id", w.handler.ID(), "err", err)
		} else {
			// process returns when the connection closes or errors.
			w.process(ctx)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		slog.Warn("WS connection lost, retrying", "id", w.handler.ID(), "retry_time", w.RetryTime)

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.RetryTime):
		}
	}
}

func (w *BaseWSWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, w.handler.GetURL(), nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()

	// Stop's close can land between the dial and the assignment above,
	// missing the fresh conn. Re-check so shutdown never leaves a
	// connection behind for process() to block on.
	if err := ctx.Err(); err != nil {
		w.close()
		return err
	}

	if err := w.handler.OnConnect(ctx, conn); err != nil {
		w.close()
		return fmt.Errorf("OnConnect failed: %w", err)
	}

	if w.PingInterval > 0 {
		go w.pingLoop(ctx)
	}

	slog.Info("WS connected", "id", w.handler.ID())
	return nil
}

func (w *BaseWSWorker) process(ctx context.Context) {
	for {
		w.mu.RLock()
		c := w.conn
		w.mu.RUnlock()
		if c == nil {
			return
		}

		c.SetReadDeadline(time.Now().Add(w.ReadTimeout))
		_, msg, err := c.ReadMessage()
		if err != nil {
			slog.Warn("WS read error", "id", w.handler.ID(), "err", err)
			w.close()
			return
		}

		w.handler.OnMessage(ctx, msg)
	}
}

func (w *BaseWSWorker) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(w.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.RLock()
			c := w.conn
			w.mu.RUnlock()
			if c == nil {
				return
			}
			if err := w.handler.OnPing(ctx, c); err != nil {
				slog.Warn("WS ping error", "id", w.handler.ID(), "err", err)
				w.close()
				return
			}
		}
	}
}

// Write sends a message over the current connection.
func (w *BaseWSWorker) Write(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.RLock()
	c := w.conn
	w.mu.RUnlock()

	if c == nil {
		return fmt.Errorf("ws not connected")
	}

	return c.WriteMessage(msgType, data)
}

func (w *BaseWSWorker) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}
