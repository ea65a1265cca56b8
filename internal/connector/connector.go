package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/infra"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/strategy"
)

// Connector owns the lifecycle of one symbol's 24-hour ticker stream:
// connect, parse incoming messages, dispatch ticks to all registered
// handlers in registration order, and reconnect at a fixed cadence on
// close or transport error. Dispatch is synchronous on the read path;
// while a handler (and any wallet call under it) runs, no further
// ticks are processed. That blocking is the backpressure model.
type Connector struct {
	streamURL string
	symbol    string
	worker    *infra.BaseWSWorker

	mu       sync.RWMutex
	handlers []strategy.TickHandler
}

// New creates a connector for one symbol's ticker stream. The stream
// endpoint is validated here; a malformed endpoint is the only way
// construction fails.
func New(streamURL, symbol string) (*Connector, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid stream URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid stream URL scheme: %s", u.Scheme)
	}
	if symbol == "" {
		return nil, fmt.Errorf("a symbol is required")
	}

	c := &Connector{
		streamURL: strings.TrimRight(streamURL, "/"),
		symbol:    strings.ToLower(symbol),
	}
	c.worker = infra.NewBaseWSWorker(c)
	return c, nil
}

// RegisterTickCallback appends a handler to the dispatch list.
// Handlers are invoked in registration order for every tick. No
// deduplication; may be called before or after Start.
func (c *Connector) RegisterTickCallback(handler strategy.TickHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Start runs the connector until the context is cancelled. The
// reconnect loop inside has no terminal state of its own: a
// persistently broken endpoint retries forever at constant cadence.
func (c *Connector) Start(ctx context.Context) {
	slog.Info("Starting broker connector", "symbol", c.symbol)
	c.worker.Start(ctx)
	<-ctx.Done()
	c.worker.Stop()
}

// SetRetryTime overrides the fixed reconnect delay. Used by tests.
func (c *Connector) SetRetryTime(d time.Duration) {
	c.worker.RetryTime = d
}

// ID identifies the worker in logs.
func (c *Connector) ID() string { return "BINANCE" }

// GetURL returns the raw-stream endpoint for the symbol's ticker
// channel. Subscription happens through the URL path, so OnConnect has
// nothing left to negotiate.
func (c *Connector) GetURL() string {
	return fmt.Sprintf("%s/ws/%s@ticker", c.streamURL, c.symbol)
}

// OnConnect is called once the stream is established.
func (c *Connector) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	slog.Info("Subscribed to ticker stream", "symbol", c.symbol)
	return nil
}

// OnMessage parses one raw stream message and routes it. Malformed
// messages are logged and dropped; a tick without an event-type field
// is dropped silently; unknown event types are logged and ignored.
// Handlers receive the raw tick, not the translated form.
func (c *Connector) OnMessage(ctx context.Context, msg []byte) {
	var tick domain.Tick
	if err := json.Unmarshal(msg, &tick); err != nil {
		slog.Warn("Could not parse json result of server", slog.Any("error", err))
		return
	}

	eventType, ok := tick.EventType()
	if !ok {
		return
	}

	switch eventType {
	case domain.Event24hTicker:
		slog.Debug("Binance input message", slog.Any("tick", domain.TranslateTickerData(tick)))
		c.dispatch(ctx, tick)
	default:
		slog.Info("Unknown event type")
	}
}

// OnPing is a no-op: the Binance stream pings the client and gorilla
// answers with pong frames on its own.
func (c *Connector) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return nil
}

func (c *Connector) dispatch(ctx context.Context, tick domain.Tick) {
	c.mu.RLock()
	handlers := c.handlers
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler.OnTick(ctx, tick)
	}
}
