package connector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// recorder is a tick handler that captures dispatched ticks. The tag
// lets tests verify registration-order dispatch.
type recorder struct {
	mu    sync.Mutex
	tag   string
	order *[]string
	ticks []domain.Tick
}

func (r *recorder) OnTick(ctx context.Context, tick domain.Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, tick)
	if r.order != nil {
		*r.order = append(*r.order, r.tag)
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

func TestNew_ValidatesStreamURL(t *testing.T) {
	tests := []struct {
		name      string
		streamURL string
		symbol    string
		wantErr   bool
	}{
		{"wss", "wss://stream.binance.com:9443", "BTCUSDT", false},
		{"ws", "ws://localhost:1234", "BTCUSDT", false},
		{"http scheme", "http://stream.binance.com", "BTCUSDT", true},
		{"garbage", "://nope", "BTCUSDT", true},
		{"empty symbol", "wss://stream.binance.com:9443", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.streamURL, tt.symbol)
			if tt.wantErr && err == nil {
				t.Error("Expected construction error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestConnector_StreamURL(t *testing.T) {
	conn, err := New("wss://stream.binance.com:9443", "BTCUSDT")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := "wss://stream.binance.com:9443/ws/btcusdt@ticker"
	if got := conn.GetURL(); got != want {
		t.Errorf("GetURL() = %s, want %s", got, want)
	}
}

func TestConnector_DispatchesRawTickInOrder(t *testing.T) {
	conn, err := New("wss://example.com", "BTCUSDT")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	var order []string
	first := &recorder{tag: "first", order: &order}
	second := &recorder{tag: "second", order: &order}
	conn.RegisterTickCallback(first)
	conn.RegisterTickCallback(second)

	conn.OnMessage(context.Background(), []byte(`{"e":"24hrTicker","E":1672515782136,"s":"BTCUSDT","c":"99.5"}`))

	if first.count() != 1 || second.count() != 1 {
		t.Fatalf("Expected both handlers invoked once, got %d and %d", first.count(), second.count())
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected registration-order dispatch, got %v", order)
	}

	// Handlers see the raw single-letter keys, not the translated form.
	tick := first.ticks[0]
	if tick["c"] != "99.5" {
		t.Errorf("Expected raw key 'c', got tick %v", tick)
	}
	if _, translated := tick["Current Close Price"]; translated {
		t.Error("Callback payload must not be translated")
	}
}

func TestConnector_DropsBadMessages(t *testing.T) {
	conn, err := New("wss://example.com", "BTCUSDT")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	handler := &recorder{}
	conn.RegisterTickCallback(handler)
	ctx := context.Background()

	// Unparsable message: logged and discarded.
	conn.OnMessage(ctx, []byte(`{not json`))
	// Unknown event type: logged and ignored.
	conn.OnMessage(ctx, []byte(`{"e":"kline","c":"99.5"}`))
	// Missing event type: dropped silently.
	conn.OnMessage(ctx, []byte(`{"s":"BTCUSDT","c":"99.5"}`))

	if handler.count() != 0 {
		t.Errorf("Expected no dispatches, got %d", handler.count())
	}

	// Processing continues after bad input.
	conn.OnMessage(ctx, []byte(`{"e":"24hrTicker","c":"99.5"}`))
	if handler.count() != 1 {
		t.Errorf("Expected dispatch after recovery, got %d", handler.count())
	}
}

func TestConnector_RegisterAfterStart(t *testing.T) {
	conn, err := New("wss://example.com", "BTCUSDT")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	early := &recorder{}
	conn.RegisterTickCallback(early)
	conn.OnMessage(context.Background(), []byte(`{"e":"24hrTicker","c":"1"}`))

	late := &recorder{}
	conn.RegisterTickCallback(late)
	conn.OnMessage(context.Background(), []byte(`{"e":"24hrTicker","c":"2"}`))

	if early.count() != 2 {
		t.Errorf("Expected early handler to see both ticks, got %d", early.count())
	}
	if late.count() != 1 {
		t.Errorf("Expected late handler to see one tick, got %d", late.count())
	}
}

func TestConnector_StreamsAndReconnects(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	var mu sync.Mutex
	var connects []time.Time

	// Each connection delivers one ticker message, then drops.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		connects = append(connects, time.Now())
		mu.Unlock()

		c.WriteMessage(websocket.TextMessage, []byte(`{"e":"24hrTicker","E":1,"c":"99.5"}`))
		time.Sleep(20 * time.Millisecond)
		c.Close()
	}))
	defer server.Close()

	streamURL := strings.Replace(server.URL, "http://", "ws://", 1)
	conn, err := New(streamURL, "BTCUSDT")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	retryTime := 50 * time.Millisecond
	conn.SetRetryTime(retryTime)

	handler := &recorder{}
	conn.RegisterTickCallback(handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		conn.Start(ctx)
		close(done)
	}()

	// Enough time for the first session plus at least two reconnects.
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}

	mu.Lock()
	times := append([]time.Time(nil), connects...)
	mu.Unlock()

	if len(times) < 3 {
		t.Fatalf("Expected at least 3 connections, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < retryTime {
			t.Errorf("Reconnect %d after %v, want >= %v", i, gap, retryTime)
		}
	}

	if handler.count() < 3 {
		t.Errorf("Expected a tick per connection, got %d", handler.count())
	}
}
