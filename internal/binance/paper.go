package binance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// PaperClient simulates order execution against the last seen market
// price. It satisfies the same contract as Client, so the wallet and
// strategies run unchanged in dry-run mode.
type PaperClient struct {
	mu     sync.Mutex
	prices map[string]float64
}

// NewPaperClient creates a new paper trading client.
func NewPaperClient() *PaperClient {
	return &PaperClient{
		prices: make(map[string]float64),
	}
}

// UpdatePrice records the current market price for a symbol. The
// bootstrap wires this to the tick stream so paper fills track the
// live market.
func (p *PaperClient) UpdatePrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[symbol] = price
}

// NewOrder fills every market order immediately at the last seen
// price. An order for a symbol without a known price is rejected,
// mirroring a real exchange rejecting an unknown symbol.
func (p *PaperClient) NewOrder(ctx context.Context, req NewOrderRequest) (*OrderResponse, error) {
	p.mu.Lock()
	price, ok := p.prices[req.Symbol]
	p.mu.Unlock()

	if !ok || price <= 0 {
		return nil, fmt.Errorf("paper client: no price available for %s", req.Symbol)
	}

	var executedQty decimal.Decimal
	if req.Side == SideBuy {
		executedQty = decimal.NewFromFloat(req.QuoteOrderQty).Div(decimal.NewFromFloat(price))
	} else {
		executedQty = decimal.NewFromFloat(req.Quantity)
	}

	slog.Info("PAPER EXECUTION: order filled",
		slog.String("symbol", req.Symbol),
		slog.String("side", req.Side),
		slog.String("executed_qty", executedQty.String()),
		slog.Float64("price", price))

	return &OrderResponse{
		Symbol:        req.Symbol,
		ClientOrderID: req.ClientOrderID,
		TransactTime:  time.Now().UnixMilli(),
		Status:        StatusFilled,
		ExecutedQty:   executedQty.String(),
	}, nil
}

// TickerPrice returns the last seen price for a symbol.
func (p *PaperClient) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p.mu.Lock()
	price, ok := p.prices[symbol]
	p.mu.Unlock()

	if !ok {
		return decimal.Zero, fmt.Errorf("paper client: no price available for %s", symbol)
	}
	return decimal.NewFromFloat(price), nil
}
