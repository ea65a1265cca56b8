package wallet

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/binance"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// ExchangeClient is the order-placement capability the wallet needs.
// Both the live Binance client and the paper client satisfy it.
type ExchangeClient interface {
	NewOrder(ctx context.Context, req binance.NewOrderRequest) (*binance.OrderResponse, error)
}

// Journal records order placements. Nil-able collaborator; the wallet
// works without one.
type Journal interface {
	RecordTrade(ctx context.Context, trade *domain.Trade) error
}

// Wallet turns a strategy's trade decision into an exchange order and
// normalizes the result. It is a stateless execution façade: errors
// never propagate to the caller, a zero return means "no execution
// occurred".
type Wallet struct {
	client  ExchangeClient
	journal Journal
}

// New creates a wallet around an exchange client. journal may be nil.
func New(client ExchangeClient, journal Journal) *Wallet {
	return &Wallet{client: client, journal: journal}
}

// PlaceMarketBuyOrder submits a market buy sized by quote currency
// amount and returns the executed base quantity, or 0.0 when the order
// was rejected or not fully filled.
func (w *Wallet) PlaceMarketBuyOrder(ctx context.Context, symbol string, quoteAmount float64) float64 {
	slog.Info("Placing buy order",
		slog.String("symbol", symbol),
		slog.Float64("quote_amount", quoteAmount))

	req := binance.NewOrderRequest{
		Symbol:        symbol,
		Side:          binance.SideBuy,
		Type:          binance.TypeMarket,
		QuoteOrderQty: quoteAmount,
		ClientOrderID: uuid.NewString(),
	}

	filled := w.execute(ctx, req)
	w.record(ctx, req, filled)
	return filled
}

// PlaceMarketSellOrder submits a market sell sized by base quantity,
// with the same zero-on-failure contract as buys.
func (w *Wallet) PlaceMarketSellOrder(ctx context.Context, symbol string, baseQty float64) float64 {
	slog.Info("Placing sell order",
		slog.String("symbol", symbol),
		slog.Float64("base_qty", baseQty))

	req := binance.NewOrderRequest{
		Symbol:        symbol,
		Side:          binance.SideSell,
		Type:          binance.TypeMarket,
		Quantity:      baseQty,
		ClientOrderID: uuid.NewString(),
	}

	filled := w.execute(ctx, req)
	w.record(ctx, req, filled)
	return filled
}

func (w *Wallet) execute(ctx context.Context, req binance.NewOrderRequest) float64 {
	resp, err := w.client.NewOrder(ctx, req)
	if err != nil {
		slog.Error("Order failed",
			slog.String("symbol", req.Symbol),
			slog.String("side", req.Side),
			slog.Any("error", err))
		return 0.0
	}

	if resp.Status != binance.StatusFilled {
		slog.Warn("Order not filled",
			slog.String("symbol", req.Symbol),
			slog.String("side", req.Side),
			slog.String("status", resp.Status))
		return 0.0
	}

	executedQty, err := strconv.ParseFloat(resp.ExecutedQty, 64)
	if err != nil {
		slog.Error("Order filled with unparsable executed quantity",
			slog.String("symbol", req.Symbol),
			slog.String("executed_qty", resp.ExecutedQty),
			slog.Any("error", err))
		return 0.0
	}

	slog.Info("Order filled",
		slog.String("symbol", req.Symbol),
		slog.String("side", req.Side),
		slog.Float64("executed_qty", executedQty))

	return executedQty
}

// record journals the placement. Journal failures are logged and
// swallowed: bookkeeping must never break trading.
func (w *Wallet) record(ctx context.Context, req binance.NewOrderRequest, filled float64) {
	if w.journal == nil {
		return
	}

	status := binance.StatusFilled
	if filled == 0 {
		status = "REJECTED"
	}

	trade := &domain.Trade{
		ClientOrderID: req.ClientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		QuoteAmount:   req.QuoteOrderQty,
		BaseQty:       req.Quantity,
		ExecutedQty:   filled,
		Status:        status,
		CreatedUnixMs: time.Now().UnixMilli(),
	}
	if err := w.journal.RecordTrade(ctx, trade); err != nil {
		slog.Warn("Failed to journal trade",
			slog.String("client_order_id", req.ClientOrderID),
			slog.Any("error", err))
	}
}
