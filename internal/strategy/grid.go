package strategy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// gridOrder is one grid level: a fixed buy/sell price band with a
// two-state machine (idle / holding). Levels are owned exclusively by
// their strategy and are only ever touched from the tick path, so no
// locking is needed.
type gridOrder struct {
	name        string
	buyPrice    float64
	sellPrice   float64
	holding     bool
	heldBaseQty float64
}

// GridLevel is a read-only snapshot of one grid level.
type GridLevel struct {
	Name        string
	BuyPrice    float64
	SellPrice   float64
	Holding     bool
	HeldBaseQty float64
}

// GridStrategy runs N independent two-state order machines over the
// same symbol: buy a fixed quote amount when the price dips into a
// level's buy zone, sell the held quantity when it rises back into the
// level's sell zone. Levels are fixed for the strategy's lifetime.
type GridStrategy struct {
	symbol         string
	referencePrice float64
	size           int
	spacing        float64
	amountPerTrade float64
	wallet         Wallet
	orders         []*gridOrder
}

// NewGridStrategy builds the strategy and its grid. Level i
// (1-indexed) buys at reference − i·spacing and sells at
// reference − (i−1)·spacing, so levels are strictly descending and
// non-overlapping.
func NewGridStrategy(symbol string, referencePrice float64, size int, spacing float64, amountPerTrade float64, wallet Wallet) *GridStrategy {
	s := &GridStrategy{
		symbol:         symbol,
		referencePrice: referencePrice,
		size:           size,
		spacing:        spacing,
		amountPerTrade: amountPerTrade,
		wallet:         wallet,
	}

	s.orders = make([]*gridOrder, 0, size)
	for i := 1; i <= size; i++ {
		s.orders = append(s.orders, &gridOrder{
			name:      fmt.Sprintf("grid_%d", i),
			buyPrice:  referencePrice - float64(i)*spacing,
			sellPrice: referencePrice - float64(i-1)*spacing,
		})
	}

	return s
}

// OnTick evaluates every grid level against the tick's close price.
// Ticks without a close price are ignored.
func (s *GridStrategy) OnTick(ctx context.Context, tick domain.Tick) {
	price, ok := tick.ClosePrice()
	if !ok {
		return
	}

	for _, order := range s.orders {
		s.processOrder(ctx, order, price)
	}
}

func (s *GridStrategy) processOrder(ctx context.Context, order *gridOrder, price float64) {
	if !order.holding && price <= order.buyPrice {
		filled := s.wallet.PlaceMarketBuyOrder(ctx, s.symbol, s.amountPerTrade)
		if filled <= 0 {
			// No fill means no position: the level stays idle and
			// retries on the next qualifying tick.
			slog.Warn("Grid buy produced no fill, level stays idle",
				slog.String("level", order.name),
				slog.Float64("price", price))
			return
		}

		order.heldBaseQty = filled
		order.holding = true
		slog.Info("Grid level filled",
			slog.String("level", order.name),
			slog.Float64("buy_price", order.buyPrice),
			slog.Float64("held_base_qty", order.heldBaseQty))
		return
	}

	if order.holding && price >= order.sellPrice {
		s.wallet.PlaceMarketSellOrder(ctx, s.symbol, order.heldBaseQty)
		// The level resets regardless of the reported sell fill.
		order.holding = false
		order.heldBaseQty = 0
		slog.Info("Grid level sold",
			slog.String("level", order.name),
			slog.Float64("sell_price", order.sellPrice))
	}
}

// Levels returns a snapshot of all grid levels, highest first.
func (s *GridStrategy) Levels() []GridLevel {
	levels := make([]GridLevel, 0, len(s.orders))
	for _, o := range s.orders {
		levels = append(levels, GridLevel{
			Name:        o.name,
			BuyPrice:    o.buyPrice,
			SellPrice:   o.sellPrice,
			Holding:     o.holding,
			HeldBaseQty: o.heldBaseQty,
		})
	}
	return levels
}
