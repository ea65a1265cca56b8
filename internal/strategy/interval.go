package strategy

import (
	"context"
	"log/slog"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// IntervalStrategy alternates buy and sell on a fixed wall-clock
// cadence, independent of price. Time comes from the tick's event
// time, not the local clock, so replays behave identically to live
// runs.
type IntervalStrategy struct {
	symbol         string
	intervalTime   int64 // milliseconds
	amountPerTrade float64
	wallet         Wallet

	lastTradeTime int64
	heldBaseQty   float64
}

// NewIntervalStrategy creates a new interval strategy. intervalTime is
// the trade cadence in milliseconds.
func NewIntervalStrategy(symbol string, intervalTime int64, amountPerTrade float64, wallet Wallet) *IntervalStrategy {
	return &IntervalStrategy{
		symbol:         symbol,
		intervalTime:   intervalTime,
		amountPerTrade: amountPerTrade,
		wallet:         wallet,
		// Backdated one full interval so the first tick trades,
		// whatever its event time.
		lastTradeTime: -intervalTime,
	}
}

// OnTick trades when at least one interval has passed since the last
// trade. Ticks without an event time are ignored.
func (s *IntervalStrategy) OnTick(ctx context.Context, tick domain.Tick) {
	eventTime, ok := tick.EventTime()
	if !ok {
		return
	}

	if eventTime-s.lastTradeTime < s.intervalTime {
		return
	}
	s.lastTradeTime = eventTime

	if s.heldBaseQty == 0 {
		// NotHolding: buy. A zero fill leaves holdings at zero, so the
		// buy retries on the next qualifying tick.
		s.heldBaseQty = s.wallet.PlaceMarketBuyOrder(ctx, s.symbol, s.amountPerTrade)
		return
	}

	// Holding: sell. Only a positive fill releases the position; a
	// zero fill would otherwise silently discard an untracked holding.
	if s.wallet.PlaceMarketSellOrder(ctx, s.symbol, s.heldBaseQty) > 0.0 {
		s.heldBaseQty = 0.0
	} else {
		slog.Warn("Interval sell produced no fill, keeping position",
			slog.String("symbol", s.symbol),
			slog.Float64("held_base_qty", s.heldBaseQty))
	}
}

// HeldBaseQty returns the currently held base quantity.
func (s *IntervalStrategy) HeldBaseQty() float64 {
	return s.heldBaseQty
}
