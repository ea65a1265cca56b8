package strategy

import (
	"context"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// TickHandler is the capability the connector dispatches ticks to.
// Handlers are invoked synchronously in registration order; a handler
// must not assume it sees every tick (reconnects drop messages).
type TickHandler interface {
	OnTick(ctx context.Context, tick domain.Tick)
}

// Wallet is the order-execution capability strategies depend on.
// A zero return means "no execution occurred", never an error.
type Wallet interface {
	PlaceMarketBuyOrder(ctx context.Context, symbol string, quoteAmount float64) float64
	PlaceMarketSellOrder(ctx context.Context, symbol string, baseQty float64) float64
}
