package strategy_test

import (
	"context"
	"math"
	"testing"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/strategy"
)

// fakeWallet records order placements and returns configurable fills.
type fakeWallet struct {
	buyFill  float64
	sellFill float64
	buys     []float64 // quote amounts
	sells    []float64 // base quantities
}

func (w *fakeWallet) PlaceMarketBuyOrder(ctx context.Context, symbol string, quoteAmount float64) float64 {
	w.buys = append(w.buys, quoteAmount)
	return w.buyFill
}

func (w *fakeWallet) PlaceMarketSellOrder(ctx context.Context, symbol string, baseQty float64) float64 {
	w.sells = append(w.sells, baseQty)
	return w.sellFill
}

func priceTick(price float64) domain.Tick {
	return domain.Tick{"e": "24hrTicker", "c": price}
}

func TestGridStrategy_LevelConstruction(t *testing.T) {
	wallet := &fakeWallet{}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet)

	levels := grid.Levels()
	if len(levels) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(levels))
	}

	// buy_i = R − i·S, sell_i = R − (i−1)·S
	for i, level := range levels {
		n := float64(i + 1)
		wantBuy := 100 - n*1
		wantSell := 100 - (n-1)*1

		if math.Abs(level.BuyPrice-wantBuy) > 1e-9 {
			t.Errorf("Level %d: buy price = %v, want %v", i+1, level.BuyPrice, wantBuy)
		}
		if math.Abs(level.SellPrice-wantSell) > 1e-9 {
			t.Errorf("Level %d: sell price = %v, want %v", i+1, level.SellPrice, wantSell)
		}
		if level.SellPrice <= level.BuyPrice {
			t.Errorf("Level %d: sell price %v not above buy price %v", i+1, level.SellPrice, level.BuyPrice)
		}
		if level.Holding || level.HeldBaseQty != 0 {
			t.Errorf("Level %d: expected idle with zero holdings, got %+v", i+1, level)
		}
	}

	// Levels strictly descending
	for i := 1; i < len(levels); i++ {
		if levels[i].BuyPrice >= levels[i-1].BuyPrice {
			t.Errorf("Levels not strictly descending: %v then %v", levels[i-1].BuyPrice, levels[i].BuyPrice)
		}
	}
}

func TestGridStrategy_BuyThenSellScenario(t *testing.T) {
	// R=100, S=1, N=3: levels (99,100), (98,99), (97,98)
	wallet := &fakeWallet{buyFill: 0.5, sellFill: 0.5}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet)
	ctx := context.Background()

	// price=99 hits level 1's buy zone only
	grid.OnTick(ctx, priceTick(99))

	if len(wallet.buys) != 1 {
		t.Fatalf("Expected 1 buy, got %d", len(wallet.buys))
	}
	if wallet.buys[0] != 50 {
		t.Errorf("Expected buy for quote amount 50, got %v", wallet.buys[0])
	}

	levels := grid.Levels()
	if !levels[0].Holding || levels[0].HeldBaseQty != 0.5 {
		t.Errorf("Level 1 should hold 0.5, got %+v", levels[0])
	}
	if levels[1].Holding || levels[2].Holding {
		t.Error("Levels 2-3 should be untouched")
	}

	// price=100 hits level 1's sell zone, levels 2-3 untouched
	grid.OnTick(ctx, priceTick(100))

	if len(wallet.sells) != 1 {
		t.Fatalf("Expected 1 sell, got %d", len(wallet.sells))
	}
	if wallet.sells[0] != 0.5 {
		t.Errorf("Expected sell of held 0.5, got %v", wallet.sells[0])
	}

	levels = grid.Levels()
	if levels[0].Holding || levels[0].HeldBaseQty != 0 {
		t.Errorf("Level 1 should be idle again, got %+v", levels[0])
	}
	if len(wallet.buys) != 1 {
		t.Errorf("Sell tick should not trigger additional buys, got %d", len(wallet.buys))
	}
}

func TestGridStrategy_Idempotence(t *testing.T) {
	wallet := &fakeWallet{buyFill: 0.5, sellFill: 0.5}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet)
	ctx := context.Background()

	// Same price twice while holding: no second buy for that level.
	grid.OnTick(ctx, priceTick(99))
	grid.OnTick(ctx, priceTick(99))

	if len(wallet.buys) != 1 {
		t.Errorf("Expected exactly 1 buy after repeated tick, got %d", len(wallet.buys))
	}

	// Same price twice while idle and above the buy threshold: no buy.
	wallet2 := &fakeWallet{buyFill: 0.5}
	grid2 := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet2)
	grid2.OnTick(ctx, priceTick(100.5))
	grid2.OnTick(ctx, priceTick(100.5))

	if len(wallet2.buys) != 0 {
		t.Errorf("Expected no buys above the grid, got %d", len(wallet2.buys))
	}
}

func TestGridStrategy_ZeroFillBuyKeepsLevelIdle(t *testing.T) {
	wallet := &fakeWallet{buyFill: 0}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 1, 1, 50, wallet)
	ctx := context.Background()

	grid.OnTick(ctx, priceTick(99))

	levels := grid.Levels()
	if levels[0].Holding {
		t.Error("Zero-fill buy must not transition the level to holding")
	}

	// Next qualifying tick retries the buy.
	grid.OnTick(ctx, priceTick(99))
	if len(wallet.buys) != 2 {
		t.Errorf("Expected buy retry after zero fill, got %d buys", len(wallet.buys))
	}

	// A sell must never fire for a level that holds nothing.
	grid.OnTick(ctx, priceTick(101))
	if len(wallet.sells) != 0 {
		t.Errorf("Expected no sells, got %d", len(wallet.sells))
	}
}

func TestGridStrategy_IgnoresTickWithoutPrice(t *testing.T) {
	wallet := &fakeWallet{buyFill: 0.5}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet)

	grid.OnTick(context.Background(), domain.Tick{"e": "24hrTicker"})

	if len(wallet.buys) != 0 || len(wallet.sells) != 0 {
		t.Error("Tick without close price must be ignored")
	}
}

func TestGridStrategy_DisjointLevels(t *testing.T) {
	// A deep dip buys every level; the climb back sells them one by one.
	wallet := &fakeWallet{buyFill: 1, sellFill: 1}
	grid := strategy.NewGridStrategy("BTCUSDT", 100, 3, 1, 50, wallet)
	ctx := context.Background()

	grid.OnTick(ctx, priceTick(97)) // at or below all three buy prices
	if len(wallet.buys) != 3 {
		t.Fatalf("Expected 3 buys on deep dip, got %d", len(wallet.buys))
	}

	grid.OnTick(ctx, priceTick(98)) // sell zone of level 3 only
	if len(wallet.sells) != 1 {
		t.Errorf("Expected 1 sell at 98, got %d", len(wallet.sells))
	}

	grid.OnTick(ctx, priceTick(100)) // sell zones of levels 1 and 2
	if len(wallet.sells) != 3 {
		t.Errorf("Expected all 3 sells after full recovery, got %d", len(wallet.sells))
	}
}
