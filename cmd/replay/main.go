package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/binance"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/connector"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/infra"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/storage"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/strategy"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/wallet"
)

// replay feeds a JSON-lines file of raw ticker events through the same
// dispatch path the live connector uses, with paper execution. Useful
// for dry-running a grid against recorded market data.
func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <config-file> <ticks-file>\n\nReplay recorded ticker events through the configured strategies.\n", os.Args[0])
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig(flag.Arg(0))
	if err != nil {
		slog.Error("❌ Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger, err := infra.NewLogger(cfg)
	if err != nil {
		slog.Error("❌ Failed to set up logger", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	journal, err := storage.NewTradeJournal(":memory:")
	if err != nil {
		slog.Error("❌ Failed to open journal", slog.Any("error", err))
		os.Exit(1)
	}
	defer journal.Close()

	conn, err := connector.New(cfg.Binance.StreamURL, cfg.Binance.Symbol)
	if err != nil {
		slog.Error("❌ Failed to build connector", slog.Any("error", err))
		os.Exit(1)
	}

	paper := binance.NewPaperClient()
	conn.RegisterTickCallback(&priceFeed{client: paper, symbol: cfg.Binance.Symbol})
	w := wallet.New(paper, journal)

	if cfg.GridStrategy.Enable {
		conn.RegisterTickCallback(strategy.NewGridStrategy(
			cfg.Binance.Symbol,
			cfg.GridStrategy.ReferencePrice,
			cfg.GridStrategy.Size,
			cfg.GridStrategy.Spacing,
			cfg.GridStrategy.AmountPerTrade,
			w,
		))
	}
	if cfg.IntervalStrategy.Enable {
		conn.RegisterTickCallback(strategy.NewIntervalStrategy(
			cfg.Binance.Symbol,
			cfg.IntervalStrategy.IntervalTime,
			cfg.IntervalStrategy.AmountPerTrade,
			w,
		))
	}

	file, err := os.Open(flag.Arg(1))
	if err != nil {
		slog.Error("❌ Failed to open ticks file", slog.Any("error", err))
		os.Exit(1)
	}
	defer file.Close()

	ctx := context.Background()
	ticks := 0

	// Same code path as live: every line goes through the connector's
	// message handler, including parse-failure tolerance.
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		conn.OnMessage(ctx, line)
		ticks++
	}
	if err := scanner.Err(); err != nil {
		slog.Error("❌ Failed to read ticks file", slog.Any("error", err))
		os.Exit(1)
	}

	trades, err := journal.LoadTrades(ctx)
	if err != nil {
		slog.Error("❌ Failed to load trades", slog.Any("error", err))
		os.Exit(1)
	}

	var buys, sells int
	for _, t := range trades {
		switch t.Side {
		case binance.SideBuy:
			buys++
		case binance.SideSell:
			sells++
		}
	}

	slog.Info("✨ Replay finished",
		slog.Int("ticks", ticks),
		slog.Int("trades", len(trades)),
		slog.Int("buys", buys),
		slog.Int("sells", sells))
}

// priceFeed keeps the paper client priced from the replayed stream.
type priceFeed struct {
	client *binance.PaperClient
	symbol string
}

func (f *priceFeed) OnTick(ctx context.Context, tick domain.Tick) {
	if price, ok := tick.ClosePrice(); ok {
		f.client.UpdatePrice(f.symbol, price)
	}
}
