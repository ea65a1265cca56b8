package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/binance"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/connector"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/infra"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/storage"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/strategy"
	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/wallet"
)

// Bootstrap orchestrates the application startup sequence: config,
// logger, journal, exchange client, wallet, strategies, connector.
type Bootstrap struct {
	Config    *infra.Config
	Journal   *storage.TradeJournal
	Connector *connector.Connector
	Wallet    *wallet.Wallet

	liveClient *binance.Client
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize wires the whole bot together. Any error here is a setup
// fault and fatal; once Run starts, nothing inside the stream loop
// aborts the process.
func (b *Bootstrap) Initialize(configPath string, creds infra.Credentials) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger, err := infra.NewLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	live := creds.IsSet() && !cfg.Binance.DryRun
	infra.PrintBanner(cfg, live)
	slog.Info("🚀 Bootstrapping trading bot", "symbol", cfg.Binance.Symbol, "live", live)

	// Trade journal
	dbPath := cfg.Storage.TradesDB
	if dbPath == "" {
		dataDir := filepath.Join(infra.GetWorkspaceDir(), "data")
		if err := infra.EnsureDir(dataDir); err != nil {
			return fmt.Errorf("failed to create data dir: %w", err)
		}
		dbPath = filepath.Join(dataDir, "trades.db")
	}
	journal, err := storage.NewTradeJournal(dbPath)
	if err != nil {
		return err
	}
	b.Journal = journal
	slog.Info("✅ Trade journal ready (WAL-mode)", "path", dbPath)

	conn, err := connector.New(cfg.Binance.StreamURL, cfg.Binance.Symbol)
	if err != nil {
		return err
	}
	b.Connector = conn

	// Exchange client. Without credentials (or with dry_run set) every
	// order goes to the paper client, which fills at the last streamed
	// price.
	var client wallet.ExchangeClient
	if live {
		b.liveClient = binance.NewClient(cfg.Binance.APIURL, creds.APIKey, creds.APISecret)
		client = b.liveClient
	} else {
		paper := binance.NewPaperClient()
		// Registered first so paper fills always see the tick that
		// triggered the strategy.
		conn.RegisterTickCallback(&paperPriceFeed{client: paper, symbol: cfg.Binance.Symbol})
		client = paper
		slog.Info("🔒 No credentials or dry_run set, using paper execution")
	}
	b.Wallet = wallet.New(client, journal)

	if cfg.GridStrategy.Enable {
		grid := strategy.NewGridStrategy(
			cfg.Binance.Symbol,
			cfg.GridStrategy.ReferencePrice,
			cfg.GridStrategy.Size,
			cfg.GridStrategy.Spacing,
			cfg.GridStrategy.AmountPerTrade,
			b.Wallet,
		)
		conn.RegisterTickCallback(grid)
		slog.Info("✅ Grid strategy registered",
			"size", cfg.GridStrategy.Size,
			"reference_price", cfg.GridStrategy.ReferencePrice,
			"spacing", cfg.GridStrategy.Spacing)
	}

	if cfg.IntervalStrategy.Enable {
		interval := strategy.NewIntervalStrategy(
			cfg.Binance.Symbol,
			cfg.IntervalStrategy.IntervalTime,
			cfg.IntervalStrategy.AmountPerTrade,
			b.Wallet,
		)
		conn.RegisterTickCallback(interval)
		slog.Info("✅ Interval strategy registered",
			"interval_time_ms", cfg.IntervalStrategy.IntervalTime)
	}

	return nil
}

// Run performs last sanity checks and drives the connector until the
// context is cancelled.
func (b *Bootstrap) Run(ctx context.Context) {
	b.checkGridReference(ctx)

	slog.Info("✨ Bot operational, consuming ticker stream")
	b.Connector.Start(ctx)
}

// Close releases resources and wipes secrets.
func (b *Bootstrap) Close() {
	if b.liveClient != nil {
		b.liveClient.Close()
	}
	if b.Journal != nil {
		b.Journal.Close()
	}
}

// checkGridReference warns when the configured grid reference price is
// more than 10% away from the current market price. Grid levels are
// fixed for the strategy's lifetime, so a stale reference means the
// grid may never trade.
func (b *Bootstrap) checkGridReference(ctx context.Context) {
	if !b.Config.GridStrategy.Enable || b.liveClient == nil {
		return
	}

	market, err := b.liveClient.TickerPrice(ctx, b.Config.Binance.Symbol)
	if err != nil {
		slog.Warn("Could not fetch market price for grid reference check", slog.Any("error", err))
		return
	}

	reference := decimal.NewFromFloat(b.Config.GridStrategy.ReferencePrice)
	threshold := market.Mul(decimal.NewFromFloat(0.1))
	if market.Sub(reference).Abs().GreaterThan(threshold) {
		slog.Warn("Grid reference price is far from the market",
			"reference_price", reference.String(),
			"market_price", market.String())
	}
}

// paperPriceFeed keeps the paper client's view of the market current.
type paperPriceFeed struct {
	client *binance.PaperClient
	symbol string
}

func (f *paperPriceFeed) OnTick(ctx context.Context, tick domain.Tick) {
	if price, ok := tick.ClosePrice(); ok {
		f.client.UpdatePrice(f.symbol, price)
	}
}
