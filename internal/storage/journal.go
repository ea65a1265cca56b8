package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/domain"
)

// TradeJournal persists every order placement in SQLite so fills
// survive restarts and can be inspected or replayed later.
type TradeJournal struct {
	db *sql.DB
}

// NewTradeJournal opens (or creates) the journal with WAL mode enabled.
func NewTradeJournal(dbPath string) (*TradeJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_order_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			side TEXT NOT NULL,
			quote_amount REAL NOT NULL,
			base_qty REAL NOT NULL,
			executed_qty REAL NOT NULL,
			status TEXT NOT NULL,
			created_unix_ms INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create trades table: %w", err)
	}

	return &TradeJournal{db: db}, nil
}

// RecordTrade appends one trade to the journal.
func (j *TradeJournal) RecordTrade(ctx context.Context, trade *domain.Trade) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO trades
			(client_order_id, symbol, side, quote_amount, base_qty, executed_qty, status, created_unix_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ClientOrderID, trade.Symbol, trade.Side,
		trade.QuoteAmount, trade.BaseQty, trade.ExecutedQty,
		trade.Status, trade.CreatedUnixMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// LoadTrades returns all journaled trades in insertion order.
func (j *TradeJournal) LoadTrades(ctx context.Context) ([]domain.Trade, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT client_order_id, symbol, side, quote_amount, base_qty, executed_qty, status, created_unix_ms
		 FROM trades ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ClientOrderID, &t.Symbol, &t.Side,
			&t.QuoteAmount, &t.BaseQty, &t.ExecutedQty,
			&t.Status, &t.CreatedUnixMs); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// Close closes the underlying database.
func (j *TradeJournal) Close() error {
	return j.db.Close()
}
