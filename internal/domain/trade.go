package domain

// Trade is one journaled order placement, filled or not.
type Trade struct {
	ClientOrderID string  `json:"client_order_id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"` // "BUY", "SELL"
	QuoteAmount   float64 `json:"quote_amount"`
	BaseQty       float64 `json:"base_qty"` // requested qty on sells, executed qty on buys
	ExecutedQty   float64 `json:"executed_qty"`
	Status        string  `json:"status"` // "FILLED", "REJECTED", ...
	CreatedUnixMs int64   `json:"created_unix_ms"`
}

// Filled reports whether the trade executed fully.
func (t *Trade) Filled() bool {
	return t.Status == "FILLED"
}
