package binance

import "fmt"

// Order sides and types used by the bot. Market orders only; the
// strategies never place limit orders.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeMarket = "MARKET"

	StatusFilled = "FILLED"
)

// NewOrderRequest describes a market order. Buys are sized by quote
// currency amount (QuoteOrderQty), sells by base quantity (Quantity).
type NewOrderRequest struct {
	Symbol        string
	Side          string
	Type          string
	QuoteOrderQty float64
	Quantity      float64
	ClientOrderID string
}

// OrderResponse is the subset of Binance's order placement response
// the bot acts on.
type OrderResponse struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	ClientOrderID       string `json:"clientOrderId"`
	TransactTime        int64  `json:"transactTime"`
	Status              string `json:"status"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
}

// APIError is a client-level rejection from the exchange.
type APIError struct {
	HTTPStatus int
	Code       int    `json:"code"`
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance API error: status=%d code=%d msg=%s", e.HTTPStatus, e.Code, e.Message)
}
