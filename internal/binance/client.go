package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jonathaneeckhout/binance-crypto-trading-bot/internal/infra"
)

// Client is the Binance spot REST client. Signing, rate limiting and
// fault isolation live here so callers never deal with them.
type Client struct {
	baseURL    string
	signer     *Signer
	httpClient *http.Client

	orderLimiter  *infra.RateLimiter
	marketLimiter *infra.RateLimiter
	breaker       *infra.CircuitBreaker
}

// NewClient creates a new Binance REST client.
func NewClient(apiURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL: strings.TrimRight(apiURL, "/"),
		signer:  NewSigner(apiKey, apiSecret),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		orderLimiter:  infra.GetBinanceOrderLimiter(),
		marketLimiter: infra.GetBinanceMarketLimiter(),
		breaker:       infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("binance-rest")),
	}
}

// Close wipes the API keys from memory.
func (c *Client) Close() {
	c.signer.Wipe()
}

// NewOrder submits an order to the exchange and returns the parsed
// response. Any transport, auth or exchange-side rejection comes back
// as an error; the caller decides what a failed order means.
func (c *Client) NewOrder(ctx context.Context, req NewOrderRequest) (*OrderResponse, error) {
	if !c.breaker.Allow() {
		return nil, fmt.Errorf("order rejected: circuit breaker %s", c.breaker.GetState())
	}
	c.orderLimiter.Wait()

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(req.Symbol))
	params.Set("side", req.Side)
	params.Set("type", req.Type)
	if req.QuoteOrderQty > 0 {
		// decimal avoids float artifacts like 50.000000000000004 in
		// request parameters.
		params.Set("quoteOrderQty", decimal.NewFromFloat(req.QuoteOrderQty).String())
	}
	if req.Quantity > 0 {
		params.Set("quantity", decimal.NewFromFloat(req.Quantity).String())
	}
	if req.ClientOrderID != "" {
		params.Set("newClientOrderId", req.ClientOrderID)
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	query := params.Encode()
	query += "&signature=" + c.signer.Sign(query)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v3/order?"+query, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("X-MBX-APIKEY", c.signer.APIKey())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, fmt.Errorf("order request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = string(body)
		}
		// A rejected order is an answer from the exchange, not an
		// outage; only 5xx and 429 count against the breaker.
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return nil, apiErr
	}

	c.breaker.RecordSuccess()

	var orderResp OrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("failed to parse order response: %w", err)
	}

	slog.Debug("Binance order response",
		slog.String("client_order_id", orderResp.ClientOrderID),
		slog.String("status", orderResp.Status),
		slog.String("executed_qty", orderResp.ExecutedQty))

	return &orderResp, nil
}

// TickerPrice fetches the latest trade price for a symbol.
func (c *Client) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	c.marketLimiter.Wait()

	u := c.baseURL + "/api/v3/ticker/price?symbol=" + url.QueryEscape(strings.ToUpper(symbol))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker price request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = string(body)
		}
		return decimal.Zero, apiErr
	}

	var payload struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse ticker price: %w", err)
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ticker price %q: %w", payload.Price, err)
	}
	return price, nil
}
