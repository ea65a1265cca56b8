package domain

import "strconv"

// Tick is one parsed market-data update, keyed by Binance's raw
// single-letter field names. Callbacks receive the raw tick; the
// readable-key translation below is a diagnostic aid only.
type Tick map[string]any

// EventType is a closed set of stream event kinds.
type EventType int

const (
	EventUnknown EventType = iota
	Event24hTicker
)

func (e EventType) String() string {
	switch e {
	case Event24hTicker:
		return "24hrTicker"
	default:
		return "unknown"
	}
}

// ParseEventType maps the raw "e" field value to an EventType.
func ParseEventType(s string) EventType {
	switch s {
	case "24hrTicker":
		return Event24hTicker
	default:
		return EventUnknown
	}
}

// EventType returns the tick's event type. The second return value is
// false when the event-type field is absent, in which case the tick
// must be dropped silently.
func (t Tick) EventType() (EventType, bool) {
	raw, ok := t["e"]
	if !ok {
		return EventUnknown, false
	}
	s, ok := raw.(string)
	if !ok {
		return EventUnknown, false
	}
	return ParseEventType(s), true
}

// ClosePrice returns the current close price ("c"). A tick without a
// parsable close price is ignored by price-driven strategies.
func (t Tick) ClosePrice() (float64, bool) {
	return t.floatField("c")
}

// EventTime returns the event time ("E") in milliseconds since epoch.
func (t Tick) EventTime() (int64, bool) {
	raw, ok := t["E"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		// encoding/json decodes numbers into float64 for map values.
		return int64(v), true
	case int64:
		return v, true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Symbol returns the tick's symbol ("s").
func (t Tick) Symbol() (string, bool) {
	s, ok := t["s"].(string)
	return s, ok
}

func (t Tick) floatField(key string) (float64, bool) {
	raw, ok := t[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case string:
		// Binance sends prices as strings.
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// tickerKeyNames maps Binance's single-letter 24hrTicker keys to
// readable names. Keys absent from the mapping pass through unchanged.
var tickerKeyNames = map[string]string{
	"e": "Event Type",
	"E": "Event Time",
	"s": "Symbol",
	"p": "Price Change",
	"P": "Price Change Percent",
	"w": "Weighted Average Price",
	"x": "Previous Close Price",
	"c": "Current Close Price",
	"Q": "Last Trade Quantity",
	"b": "Best Bid Price",
	"B": "Best Bid Quantity",
	"a": "Best Ask Price",
	"A": "Best Ask Quantity",
	"o": "Open Price",
	"h": "High Price",
	"l": "Low Price",
	"v": "Base Asset Volume",
	"q": "Quote Asset Volume",
	"O": "Open Time",
	"C": "Close Time",
	"F": "First Trade ID",
	"L": "Last Trade ID",
	"n": "Number of Trades",
}

// TranslateTickerData rewrites a raw ticker tick with readable field
// names. Pure transform; values are untouched.
func TranslateTickerData(t Tick) map[string]any {
	out := make(map[string]any, len(t))
	for key, value := range t {
		name, ok := tickerKeyNames[key]
		if !ok {
			name = key
		}
		out[name] = value
	}
	return out
}
