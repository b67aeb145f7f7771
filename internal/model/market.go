package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Ticker is a normalized 24h market snapshot for one symbol.
type Ticker struct {
	Symbol    string  `json:"symbol"`
	Last      float64 `json:"last"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	ChangePct float64 `json:"changePct"` // 24h change in percent
	Volume    float64 `json:"volume"`    // 24h quote volume
}

// PriceData is the 24h price summary returned to callers.
type PriceData struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume24h float64 `json:"volume24h"`
}

// Balance maps asset symbol to the freely available amount on a venue.
type Balance map[string]float64

// Order is the result of an order placement on an exchange.
type Order struct {
	ID     string    `json:"id"`
	Symbol string    `json:"symbol"`
	Side   TradeSide `json:"side"`
	Type   OrderType `json:"type"`
	Amount float64   `json:"amount"`
	Price  float64   `json:"price,omitempty"`
}
