package model

// ExchangeQuote is a best bid/ask pair observed on one venue.
type ExchangeQuote struct {
	Exchange string  `json:"exchange"`
	Bid      float64 `json:"bid"`
	Ask      float64 `json:"ask"`
}

// Opportunity is a cross-exchange spread above the caller's threshold.
// Spread figures are pre-fee; callers must subtract trading fees.
type Opportunity struct {
	Symbol       string  `json:"symbol"`
	BuyExchange  string  `json:"buyExchange"`
	BuyPrice     float64 `json:"buyPrice"` // best ask on the buy venue
	SellExchange string  `json:"sellExchange"`
	SellPrice    float64 `json:"sellPrice"` // best bid on the sell venue
	SpreadPct    float64 `json:"spreadPct"`
}

// ArbitragePreview is the profitability breakdown for one trade pair,
// with a flat 0.1% fee estimated per leg.
type ArbitragePreview struct {
	Symbol        string  `json:"symbol"`
	Amount        float64 `json:"amount"`
	BuyExchange   string  `json:"buyExchange"`
	SellExchange  string  `json:"sellExchange"`
	BuyPrice      float64 `json:"buyPrice"`
	SellPrice     float64 `json:"sellPrice"`
	GrossProfit   float64 `json:"grossProfit"`
	EstimatedFees float64 `json:"estimatedFees"`
	NetProfit     float64 `json:"netProfit"`
}

// ArbitrageResult reports a two-leg execution. Partial means the buy
// filled but the sell failed, leaving the asset unhedged on the buy
// exchange; no automatic unwind is attempted.
type ArbitrageResult struct {
	Symbol      string  `json:"symbol"`
	Amount      float64 `json:"amount"`
	BuyOrderID  string  `json:"buyOrderId,omitempty"`
	SellOrderID string  `json:"sellOrderId,omitempty"`
	Partial     bool    `json:"partial"`
	Message     string  `json:"message,omitempty"`
}
