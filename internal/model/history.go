package model

// AssetSnapshot is the valuation of one held asset at snapshot time.
type AssetSnapshot struct {
	Amount   float64 `json:"amount"`
	USDValue float64 `json:"usdValue"`
}

// ExchangeSnapshot is the valuation of one venue at snapshot time.
type ExchangeSnapshot struct {
	TotalValueUSD float64                  `json:"totalValueUSD"`
	Assets        map[string]AssetSnapshot `json:"assets"`
}

// PortfolioSnapshot is one point in the persisted portfolio history.
type PortfolioSnapshot struct {
	Timestamp     int64                       `json:"timestamp"`
	TotalValueUSD float64                     `json:"totalValueUSD"`
	Exchanges     map[string]ExchangeSnapshot `json:"exchanges"`
}
